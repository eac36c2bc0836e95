package commands

import (
	"fmt"
	"io"
	"log/slog"

	authService "github.com/allisson/keystore/internal/auth/service"
)

// RunCreateAPIToken generates an API token and prints it together with the hash
// to configure as SERVER_AUTH_TOKEN_HASH. The plain token is shown only once.
func RunCreateAPIToken(tokenService authService.TokenService, logger *slog.Logger, writer io.Writer) error {
	plainToken, tokenHash, err := tokenService.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate api token: %w", err)
	}

	logger.Info("api token generated")

	_, err = fmt.Fprintf(writer,
		"API token (store it securely, it will not be shown again):\n%s\n\nSet on the server:\nSERVER_AUTH_TOKEN_HASH=%s\n",
		plainToken,
		tokenHash,
	)
	if err != nil {
		return fmt.Errorf("failed to write api token: %w", err)
	}
	return nil
}
