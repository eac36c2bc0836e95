package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	keystoreUseCase "github.com/allisson/keystore/internal/keystore/usecase"
)

// RunStore encrypts value and stores it under name.
func RunStore(
	ctx context.Context,
	useCase keystoreUseCase.KeystoreUseCase,
	logger *slog.Logger,
	name, value, version string,
) error {
	record, err := useCase.Store(ctx, name, value, version)
	if err != nil {
		return fmt.Errorf("failed to store key %s: %w", name, err)
	}

	logger.Info("key stored",
		slog.String("name", record.KeyName()),
		slog.String("version", record.RecordVersion()),
		slog.String("format", string(record.Format())),
	)
	return nil
}

// RunRetrieve writes the plaintext stored under name, followed by a newline.
func RunRetrieve(
	ctx context.Context,
	useCase keystoreUseCase.KeystoreUseCase,
	writer io.Writer,
	name, version string,
) error {
	value, err := useCase.Retrieve(ctx, name, version)
	if err != nil {
		return fmt.Errorf("failed to retrieve key %s: %w", name, err)
	}

	if _, err := fmt.Fprintln(writer, value); err != nil {
		return fmt.Errorf("failed to write value: %w", err)
	}
	return nil
}
