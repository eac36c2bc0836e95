package testutil

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	cryptoService "github.com/allisson/keystore/internal/crypto/service"
)

// NewLocalKeyService returns a key service backed by an in-process localsecrets
// keeper with a random master key. The key id is the keeper URI and every alias
// in aliases resolves to it. The keeper is closed when the test ends.
func NewLocalKeyService(t *testing.T, aliases ...string) (*cryptoService.KeeperKeyService, string) {
	t.Helper()

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	keyURI := "base64key://" + base64.URLEncoding.EncodeToString(key)

	keeper, err := cryptoService.NewKMSService().OpenKeeper(context.Background(), keyURI)
	require.NoError(t, err)

	svc := cryptoService.NewKeeperKeyService(keeper, keyURI, aliases...)
	t.Cleanup(func() {
		_ = svc.Close()
	})
	return svc, keyURI
}
