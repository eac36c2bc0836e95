// Package service provides the cryptographic building blocks of the keystore:
// AES-256-CTR and HMAC-SHA256 primitives, key service implementations (AWS KMS and
// gocloud.dev keepers) and key alias resolution.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/keystore/internal/crypto/domain"
)

// KeyService is the external key-management service used for envelope encryption.
// Implementations must not log or cache plaintext key material.
type KeyService interface {
	// Encrypt encrypts plaintext directly under the master key keyID.
	Encrypt(ctx context.Context, keyID string, plaintext []byte) ([]byte, error)

	// Decrypt decrypts a ciphertext produced by Encrypt or a wrapped data key.
	// The ciphertext identifies its own master key.
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)

	// GenerateDataKey returns size fresh random bytes together with their form
	// wrapped under the master key keyID.
	GenerateDataKey(ctx context.Context, keyID string, size int) (*cryptoDomain.DataKey, error)

	// ListAliases returns every alias registered in the key service.
	ListAliases(ctx context.Context) ([]cryptoDomain.Alias, error)
}

// AliasLister lists the aliases registered in a key service.
type AliasLister interface {
	ListAliases(ctx context.Context) ([]cryptoDomain.Alias, error)
}

// Keeper is the subset of *secrets.Keeper used by KeeperKeyService.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
