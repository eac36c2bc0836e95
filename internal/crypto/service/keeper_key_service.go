package service

import (
	"context"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/keystore/internal/crypto/domain"
)

// KeeperKeyService implements KeyService on top of a single gocloud.dev keeper.
//
// A keeper wraps exactly one master key, so the service answers to one key id
// (usually the keeper URI) and to a fixed set of aliases pointing at it. Data keys
// are drawn from crypto/rand and wrapped by the keeper.
type KeeperKeyService struct {
	keeper  Keeper
	keyID   string
	aliases []cryptoDomain.Alias
}

// NewKeeperKeyService creates a key service for keeper. Every alias in aliases
// (with or without the "alias/" prefix) resolves to keyID.
func NewKeeperKeyService(keeper Keeper, keyID string, aliases ...string) *KeeperKeyService {
	registered := make([]cryptoDomain.Alias, 0, len(aliases))
	for _, alias := range aliases {
		registered = append(registered, cryptoDomain.Alias{
			Name:  cryptoDomain.KeyRef{Alias: alias}.AliasName(),
			KeyID: keyID,
		})
	}

	return &KeeperKeyService{
		keeper:  keeper,
		keyID:   keyID,
		aliases: registered,
	}
}

// Encrypt encrypts plaintext with the keeper.
func (k *KeeperKeyService) Encrypt(ctx context.Context, keyID string, plaintext []byte) ([]byte, error) {
	if keyID != k.keyID {
		return nil, fmt.Errorf("%w: %s", cryptoDomain.ErrKeyIDMismatch, keyID)
	}

	ciphertext, err := k.keeper.Encrypt(ctx, plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt with keeper: %w", err)
	}
	return ciphertext, nil
}

// Decrypt decrypts ciphertext with the keeper.
func (k *KeeperKeyService) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	plaintext, err := k.keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt with keeper: %w", err)
	}
	return plaintext, nil
}

// GenerateDataKey draws size random bytes and wraps them with the keeper.
func (k *KeeperKeyService) GenerateDataKey(
	ctx context.Context,
	keyID string,
	size int,
) (*cryptoDomain.DataKey, error) {
	if keyID != k.keyID {
		return nil, fmt.Errorf("%w: %s", cryptoDomain.ErrKeyIDMismatch, keyID)
	}

	plaintext := make([]byte, size)
	if _, err := rand.Read(plaintext); err != nil {
		return nil, fmt.Errorf("failed to generate data key: %w", err)
	}

	wrapped, err := k.keeper.Encrypt(ctx, plaintext)
	if err != nil {
		cryptoDomain.Zero(plaintext)
		return nil, fmt.Errorf("failed to wrap data key: %w", err)
	}

	return &cryptoDomain.DataKey{Plaintext: plaintext, Wrapped: wrapped}, nil
}

// ListAliases returns the aliases configured for the keeper.
func (k *KeeperKeyService) ListAliases(ctx context.Context) ([]cryptoDomain.Alias, error) {
	aliases := make([]cryptoDomain.Alias, len(k.aliases))
	copy(aliases, k.aliases)
	return aliases, nil
}

// Close releases the underlying keeper.
func (k *KeeperKeyService) Close() error {
	return k.keeper.Close()
}
