package service

import (
	"context"
	"fmt"

	cryptoService "github.com/allisson/keystore/internal/crypto/service"
	keystoreDomain "github.com/allisson/keystore/internal/keystore/domain"
)

// DirectCodec encodes v1 records: the value is encrypted directly by the key
// service and no local cipher is involved.
type DirectCodec struct {
	keyService cryptoService.KeyService
}

// NewDirectCodec creates a v1 codec backed by keyService.
func NewDirectCodec(keyService cryptoService.KeyService) *DirectCodec {
	return &DirectCodec{keyService: keyService}
}

// Encode encrypts value under keyID and returns the v1 record for name.
func (c *DirectCodec) Encode(
	ctx context.Context,
	name, keyID, value string,
) (*keystoreDomain.V1Record, error) {
	ciphertext, err := c.keyService.Encrypt(ctx, keyID, keystoreDomain.NormalizeValue(value))
	if err != nil {
		return nil, err
	}

	return &keystoreDomain.V1Record{
		Name:  name,
		Value: encodeBase64(ciphertext),
	}, nil
}

// Decode decrypts a v1 record.
func (c *DirectCodec) Decode(ctx context.Context, record *keystoreDomain.V1Record) (string, error) {
	if record.Value == "" {
		return "", fmt.Errorf("%w: keyname %s", keystoreDomain.ErrKeyNotFound, record.Name)
	}

	ciphertext, err := decodeBase64("Value", record.Value)
	if err != nil {
		return "", err
	}

	plaintext, err := c.keyService.Decrypt(ctx, ciphertext)
	if err != nil {
		return "", err
	}

	return keystoreDomain.DenormalizeValue(plaintext), nil
}
