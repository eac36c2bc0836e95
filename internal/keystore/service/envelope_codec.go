package service

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/keystore/internal/crypto/domain"
	cryptoService "github.com/allisson/keystore/internal/crypto/service"
	keystoreDomain "github.com/allisson/keystore/internal/keystore/domain"
)

// EnvelopeCodec encodes credstash-compatible v2 records.
//
// Every Encode call requests its own data key and uses it for exactly one
// AES-256-CTR encryption. The all-zero IV depends on this: there is no API that
// accepts a caller-provided data key.
type EnvelopeCodec struct {
	keyService cryptoService.KeyService
}

// NewEnvelopeCodec creates a v2 codec backed by keyService.
func NewEnvelopeCodec(keyService cryptoService.KeyService) *EnvelopeCodec {
	return &EnvelopeCodec{keyService: keyService}
}

// Encode seals value under a fresh data key wrapped by keyID and returns the v2
// record for name and version. An empty version becomes DefaultVersion.
func (c *EnvelopeCodec) Encode(
	ctx context.Context,
	name, version, keyID, value string,
) (*keystoreDomain.V2Record, error) {
	if version == "" {
		version = keystoreDomain.DefaultVersion
	}

	dataKey, err := c.keyService.GenerateDataKey(ctx, keyID, cryptoDomain.KeyMaterialSize)
	if err != nil {
		return nil, err
	}
	defer dataKey.Zero()

	cipherKey, hmacKey, err := dataKey.Split()
	if err != nil {
		return nil, err
	}

	ciphertext, err := cryptoService.EncryptAES256CTR(cipherKey, keystoreDomain.NormalizeValue(value))
	if err != nil {
		return nil, err
	}

	return &keystoreDomain.V2Record{
		Name:     name,
		Version:  version,
		Key:      encodeBase64(dataKey.Wrapped),
		Contents: encodeBase64(ciphertext),
		HMAC:     cryptoService.HMACSHA256Hex(hmacKey, ciphertext),
	}, nil
}

// Decode verifies and decrypts a v2 record. A record whose HMAC does not match
// its contents is rejected with an integrity error before anything is decrypted.
func (c *EnvelopeCodec) Decode(ctx context.Context, record *keystoreDomain.V2Record) (string, error) {
	if record.Contents == "" {
		return "", fmt.Errorf("%w: keyname %s", keystoreDomain.ErrKeyNotFound, record.Name)
	}

	wrapped, err := decodeBase64("key", record.Key)
	if err != nil {
		return "", err
	}
	ciphertext, err := decodeBase64("contents", record.Contents)
	if err != nil {
		return "", err
	}

	material, err := c.keyService.Decrypt(ctx, wrapped)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(material)

	cipherKey, hmacKey, err := cryptoDomain.SplitKeyMaterial(material)
	if err != nil {
		return "", err
	}

	if err := cryptoService.VerifyHMACSHA256Hex(hmacKey, ciphertext, record.HMAC); err != nil {
		return "", err
	}

	plaintext, err := cryptoService.DecryptAES256CTR(cipherKey, ciphertext)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(plaintext)

	return keystoreDomain.DenormalizeValue(plaintext), nil
}
