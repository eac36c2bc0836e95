package service

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	cryptoDomain "github.com/allisson/keystore/internal/crypto/domain"
)

// zeroIV is the implied all-zero initialization vector used by every envelope.
// It is sound only while each data key encrypts exactly one value.
var zeroIV = make([]byte, aes.BlockSize)

// EncryptAES256CTR encrypts plaintext with AES-256 in CTR mode under key and the
// all-zero IV. The key must be 32 bytes and must never be used for another value.
func EncryptAES256CTR(key, plaintext []byte) ([]byte, error) {
	return xorAES256CTR(key, plaintext)
}

// DecryptAES256CTR reverses EncryptAES256CTR.
func DecryptAES256CTR(key, ciphertext []byte) ([]byte, error) {
	return xorAES256CTR(key, ciphertext)
}

// xorAES256CTR applies the AES-256-CTR keystream to src. CTR is symmetric and
// needs no padding, so the output has the same length as src.
func xorAES256CTR(key, src []byte) ([]byte, error) {
	if len(key) != cryptoDomain.DataKeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	dst := make([]byte, len(src))
	cipher.NewCTR(block, zeroIV).XORKeyStream(dst, src)
	return dst, nil
}
