package domain

import (
	"github.com/allisson/keystore/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap the standard kinds from internal/errors so
// callers can branch on the kind (integrity, configuration, invalid input) while
// still getting a precise message.
var (
	// ErrHMACMismatch indicates the HMAC stored with a record differs from the HMAC
	// computed over its ciphertext. This is the only tamper-detection mechanism and
	// is never retried or repaired.
	ErrHMACMismatch = errors.Wrap(errors.ErrIntegrity, "stored HMAC != computed HMAC")

	// ErrAliasNotFound indicates no alias registered in the key service matches the
	// configured symbolic alias.
	ErrAliasNotFound = errors.Wrap(errors.ErrConfiguration, "alias is not valid")

	// ErrInvalidKeySize indicates a cipher or HMAC key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidKeyMaterial indicates the key service returned key material that
	// cannot be split into a cipher key and an HMAC key.
	ErrInvalidKeyMaterial = errors.Wrap(errors.ErrInvalidInput, "invalid key material")

	// ErrKeyIDMismatch indicates a key service was asked to use a key it does not hold.
	ErrKeyIDMismatch = errors.Wrap(errors.ErrInvalidInput, "key id is not served by this key service")
)
