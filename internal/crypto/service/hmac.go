package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	cryptoDomain "github.com/allisson/keystore/internal/crypto/domain"
)

// HMACSHA256Hex computes HMAC-SHA256 of message under key and returns it as
// lowercase hex.
func HMACSHA256Hex(key, message []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMACSHA256Hex recomputes the HMAC of message and compares it with the
// stored hex digest. Any difference is reported as ErrHMACMismatch.
func VerifyHMACSHA256Hex(key, message []byte, stored string) error {
	computed := HMACSHA256Hex(key, message)
	if !hmac.Equal([]byte(computed), []byte(stored)) {
		return cryptoDomain.ErrHMACMismatch
	}
	return nil
}
