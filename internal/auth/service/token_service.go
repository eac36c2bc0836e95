package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/keystore/internal/errors"
)

const tokenSize = 32

// tokenService implements TokenService using Argon2id for hashing.
type tokenService struct {
	hasher *pwdhash.PasswordHasher
}

// GenerateToken creates a new 32-byte random token encoded with base64 URL encoding.
func (s *tokenService) GenerateToken() (plainToken string, tokenHash string, err error) {
	randomBytes := make([]byte, tokenSize)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}

	plainToken = base64.URLEncoding.EncodeToString(randomBytes)

	tokenHash, err = s.HashToken(plainToken)
	if err != nil {
		return "", "", err
	}

	return plainToken, tokenHash, nil
}

// HashToken hashes a plain text token using Argon2id.
func (s *tokenService) HashToken(plainToken string) (string, error) {
	tokenHash, err := s.hasher.Hash([]byte(plainToken))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash token")
	}
	return tokenHash, nil
}

// CompareToken performs a constant-time comparison between a plain token and its hash.
func (s *tokenService) CompareToken(plainToken string, tokenHash string) bool {
	ok, err := s.hasher.Verify([]byte(plainToken), tokenHash)
	if err != nil {
		return false
	}
	return ok
}

// NewTokenService creates a new TokenService using the Moderate Argon2id policy.
func NewTokenService() TokenService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &tokenService{
		hasher: hasher,
	}
}
