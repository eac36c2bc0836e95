// Package service provides API token generation and verification for the keystore
// HTTP server. Tokens are random strings; only their Argon2id hash is configured on
// the server.
package service

// TokenService defines operations for API token generation and validation.
type TokenService interface {
	// GenerateToken creates a new cryptographically secure random token.
	// Returns both the plain text token (handed to API callers) and its hash
	// (configured as SERVER_AUTH_TOKEN_HASH).
	//
	// The plain token should be treated as sensitive data and only displayed
	// once.
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken hashes a plain text token using Argon2id.
	HashToken(plainToken string) (tokenHash string, err error)

	// CompareToken compares a plain text token against a hash in constant time.
	CompareToken(plainToken string, tokenHash string) bool
}
