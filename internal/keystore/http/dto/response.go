package dto

import (
	keystoreDomain "github.com/allisson/keystore/internal/keystore/domain"
)

// StoreKeyResponse acknowledges a write. It never carries the value.
type StoreKeyResponse struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Format  string `json:"format"`
}

// RetrieveKeyResponse carries a decrypted value.
// SECURITY: Must be transmitted over HTTPS in production.
type RetrieveKeyResponse struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Value   string `json:"value"`
}

// MapRecordToStoreResponse converts a written record to an API response.
func MapRecordToStoreResponse(record keystoreDomain.Record) StoreKeyResponse {
	return StoreKeyResponse{
		Name:    record.KeyName(),
		Version: record.RecordVersion(),
		Format:  string(record.Format()),
	}
}

// MapSecretToRetrieveResponse converts a decrypted secret to an API response. The
// version is the one of the record served, not the one requested.
func MapSecretToRetrieveResponse(secret keystoreDomain.Secret) RetrieveKeyResponse {
	return RetrieveKeyResponse{
		Name:    secret.Name,
		Version: secret.Version,
		Value:   secret.Value,
	}
}
