// Package dto provides data transfer objects for the keystore HTTP API.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/keystore/internal/validation"
)

// StoreKeyRequest contains the parameters for storing a key.
// The key name is extracted from the URL parameter, not the request body.
// Value is a pointer so that an empty string can be stored.
type StoreKeyRequest struct {
	Value   *string `json:"value"`
	Version string  `json:"version"`
}

// Validate checks if the store key request is valid.
func (r *StoreKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Value, validation.NotNil),
		validation.Field(&r.Version, customValidation.Version...),
	)
}

// ValidateKeyName checks a key name taken from the URL.
func ValidateKeyName(name string) error {
	return validation.Validate(name, customValidation.KeyName...)
}

// ValidateVersion checks a version taken from the query string.
func ValidateVersion(version string) error {
	return validation.Validate(version, customValidation.Version...)
}
