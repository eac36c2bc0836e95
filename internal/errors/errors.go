// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. Use cases return these kinds (usually wrapped
// with domain context) and the CLI and HTTP layers branch on them.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., a record that already exists).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated caller doesn't have permission.
	ErrForbidden = errors.New("forbidden")

	// ErrIntegrity indicates stored data failed an authenticity check. Never retried.
	ErrIntegrity = errors.New("integrity error")

	// ErrConfiguration indicates a missing or unresolvable setting (collaborators,
	// table name, key alias). Raised eagerly and never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrUnsupportedFormat indicates there is no decoding or encoding path for a format.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// kinds lists the standard errors in precedence order. An integrity failure wins
// over any other kind it may also wrap.
var kinds = []error{
	ErrIntegrity,
	ErrNotFound,
	ErrConflict,
	ErrConfiguration,
	ErrUnsupportedFormat,
	ErrInvalidInput,
	ErrUnauthorized,
	ErrForbidden,
}

// Kind returns the standard error err wraps, or nil for nil errors and for
// errors that wrap none of them (collaborator failures).
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is like Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
