// Package domain defines the keystore record model: the two persisted record
// formats, version ordering, value normalization and the facade options.
package domain

import (
	"fmt"

	"github.com/allisson/keystore/internal/errors"
)

// Format identifies the encoding scheme that produced a record.
type Format string

const (
	// FormatV1 records hold the key service's direct ciphertext of the value.
	FormatV1 Format = "v1"

	// FormatV2 records are credstash-compatible envelopes: AES-256-CTR ciphertext,
	// a wrapped 64-byte data key and an HMAC-SHA256 of the ciphertext.
	FormatV2 Format = "v2"

	// DefaultFormat is used when no format is configured.
	DefaultFormat = FormatV1
)

// ParseFormat parses a configured format name. An empty name yields DefaultFormat.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "":
		return DefaultFormat, nil
	case FormatV1, FormatV2:
		return Format(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ParseConfiguredFormat is ParseFormat for the format a keystore is configured
// with. A rejected name matches both errors.ErrConfiguration and ErrUnknownFormat.
func ParseConfiguredFormat(s string) (Format, error) {
	f, err := ParseFormat(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrConfiguration, err)
	}
	return f, nil
}
