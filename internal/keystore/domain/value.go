package domain

import "strings"

// emptyValueSentinel replaces empty values before encryption. The key service's
// encrypt operation does not accept empty input.
const emptyValueSentinel = "\x00"

// trailingCutset is the trailing whitespace stripped from decrypted values. It
// includes NUL so the empty-value sentinel decodes back to "".
const trailingCutset = " \t\n\v\f\r\x00"

// NormalizeValue returns the bytes to encrypt for value.
func NormalizeValue(value string) []byte {
	if value == "" {
		return []byte(emptyValueSentinel)
	}
	return []byte(value)
}

// DenormalizeValue turns decrypted bytes back into the caller's value by
// stripping trailing whitespace, including the empty-value sentinel.
func DenormalizeValue(plaintext []byte) string {
	return strings.TrimRight(string(plaintext), trailingCutset)
}
