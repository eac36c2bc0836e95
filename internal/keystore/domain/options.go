package domain

import (
	cryptoDomain "github.com/allisson/keystore/internal/crypto/domain"
)

// Options is the immutable keystore configuration, built once and passed by value.
type Options struct {
	// Table is the collection records are stored in.
	Table string
	// Format is the format used for new records. Reads are self-describing.
	Format Format
	// Key is the master key new records are encrypted under.
	Key cryptoDomain.KeyRef
}

// NewOptions validates and builds Options. An empty format defaults to v1 and an
// empty key id and alias default to the "keystore" alias.
func NewOptions(table, format, keyID, keyAlias string) (Options, error) {
	if table == "" {
		return Options{}, ErrMissingTable
	}

	f, err := ParseConfiguredFormat(format)
	if err != nil {
		return Options{}, err
	}

	return Options{
		Table:  table,
		Format: f,
		Key:    cryptoDomain.NewKeyRef(keyID, keyAlias),
	}, nil
}
