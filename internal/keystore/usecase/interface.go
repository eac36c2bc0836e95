// Package usecase defines the keystore facade: the single store/retrieve contract
// that selects a record codec, resolves the master key and talks to the record
// repository.
package usecase

import (
	"context"

	keystoreDomain "github.com/allisson/keystore/internal/keystore/domain"
)

// RecordRepository defines the interface for keystore record persistence.
//
// Reads return keystoreDomain.ErrKeyNotFound when nothing matches. Writes that
// collide with an existing name and version return keystoreDomain.ErrRecordExists.
type RecordRepository interface {
	// Put stores item, overwriting any item with the same name and version.
	Put(ctx context.Context, table string, item keystoreDomain.Item) error
	// PutIfAbsent stores item only if no item with the same name and version exists.
	PutIfAbsent(ctx context.Context, table string, item keystoreDomain.Item) error
	// GetByVersion returns the item stored under name and version.
	GetByVersion(ctx context.Context, table, name, version string) (keystoreDomain.Item, error)
	// GetLatest returns the highest-versioned item stored under name.
	GetLatest(ctx context.Context, table, name string) (keystoreDomain.Item, error)
}

// KeystoreUseCase defines the keystore facade.
type KeystoreUseCase interface {
	// Store encrypts value with the configured format and persists it under name.
	// version must be empty for the v1 format; for v2 it defaults to "1". The
	// returned record is the write acknowledgement and holds no plaintext.
	Store(ctx context.Context, name, value, version string) (keystoreDomain.Record, error)

	// Retrieve returns the plaintext stored under name. An empty version selects the
	// highest stored version; an explicit version only matches v2 records.
	Retrieve(ctx context.Context, name, version string) (string, error)

	// RetrieveSecret is Retrieve that also reports the name, version and format of
	// the record that was served.
	RetrieveSecret(ctx context.Context, name, version string) (keystoreDomain.Secret, error)
}
