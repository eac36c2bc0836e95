package domain

import (
	"github.com/allisson/keystore/internal/errors"
)

// Keystore error definitions.
var (
	// ErrKeyNotFound indicates no record matches the key name (and version), or the
	// matched v1 record has no value.
	ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "key not found")

	// ErrRecordExists indicates a v2 record with the same name and version was
	// already stored. The first write wins; the conflict is not retried.
	ErrRecordExists = errors.Wrap(errors.ErrConflict, "record already exists")

	// ErrUnknownFormat indicates a stored or configured format is neither v1 nor v2.
	ErrUnknownFormat = errors.Wrap(errors.ErrUnsupportedFormat, "unknown keystore_format")

	// ErrVersionNotSupported indicates an explicit version was used with the v1 format.
	ErrVersionNotSupported = errors.Wrap(errors.ErrInvalidInput, "versions require the v2 format")

	// ErrInvalidVersion indicates a version with surrounding whitespace, control
	// characters or more than 64 characters.
	ErrInvalidVersion = errors.Wrap(errors.ErrInvalidInput, "invalid version")

	// ErrInvalidKeyName indicates a blank key name.
	ErrInvalidKeyName = errors.Wrap(errors.ErrInvalidInput, "key name must not be blank")

	// ErrInvalidRecord indicates a stored record's encoded fields cannot be decoded.
	ErrInvalidRecord = errors.Wrap(errors.ErrInvalidInput, "invalid record encoding")

	// ErrMissingRepository indicates the facade was built without a record repository.
	ErrMissingRepository = errors.Wrap(errors.ErrConfiguration, "need to specify a record repository")

	// ErrMissingKeyService indicates the facade was built without a key service.
	ErrMissingKeyService = errors.Wrap(errors.ErrConfiguration, "need to specify a key service")

	// ErrMissingTable indicates the facade was built without a table name.
	ErrMissingTable = errors.Wrap(errors.ErrConfiguration, "need to specify table_name")
)

// ErrInvalidTableName indicates a table name that cannot be used as a SQL identifier.
var ErrInvalidTableName = errors.Wrap(errors.ErrInvalidInput, "invalid table name")
