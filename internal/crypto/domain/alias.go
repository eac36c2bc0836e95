package domain

import "strings"

// Alias is a symbolic name registered in the key service for a key id.
type Alias struct {
	// Name is the full alias name, including the "alias/" prefix.
	Name string
	// KeyID is the key the alias points to. Empty for aliases without a target.
	KeyID string
}

// KeyRef identifies the master key used to encrypt values: either an explicit
// key id or a symbolic alias resolved through the key service.
type KeyRef struct {
	ID    string
	Alias string
}

// NewKeyRef builds a KeyRef, falling back to DefaultKeyAlias when neither an id
// nor an alias is given. An explicit id always wins over an alias.
func NewKeyRef(id, alias string) KeyRef {
	if id != "" {
		return KeyRef{ID: id}
	}
	if alias == "" {
		alias = DefaultKeyAlias
	}
	return KeyRef{Alias: alias}
}

// AliasName returns the registered alias name to look up, always with the
// "alias/" prefix.
func (k KeyRef) AliasName() string {
	return AliasPrefix + strings.TrimPrefix(k.Alias, AliasPrefix)
}

// String returns the id or the prefixed alias, suitable for logging.
func (k KeyRef) String() string {
	if k.ID != "" {
		return k.ID
	}
	return k.AliasName()
}
