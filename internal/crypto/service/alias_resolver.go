package service

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/keystore/internal/crypto/domain"
)

// ResolveKeyID returns the key id a KeyRef points to. An explicit id is returned
// as is; an alias is looked up in the key service's alias listing.
//
// A listing failure is returned wrapped but untyped (a collaborator error), while
// a listing that has no matching alias yields ErrAliasNotFound.
func ResolveKeyID(ctx context.Context, lister AliasLister, ref cryptoDomain.KeyRef) (string, error) {
	if ref.ID != "" {
		return ref.ID, nil
	}

	aliases, err := lister.ListAliases(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list key aliases: %w", err)
	}

	name := ref.AliasName()
	for _, alias := range aliases {
		if alias.Name == name && alias.KeyID != "" {
			return alias.KeyID, nil
		}
	}

	return "", fmt.Errorf("%w: %s", cryptoDomain.ErrAliasNotFound, name)
}
