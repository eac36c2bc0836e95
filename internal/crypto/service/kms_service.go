package service

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"

	apperrors "github.com/allisson/keystore/internal/errors"
)

// KMSService opens gocloud.dev keepers for the keeper-backed key service.
type KMSService interface {
	// OpenKeeper opens the keeper addressed by keyURI. Supported schemes:
	// base64key://, awskms://, gcpkms://, azurekeyvault://, hashivault://.
	OpenKeeper(ctx context.Context, keyURI string) (Keeper, error)
}

type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (Keeper, error) {
	if keyURI == "" {
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, "keeper key uri is empty")
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}
