package usecase

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/jellydator/validation"

	cryptoService "github.com/allisson/keystore/internal/crypto/service"
	keystoreDomain "github.com/allisson/keystore/internal/keystore/domain"
	keystoreService "github.com/allisson/keystore/internal/keystore/service"
	customValidation "github.com/allisson/keystore/internal/validation"
)

// keystoreUseCase implements the KeystoreUseCase interface.
type keystoreUseCase struct {
	repo       RecordRepository
	keyService cryptoService.KeyService
	opts       keystoreDomain.Options
	direct     *keystoreService.DirectCodec
	envelope   *keystoreService.EnvelopeCodec
}

// Store encrypts and persists a value.
func (k *keystoreUseCase) Store(
	ctx context.Context,
	name, value, version string,
) (keystoreDomain.Record, error) {
	if strings.TrimSpace(name) == "" {
		return nil, keystoreDomain.ErrInvalidKeyName
	}

	switch k.opts.Format {
	case keystoreDomain.FormatV1:
		if version != "" {
			return nil, keystoreDomain.ErrVersionNotSupported
		}
		return k.storeV1(ctx, name, value)
	case keystoreDomain.FormatV2:
		if err := validateVersion(version); err != nil {
			return nil, err
		}
		return k.storeV2(ctx, name, value, version)
	default:
		return nil, fmt.Errorf("%w: %s", keystoreDomain.ErrUnknownFormat, k.opts.Format)
	}
}

func (k *keystoreUseCase) storeV1(ctx context.Context, name, value string) (keystoreDomain.Record, error) {
	keyID, err := cryptoService.ResolveKeyID(ctx, k.keyService, k.opts.Key)
	if err != nil {
		return nil, err
	}

	record, err := k.direct.Encode(ctx, name, keyID, value)
	if err != nil {
		return nil, err
	}

	// v1 writes overwrite unconditionally.
	if err := k.repo.Put(ctx, k.opts.Table, keystoreDomain.NewItem(record)); err != nil {
		return nil, err
	}
	return record, nil
}

func (k *keystoreUseCase) storeV2(ctx context.Context, name, value, version string) (keystoreDomain.Record, error) {
	keyID, err := cryptoService.ResolveKeyID(ctx, k.keyService, k.opts.Key)
	if err != nil {
		return nil, err
	}

	record, err := k.envelope.Encode(ctx, name, version, keyID, value)
	if err != nil {
		return nil, err
	}

	// First write wins for a name and version; conflicts are returned, not retried.
	if err := k.repo.PutIfAbsent(ctx, k.opts.Table, keystoreDomain.NewItem(record)); err != nil {
		return nil, err
	}
	return record, nil
}

// Retrieve loads and decrypts a value.
func (k *keystoreUseCase) Retrieve(ctx context.Context, name, version string) (string, error) {
	secret, err := k.RetrieveSecret(ctx, name, version)
	if err != nil {
		return "", err
	}
	return secret.Value, nil
}

// RetrieveSecret loads and decrypts a value and reports the record it came from.
func (k *keystoreUseCase) RetrieveSecret(
	ctx context.Context,
	name, version string,
) (keystoreDomain.Secret, error) {
	if strings.TrimSpace(name) == "" {
		return keystoreDomain.Secret{}, keystoreDomain.ErrInvalidKeyName
	}
	if err := validateVersion(version); err != nil {
		return keystoreDomain.Secret{}, err
	}

	if version != "" {
		return k.retrieveVersion(ctx, name, version)
	}

	item, err := k.repo.GetLatest(ctx, k.opts.Table, name)
	if err != nil {
		return keystoreDomain.Secret{}, err
	}

	record, err := item.Record()
	if err != nil {
		return keystoreDomain.Secret{}, err
	}

	value, err := k.decode(ctx, record)
	if err != nil {
		return keystoreDomain.Secret{}, err
	}
	return keystoreDomain.NewSecret(record, value), nil
}

func (k *keystoreUseCase) retrieveVersion(ctx context.Context, name, version string) (keystoreDomain.Secret, error) {
	item, err := k.repo.GetByVersion(ctx, k.opts.Table, name, version)
	if err != nil {
		return keystoreDomain.Secret{}, err
	}

	record, err := item.Record()
	if err != nil {
		return keystoreDomain.Secret{}, err
	}

	// Versioned lookups only exist for the v2 format.
	v2, ok := record.(*keystoreDomain.V2Record)
	if !ok {
		return keystoreDomain.Secret{}, fmt.Errorf(
			"%w: keyname %s version %s", keystoreDomain.ErrKeyNotFound, name, version,
		)
	}

	value, err := k.envelope.Decode(ctx, v2)
	if err != nil {
		return keystoreDomain.Secret{}, err
	}
	return keystoreDomain.NewSecret(v2, value), nil
}

// validateVersion applies the version rules shared with the HTTP layer. The DynamoDB
// range key of v1 records relies on these rules to stay out of the v2 key space.
func validateVersion(version string) error {
	if err := validation.Validate(version, customValidation.Version...); err != nil {
		return fmt.Errorf("%w: %v", keystoreDomain.ErrInvalidVersion, err)
	}
	return nil
}

// decode dispatches on the record variant decoded from the stored format tag.
func (k *keystoreUseCase) decode(ctx context.Context, record keystoreDomain.Record) (string, error) {
	switch r := record.(type) {
	case *keystoreDomain.V1Record:
		return k.direct.Decode(ctx, r)
	case *keystoreDomain.V2Record:
		return k.envelope.Decode(ctx, r)
	default:
		return "", fmt.Errorf("%w: %T", keystoreDomain.ErrUnknownFormat, record)
	}
}

// NewKeystoreUseCase creates the keystore facade. It fails with a configuration
// error when a collaborator or the table name is missing, or when opts names an
// unsupported format (which also matches ErrUnknownFormat).
func NewKeystoreUseCase(
	repo RecordRepository,
	keyService cryptoService.KeyService,
	opts keystoreDomain.Options,
) (KeystoreUseCase, error) {
	if repo == nil {
		return nil, keystoreDomain.ErrMissingRepository
	}
	if keyService == nil {
		return nil, keystoreDomain.ErrMissingKeyService
	}
	if opts.Table == "" {
		return nil, keystoreDomain.ErrMissingTable
	}
	if _, err := keystoreDomain.ParseConfiguredFormat(string(opts.Format)); err != nil {
		return nil, err
	}
	if opts.Format == "" {
		opts.Format = keystoreDomain.DefaultFormat
	}

	return &keystoreUseCase{
		repo:       repo,
		keyService: keyService,
		opts:       opts,
		direct:     keystoreService.NewDirectCodec(keyService),
		envelope:   keystoreService.NewEnvelopeCodec(keyService),
	}, nil
}
