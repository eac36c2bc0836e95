package service

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"

	cryptoDomain "github.com/allisson/keystore/internal/crypto/domain"
)

// KMSAPI is the subset of the AWS KMS client used by AWSKMSKeyService.
type KMSAPI interface {
	Encrypt(ctx context.Context, params *kms.EncryptInput, optFns ...func(*kms.Options)) (*kms.EncryptOutput, error)
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
	GenerateDataKey(
		ctx context.Context,
		params *kms.GenerateDataKeyInput,
		optFns ...func(*kms.Options),
	) (*kms.GenerateDataKeyOutput, error)
	ListAliases(
		ctx context.Context,
		params *kms.ListAliasesInput,
		optFns ...func(*kms.Options),
	) (*kms.ListAliasesOutput, error)
}

// AWSKMSKeyService implements KeyService with AWS KMS.
type AWSKMSKeyService struct {
	client KMSAPI
}

// NewAWSKMSKeyService creates a key service backed by an AWS KMS client.
func NewAWSKMSKeyService(client KMSAPI) *AWSKMSKeyService {
	return &AWSKMSKeyService{client: client}
}

// Encrypt calls kms:Encrypt with keyID.
func (a *AWSKMSKeyService) Encrypt(ctx context.Context, keyID string, plaintext []byte) ([]byte, error) {
	out, err := a.client.Encrypt(ctx, &kms.EncryptInput{
		KeyId:     aws.String(keyID),
		Plaintext: plaintext,
	})
	if err != nil {
		return nil, fmt.Errorf("kms encrypt: %w", err)
	}
	return out.CiphertextBlob, nil
}

// Decrypt calls kms:Decrypt. The blob carries its own key id.
func (a *AWSKMSKeyService) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	out, err := a.client.Decrypt(ctx, &kms.DecryptInput{
		CiphertextBlob: ciphertext,
	})
	if err != nil {
		return nil, fmt.Errorf("kms decrypt: %w", err)
	}
	return out.Plaintext, nil
}

// GenerateDataKey calls kms:GenerateDataKey for size bytes under keyID.
func (a *AWSKMSKeyService) GenerateDataKey(
	ctx context.Context,
	keyID string,
	size int,
) (*cryptoDomain.DataKey, error) {
	out, err := a.client.GenerateDataKey(ctx, &kms.GenerateDataKeyInput{
		KeyId:         aws.String(keyID),
		NumberOfBytes: aws.Int32(int32(size)),
	})
	if err != nil {
		return nil, fmt.Errorf("kms generate data key: %w", err)
	}
	return &cryptoDomain.DataKey{Plaintext: out.Plaintext, Wrapped: out.CiphertextBlob}, nil
}

// ListAliases pages through kms:ListAliases.
func (a *AWSKMSKeyService) ListAliases(ctx context.Context) ([]cryptoDomain.Alias, error) {
	var aliases []cryptoDomain.Alias

	paginator := kms.NewListAliasesPaginator(a.client, &kms.ListAliasesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("kms list aliases: %w", err)
		}
		for _, entry := range page.Aliases {
			aliases = append(aliases, cryptoDomain.Alias{
				Name:  aws.ToString(entry.AliasName),
				KeyID: aws.ToString(entry.TargetKeyId),
			})
		}
	}

	return aliases, nil
}
