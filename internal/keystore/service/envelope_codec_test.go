package service

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/keystore/internal/crypto/domain"
	cryptoService "github.com/allisson/keystore/internal/crypto/service"
	apperrors "github.com/allisson/keystore/internal/errors"
	keystoreDomain "github.com/allisson/keystore/internal/keystore/domain"
	"github.com/allisson/keystore/internal/testutil"
)

func newTestEnvelopeCodec(t *testing.T) (*EnvelopeCodec, string) {
	t.Helper()
	keyService, keyID := testutil.NewLocalKeyService(t)
	return NewEnvelopeCodec(keyService), keyID
}

func TestEnvelopeCodec_RoundTrip(t *testing.T) {
	ctx := context.Background()
	codec, keyID := newTestEnvelopeCodec(t)

	values := []string{"secret", "", "a much longer value spanning several AES blocks of data", "x"}
	for _, value := range values {
		record, err := codec.Encode(ctx, "api-token", "2", keyID, value)
		require.NoError(t, err)
		assert.Equal(t, "api-token", record.Name)
		assert.Equal(t, "2", record.Version)
		assert.Equal(t, keystoreDomain.FormatV2, record.Format())
		assert.Len(t, record.HMAC, 64)

		got, err := codec.Decode(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, value, got)
	}
}

func TestEnvelopeCodec_DefaultVersion(t *testing.T) {
	codec, keyID := newTestEnvelopeCodec(t)

	record, err := codec.Encode(context.Background(), "a", "", keyID, "value")
	require.NoError(t, err)
	assert.Equal(t, keystoreDomain.DefaultVersion, record.Version)
}

func TestEnvelopeCodec_FreshDataKeyPerEncode(t *testing.T) {
	ctx := context.Background()
	codec, keyID := newTestEnvelopeCodec(t)

	first, err := codec.Encode(ctx, "a", "1", keyID, "same value")
	require.NoError(t, err)
	second, err := codec.Encode(ctx, "a", "1", keyID, "same value")
	require.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)
	assert.NotEqual(t, first.Contents, second.Contents)
	assert.NotEqual(t, first.HMAC, second.HMAC)
}

func TestEnvelopeCodec_CiphertextMatchesKeyMaterial(t *testing.T) {
	ctx := context.Background()
	keyService, keyID := testutil.NewLocalKeyService(t)
	codec := NewEnvelopeCodec(keyService)

	record, err := codec.Encode(ctx, "a", "1", keyID, "credstash")
	require.NoError(t, err)

	wrapped, err := base64.StdEncoding.DecodeString(record.Key)
	require.NoError(t, err)
	material, err := keyService.Decrypt(ctx, wrapped)
	require.NoError(t, err)
	require.Len(t, material, cryptoDomain.KeyMaterialSize)

	ciphertext, err := base64.StdEncoding.DecodeString(record.Contents)
	require.NoError(t, err)
	assert.Len(t, ciphertext, len("credstash"))
	assert.Equal(t, cryptoService.HMACSHA256Hex(material[32:], ciphertext), record.HMAC)

	plaintext, err := cryptoService.DecryptAES256CTR(material[:32], ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "credstash", string(plaintext))
}

func TestEnvelopeCodec_TamperRejection(t *testing.T) {
	ctx := context.Background()
	codec, keyID := newTestEnvelopeCodec(t)

	record, err := codec.Encode(ctx, "a", "1", keyID, "tamper me")
	require.NoError(t, err)

	ciphertext, err := base64.StdEncoding.DecodeString(record.Contents)
	require.NoError(t, err)

	t.Run("Error_FlippedCiphertextBits", func(t *testing.T) {
		for i := range ciphertext {
			for bit := range 8 {
				tampered := append([]byte(nil), ciphertext...)
				tampered[i] ^= 1 << bit

				r := *record
				r.Contents = base64.StdEncoding.EncodeToString(tampered)

				got, err := codec.Decode(ctx, &r)
				assert.Empty(t, got)
				assert.ErrorIs(t, err, cryptoDomain.ErrHMACMismatch)
				assert.True(t, apperrors.Is(err, apperrors.ErrIntegrity))
			}
		}
	})

	t.Run("Error_ModifiedHMAC", func(t *testing.T) {
		for i := range record.HMAC {
			hmac := []byte(record.HMAC)
			if hmac[i] == '0' {
				hmac[i] = '1'
			} else {
				hmac[i] = '0'
			}

			r := *record
			r.HMAC = string(hmac)

			_, err := codec.Decode(ctx, &r)
			assert.ErrorIs(t, err, cryptoDomain.ErrHMACMismatch)
		}
	})

	t.Run("Error_MissingHMAC", func(t *testing.T) {
		r := *record
		r.HMAC = ""

		_, err := codec.Decode(ctx, &r)
		assert.ErrorIs(t, err, cryptoDomain.ErrHMACMismatch)
	})
}

func TestEnvelopeCodec_Decode(t *testing.T) {
	ctx := context.Background()
	codec, keyID := newTestEnvelopeCodec(t)

	record, err := codec.Encode(ctx, "a", "1", keyID, "value")
	require.NoError(t, err)

	t.Run("Error_NoContents", func(t *testing.T) {
		r := *record
		r.Contents = ""

		_, err := codec.Decode(ctx, &r)
		assert.ErrorIs(t, err, keystoreDomain.ErrKeyNotFound)
	})

	t.Run("Error_InvalidKeyEncoding", func(t *testing.T) {
		r := *record
		r.Key = "%%%"

		_, err := codec.Decode(ctx, &r)
		assert.ErrorIs(t, err, keystoreDomain.ErrInvalidRecord)
	})

	t.Run("Error_WrongKeyMaterialSize", func(t *testing.T) {
		keyService, otherKeyID := testutil.NewLocalKeyService(t)
		wrapped, err := keyService.Encrypt(ctx, otherKeyID, make([]byte, 16))
		require.NoError(t, err)

		r := *record
		r.Key = base64.StdEncoding.EncodeToString(wrapped)

		_, err = NewEnvelopeCodec(keyService).Decode(ctx, &r)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeyMaterial)
	})

	t.Run("Error_ForeignKeeper", func(t *testing.T) {
		other, _ := newTestEnvelopeCodec(t)

		_, err := other.Decode(ctx, record)
		require.Error(t, err)
		assert.False(t, apperrors.Is(err, apperrors.ErrIntegrity))
	})
}
