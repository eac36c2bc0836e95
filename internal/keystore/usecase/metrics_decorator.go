package usecase

import (
	"context"
	"time"

	keystoreDomain "github.com/allisson/keystore/internal/keystore/domain"
	"github.com/allisson/keystore/internal/metrics"
)

// keystoreUseCaseWithMetrics decorates KeystoreUseCase with metrics instrumentation.
type keystoreUseCaseWithMetrics struct {
	next    KeystoreUseCase
	metrics metrics.BusinessMetrics
}

// NewKeystoreUseCaseWithMetrics wraps a KeystoreUseCase with metrics recording.
func NewKeystoreUseCaseWithMetrics(useCase KeystoreUseCase, m metrics.BusinessMetrics) KeystoreUseCase {
	return &keystoreUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Store records metrics for store operations.
func (k *keystoreUseCaseWithMetrics) Store(
	ctx context.Context,
	name, value, version string,
) (keystoreDomain.Record, error) {
	start := time.Now()
	record, err := k.next.Store(ctx, name, value, version)

	k.record(ctx, "key_store", start, err)
	return record, err
}

// Retrieve records metrics for retrieve operations. Versioned lookups are
// reported as a separate operation.
func (k *keystoreUseCaseWithMetrics) Retrieve(ctx context.Context, name, version string) (string, error) {
	start := time.Now()
	value, err := k.next.Retrieve(ctx, name, version)

	k.record(ctx, retrieveOperation(version), start, err)
	return value, err
}

// RetrieveSecret records metrics under the same operations as Retrieve.
func (k *keystoreUseCaseWithMetrics) RetrieveSecret(
	ctx context.Context,
	name, version string,
) (keystoreDomain.Secret, error) {
	start := time.Now()
	secret, err := k.next.RetrieveSecret(ctx, name, version)

	k.record(ctx, retrieveOperation(version), start, err)
	return secret, err
}

func retrieveOperation(version string) string {
	if version != "" {
		return "key_retrieve_version"
	}
	return "key_retrieve"
}

func (k *keystoreUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusFromError(err)
	k.metrics.RecordOperation(ctx, "keystore", operation, status)
	k.metrics.RecordDuration(ctx, "keystore", operation, time.Since(start), status)
}
