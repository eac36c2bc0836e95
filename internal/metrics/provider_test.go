package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		provider, err := NewProvider("keystore")

		require.NoError(t, err)
		assert.NotNil(t, provider.MeterProvider())
		assert.NotNil(t, provider.Handler())
	})

	t.Run("Success_IndependentRegistries", func(t *testing.T) {
		first, err := NewProvider("keystore")
		require.NoError(t, err)
		second, err := NewProvider("keystore")
		require.NoError(t, err)

		bm, err := NewBusinessMetrics(first.MeterProvider(), "keystore")
		require.NoError(t, err)
		bm.RecordOperation(context.Background(), "keystore", "key_store", StatusSuccess)

		assert.Contains(t, scrape(t, first), "keystore_operations_total")
		assert.NotContains(t, scrape(t, second), "keystore_operations_total")
	})

	t.Run("Success_ServiceNameResource", func(t *testing.T) {
		provider, err := NewProvider("keystore")
		require.NoError(t, err)

		bm, err := NewBusinessMetrics(provider.MeterProvider(), "keystore")
		require.NoError(t, err)
		bm.RecordOperation(context.Background(), "keystore", "key_retrieve", StatusSuccess)

		assert.Contains(t, scrape(t, provider), `service_name="keystore"`)
	})
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		provider, err := NewProvider("keystore")
		require.NoError(t, err)

		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("Success_NilMeterProvider", func(t *testing.T) {
		provider := &Provider{}

		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}
