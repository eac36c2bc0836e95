package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authService "github.com/allisson/keystore/internal/auth/service"
	"github.com/allisson/keystore/internal/config"
	keystoreDomain "github.com/allisson/keystore/internal/keystore/domain"
	keystoreHTTP "github.com/allisson/keystore/internal/keystore/http"
	"github.com/allisson/keystore/internal/keystore/usecase/mocks"
	"github.com/allisson/keystore/internal/metrics"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func createTestServer(check ReadinessCheck) *Server {
	return NewServer(check, "localhost", 8080, discardLogger())
}

// setupKeystoreServer builds a server with the full router around a mocked use case.
func setupKeystoreServer(t *testing.T, cfg *config.Config) (*Server, *mocks.MockKeystoreUseCase) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	mockUseCase := &mocks.MockKeystoreUseCase{}
	t.Cleanup(func() { mockUseCase.AssertExpectations(t) })

	server := createTestServer(func(context.Context) error { return nil })
	handler := keystoreHTTP.NewKeystoreHandler(mockUseCase, discardLogger())
	server.SetupRouter(ctx, cfg, handler, authService.NewTokenService(), nil)
	return server, mockUseCase
}

func serve(server *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	server := createTestServer(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name       string
		check      ReadinessCheck
		statusCode int
		status     string
		storage    string
	}{
		{"NotReady_NilCheck", nil, http.StatusServiceUnavailable, "not_ready", "error"},
		{
			"NotReady_StorageDown",
			func(context.Context) error { return errors.New("ResourceNotFoundException") },
			http.StatusServiceUnavailable,
			"not_ready",
			"error",
		},
		{"Ready", func(context.Context) error { return nil }, http.StatusOK, "ready", "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := createTestServer(tt.check)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

			server.readinessHandler(c)

			assert.Equal(t, tt.statusCode, w.Code)

			var response map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.status, response["status"])
			components, ok := response["components"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.storage, components["storage"])
		})
	}
}

func TestReadinessHandler_PassesDeadline(t *testing.T) {
	var hasDeadline bool
	server := createTestServer(func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	server.readinessHandler(c)

	assert.True(t, hasDeadline)
}

func TestCustomLoggerMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})
	router.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test?version=2", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRouter_EndToEndWithoutAuth(t *testing.T) {
	cfg := &config.Config{RateLimitEnabled: false}
	server, mockUseCase := setupKeystoreServer(t, cfg)

	mockUseCase.On("RetrieveSecret", mock.Anything, "db-password", "").
		Return(keystoreDomain.Secret{Name: "db-password", Format: keystoreDomain.FormatV1, Value: "s3cr3t"}, nil).
		Once()

	w := serve(server, httptest.NewRequest(http.MethodGet, "/v1/keys/db-password", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"db-password","value":"s3cr3t"}`, w.Body.String())

	requestID := w.Header().Get("X-Request-Id")
	parsed, err := uuid.Parse(requestID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestRouter_HealthBypassesAuth(t *testing.T) {
	tokenService := authService.NewTokenService()
	_, tokenHash, err := tokenService.GenerateToken()
	require.NoError(t, err)

	server, _ := setupKeystoreServer(t, &config.Config{ServerAuthTokenHash: tokenHash})

	w := serve(server, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(server, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_BearerAuth(t *testing.T) {
	tokenService := authService.NewTokenService()
	plainToken, tokenHash, err := tokenService.GenerateToken()
	require.NoError(t, err)

	server, mockUseCase := setupKeystoreServer(t, &config.Config{ServerAuthTokenHash: tokenHash})

	w := serve(server, httptest.NewRequest(http.MethodGet, "/v1/keys/db-password", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/keys/db-password", nil)
	req.Header.Set("Authorization", "Bearer not-the-token")
	w = serve(server, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	mockUseCase.On("RetrieveSecret", mock.Anything, "db-password", "").
		Return(keystoreDomain.Secret{Name: "db-password", Format: keystoreDomain.FormatV1, Value: "s3cr3t"}, nil).
		Once()
	req = httptest.NewRequest(http.MethodGet, "/v1/keys/db-password", nil)
	req.Header.Set("Authorization", "Bearer "+plainToken)
	w = serve(server, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := &config.Config{RateLimitEnabled: true, RateLimitRequestsPerSec: 0.1, RateLimitBurst: 1}
	server, mockUseCase := setupKeystoreServer(t, cfg)

	mockUseCase.On("RetrieveSecret", mock.Anything, "db-password", "").
		Return(keystoreDomain.Secret{Name: "db-password", Format: keystoreDomain.FormatV1, Value: "s3cr3t"}, nil).
		Once()

	w := serve(server, httptest.NewRequest(http.MethodGet, "/v1/keys/db-password", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(server, httptest.NewRequest(http.MethodGet, "/v1/keys/db-password", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// health endpoints are outside the limited group
	w = serve(server, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_StoreRoute(t *testing.T) {
	server, mockUseCase := setupKeystoreServer(t, &config.Config{})

	mockUseCase.On("Store", mock.Anything, "db-password", "s3cr3t", "").
		Return(nil, errors.New("failed to put item: throttled")).
		Once()

	req := httptest.NewRequest(http.MethodPut, "/v1/keys/db-password", strings.NewReader(`{"value":"s3cr3t"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(server, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRouter_NotFoundEndpoint(t *testing.T) {
	server, _ := setupKeystoreServer(t, &config.Config{})

	w := serve(server, httptest.NewRequest(http.MethodGet, "/nonexistent", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(server, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_ShutdownGracefully(t *testing.T) {
	server := NewServer(nil, "127.0.0.1", 0, discardLogger())
	server.router = gin.New()

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, server.Shutdown(shutdownCtx))
	assert.NoError(t, <-errChan)
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider("keystore_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 8081, discardLogger(), provider)
	require.NotNil(t, metricsServer)

	w := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestRouter_HTTPMetricsRecorded(t *testing.T) {
	provider, err := metrics.NewProvider("keystore_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mockUseCase := &mocks.MockKeystoreUseCase{}
	mockUseCase.On("RetrieveSecret", mock.Anything, "db-password", "").
		Return(keystoreDomain.Secret{Name: "db-password", Format: keystoreDomain.FormatV1, Value: "s3cr3t"}, nil).
		Once()

	server := createTestServer(nil)
	server.SetupRouter(
		ctx,
		&config.Config{MetricsNamespace: "keystore_test"},
		keystoreHTTP.NewKeystoreHandler(mockUseCase, discardLogger()),
		authService.NewTokenService(),
		provider,
	)

	w := serve(server, httptest.NewRequest(http.MethodGet, "/v1/keys/db-password", nil))
	require.Equal(t, http.StatusOK, w.Code)

	metricsW := httptest.NewRecorder()
	provider.Handler().ServeHTTP(metricsW, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, metricsW.Body.String(), `path="/v1/keys/:name"`)
}
