package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRateLimitedRouter(t *testing.T, rps float64, burst int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := gin.New()
	router.Use(RateLimitMiddleware(ctx, rps, burst, logger))
	router.GET("/v1/keys/:name", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func sendFrom(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/keys/db-password", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	router := newRateLimitedRouter(t, 10.0, 20)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, sendFrom(router, "192.0.2.1:1234").Code)
	}
}

func TestRateLimitMiddleware_BlocksRequestsExceedingLimit(t *testing.T) {
	router := newRateLimitedRouter(t, 1.0, 2)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, sendFrom(router, "192.0.2.1:1234").Code)
	}

	w := sendFrom(router, "192.0.2.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestRateLimitMiddleware_IndependentPerIP(t *testing.T) {
	router := newRateLimitedRouter(t, 0.5, 1)

	assert.Equal(t, http.StatusOK, sendFrom(router, "192.0.2.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, sendFrom(router, "192.0.2.1:1234").Code)
	assert.Equal(t, http.StatusOK, sendFrom(router, "192.0.2.2:1234").Code)
}

func TestRateLimiterStore_RemoveIdleSince(t *testing.T) {
	store := &rateLimiterStore{rps: 1, burst: 1}

	store.getLimiter("192.0.2.1")
	store.getLimiter("192.0.2.2")

	val, ok := store.limiters.Load("192.0.2.1")
	assert.True(t, ok)
	entry := val.(*rateLimiterEntry)
	entry.mu.Lock()
	entry.lastAccess = time.Now().Add(-2 * time.Hour)
	entry.mu.Unlock()

	store.removeIdleSince(time.Now().Add(-1 * time.Hour))

	_, ok = store.limiters.Load("192.0.2.1")
	assert.False(t, ok)
	_, ok = store.limiters.Load("192.0.2.2")
	assert.True(t, ok)
}

func TestRateLimiterStore_ReusesLimiter(t *testing.T) {
	store := &rateLimiterStore{rps: 1, burst: 1}

	assert.Same(t, store.getLimiter("192.0.2.1"), store.getLimiter("192.0.2.1"))
}
