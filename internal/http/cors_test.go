package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateCORSMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		origins string
		wantNil bool
	}{
		{"Disabled", false, "https://ops.example.com", true},
		{"EnabledWithoutOrigins", true, "", true},
		{"EnabledWithOnlySeparators", true, " , ,", true},
		{"CommaSeparated", true, "https://ops.example.com,https://admin.example.com", false},
		{"Whitespace", true, " https://ops.example.com , https://admin.example.com ", false},
		{"OnlyInvalidOrigins", true, "*,ops.example.com,ftp://ops.example.com", true},
		{"MixedValidAndInvalid", true, "*,https://ops.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			middleware := createCORSMiddleware(tt.enabled, tt.origins, discardLogger())
			if tt.wantNil {
				assert.Nil(t, middleware)
			} else {
				assert.NotNil(t, middleware)
			}
		})
	}
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t,
		[]string{"https://ops.example.com", "https://admin.example.com"},
		parseOrigins(" https://ops.example.com , https://admin.example.com "),
	)
	assert.Equal(t, []string{"https://ops.example.com"}, parseOrigins("https://ops.example.com,,"))
	assert.Nil(t, parseOrigins(""))
}

func TestIsHTTPOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"https://ops.example.com", true},
		{"http://localhost:8080", true},
		{"https://ops.example.com/", false},
		{"*", false},
		{"ops.example.com", false},
		{"ftp://ops.example.com", false},
		{"https://ops.example.com/keys", false},
		{"https://ops.example.com?x=1", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			assert.Equal(t, tt.want, isHTTPOrigin(tt.origin))
		})
	}
}

func newCORSRouter(enabled bool) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	if middleware := createCORSMiddleware(enabled, "https://ops.example.com", discardLogger()); middleware != nil {
		router.Use(middleware)
	}
	router.GET("/v1/keys/:name", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.PUT("/v1/keys/:name", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"status": "ok"})
	})
	return router
}

func TestCORSIntegration_HeadersAddedWhenEnabled(t *testing.T) {
	router := newCORSRouter(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/keys/db-password", nil)
	req.Header.Set("Origin", "https://ops.example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://ops.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSIntegration_NoHeadersWhenDisabled(t *testing.T) {
	router := newCORSRouter(false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/keys/db-password", nil)
	req.Header.Set("Origin", "https://ops.example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSIntegration_PreflightRequestHandled(t *testing.T) {
	router := newCORSRouter(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/v1/keys/db-password", nil)
	req.Header.Set("Origin", "https://ops.example.com")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://ops.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
}
