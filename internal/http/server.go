// Package http provides the keystore HTTP API server, its middleware and the
// Prometheus metrics server.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/keystore/internal/auth/http"
	authService "github.com/allisson/keystore/internal/auth/service"
	"github.com/allisson/keystore/internal/config"
	keystoreHTTP "github.com/allisson/keystore/internal/keystore/http"
	"github.com/allisson/keystore/internal/metrics"
)

// ReadinessCheck reports whether the record store is reachable.
type ReadinessCheck func(ctx context.Context) error

// Server represents the HTTP server.
type Server struct {
	server         *http.Server
	router         *gin.Engine
	logger         *slog.Logger
	readinessCheck ReadinessCheck
}

// NewServer creates a new HTTP server. A nil readinessCheck reports the storage as down.
func NewServer(
	readinessCheck ReadinessCheck,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		readinessCheck: readinessCheck,
		logger:         logger,
		server:         newHTTPServer(host, port, nil),
	}
}

// SetupRouter builds the gin router with the keystore routes and middleware.
// ctx bounds background work started by middleware (rate limiter cleanup).
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	keystoreHandler *keystoreHTTP.KeystoreHandler,
	tokenService authService.TokenService,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		v1.Use(authHTTP.RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}
	if cfg.ServerAuthTokenHash != "" {
		v1.Use(authHTTP.AuthenticationMiddleware(tokenService, cfg.ServerAuthTokenHash, s.logger))
	} else {
		s.logger.Warn("SERVER_AUTH_TOKEN_HASH is empty - the keystore API is not authenticated")
	}
	keystoreHandler.RegisterRoutes(v1)

	s.router = router
	s.server.Handler = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.server.Handler == nil {
		s.server.Handler = s.router
	}

	return listenAndServe(s.server, s.logger, "http server")
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.readinessCheck == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"storage": "error"},
		})
		return
	}

	if err := s.readinessCheck(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"storage": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"storage": "ok"},
	})
}
