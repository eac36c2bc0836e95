// Package http provides HTTP handlers exposing the keystore facade.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/keystore/internal/httputil"
	"github.com/allisson/keystore/internal/keystore/http/dto"
	keystoreUseCase "github.com/allisson/keystore/internal/keystore/usecase"
	customValidation "github.com/allisson/keystore/internal/validation"
)

// KeystoreHandler handles HTTP requests for storing and retrieving keys.
type KeystoreHandler struct {
	keystoreUseCase keystoreUseCase.KeystoreUseCase
	logger          *slog.Logger
}

// NewKeystoreHandler creates a new keystore handler.
func NewKeystoreHandler(useCase keystoreUseCase.KeystoreUseCase, logger *slog.Logger) *KeystoreHandler {
	return &KeystoreHandler{
		keystoreUseCase: useCase,
		logger:          logger,
	}
}

// StoreHandler encrypts and stores a value under a key name.
// PUT /v1/keys/:name
// Returns 201 Created with record metadata (never the value).
func (h *KeystoreHandler) StoreHandler(c *gin.Context) {
	name := c.Param("name")
	if err := dto.ValidateKeyName(name); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	var req dto.StoreKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	record, err := h.keystoreUseCase.Store(c.Request.Context(), name, *req.Value, req.Version)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("key stored",
		slog.String("name", record.KeyName()),
		slog.String("version", record.RecordVersion()),
		slog.String("format", string(record.Format())),
	)

	c.JSON(http.StatusCreated, dto.MapRecordToStoreResponse(record))
}

// RetrieveHandler decrypts a key, the latest version unless ?version= is given.
// GET /v1/keys/:name?version=
func (h *KeystoreHandler) RetrieveHandler(c *gin.Context) {
	name := c.Param("name")
	if err := dto.ValidateKeyName(name); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	version := c.Query("version")
	if err := dto.ValidateVersion(version); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	secret, err := h.keystoreUseCase.RetrieveSecret(c.Request.Context(), name, version)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSecretToRetrieveResponse(secret))
}

// RegisterRoutes mounts the keystore routes on a router group.
func (h *KeystoreHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.PUT("/keys/:name", h.StoreHandler)
	group.GET("/keys/:name", h.RetrieveHandler)
}
