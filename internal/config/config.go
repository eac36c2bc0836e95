// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	apperrors "github.com/allisson/keystore/internal/errors"
)

// Storage drivers.
const (
	StorageDriverDynamoDB = "dynamodb"
	StorageDriverPostgres = "postgres"
	StorageDriverMySQL    = "mysql"
)

// Key service providers.
const (
	// KMSProviderAWS talks to AWS KMS directly and supports alias listing.
	KMSProviderAWS = "awskms"
	// KMSProviderKeeper wraps a single gocloud.dev keeper opened from KMSKeyURI.
	KMSProviderKeeper = "keeper"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int
	// ServerAuthTokenHash is the Argon2id hash of the API bearer token. Empty disables auth.
	ServerAuthTokenHash string

	// StorageDriver selects the record repository ("dynamodb", "postgres", "mysql").
	StorageDriver string
	// DBConnectionString is the connection string for the SQL database.
	DBConnectionString string
	// DBMaxOpenConnections is the maximum number of open connections to the database.
	DBMaxOpenConnections int
	// DBMaxIdleConnections is the maximum number of idle connections in the database pool.
	DBMaxIdleConnections int
	// DBConnMaxLifetime is the maximum amount of time a connection may be reused.
	DBConnMaxLifetime time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// AWSRegion is the region used for DynamoDB and AWS KMS.
	AWSRegion string
	// AWSEndpointURL overrides the AWS service endpoint (e.g. a local DynamoDB).
	AWSEndpointURL string

	// KeystoreTable is the table (collection) records are stored in.
	KeystoreTable string
	// KeystoreFormat is the record format used for new values ("v1" or "v2").
	KeystoreFormat string

	// KMSProvider selects the key service ("awskms" or "keeper").
	KMSProvider string
	// KMSKeyID is the explicit master key id. It takes precedence over KMSKeyAlias.
	KMSKeyID string
	// KMSKeyAlias is the symbolic master key alias, with or without "alias/".
	KMSKeyAlias string
	// KMSKeyURI is the gocloud.dev keeper URI used by the "keeper" provider.
	KMSKeyURI string

	// RateLimitEnabled indicates whether per-IP rate limiting is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per client IP.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost:          env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort:          env.GetInt("SERVER_PORT", 8080),
		ServerAuthTokenHash: env.GetString("SERVER_AUTH_TOKEN_HASH", ""),

		// Storage configuration
		StorageDriver:        env.GetString("STORAGE_DRIVER", StorageDriverDynamoDB),
		DBConnectionString:   env.GetString("DB_CONNECTION_STRING", ""),
		DBMaxOpenConnections: env.GetInt("DB_MAX_OPEN_CONNECTIONS", 25),
		DBMaxIdleConnections: env.GetInt("DB_MAX_IDLE_CONNECTIONS", 5),
		DBConnMaxLifetime:    env.GetDuration("DB_CONN_MAX_LIFETIME", 5, time.Minute),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// AWS
		AWSRegion:      env.GetString("AWS_REGION", "us-east-1"),
		AWSEndpointURL: env.GetString("AWS_ENDPOINT_URL", ""),

		// Keystore
		KeystoreTable:  env.GetString("KEYSTORE_TABLE", ""),
		KeystoreFormat: env.GetString("KEYSTORE_FORMAT", "v1"),

		// KMS configuration
		KMSProvider: env.GetString("KMS_PROVIDER", KMSProviderAWS),
		KMSKeyID:    env.GetString("KMS_KEY_ID", ""),
		KMSKeyAlias: env.GetString("KMS_KEY_ALIAS", "keystore"),
		KMSKeyURI:   env.GetString("KMS_KEY_URI", ""),

		// Rate Limiting (IP-based)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "keystore"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// Validate checks the enumerated settings and the settings they require. Missing
// table names are reported later by the keystore itself.
func (c *Config) Validate() error {
	sqlStorage := c.StorageDriver == StorageDriverPostgres || c.StorageDriver == StorageDriverMySQL

	err := validation.ValidateStruct(c,
		validation.Field(&c.StorageDriver,
			validation.Required,
			validation.In(StorageDriverDynamoDB, StorageDriverPostgres, StorageDriverMySQL),
		),
		validation.Field(&c.DBConnectionString, validation.When(sqlStorage, validation.Required)),
		validation.Field(&c.KeystoreFormat, validation.In("v1", "v2")),
		validation.Field(&c.KMSProvider,
			validation.Required,
			validation.In(KMSProviderAWS, KMSProviderKeeper),
		),
		validation.Field(&c.KMSKeyURI, validation.When(c.KMSProvider == KMSProviderKeeper, validation.Required)),
		validation.Field(&c.AWSRegion, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.ServerPort, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.MetricsPort, validation.Min(1), validation.Max(65535)),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrConfiguration, err.Error())
	}
	return nil
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
