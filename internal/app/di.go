// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	authService "github.com/allisson/keystore/internal/auth/service"
	"github.com/allisson/keystore/internal/config"
	cryptoService "github.com/allisson/keystore/internal/crypto/service"
	"github.com/allisson/keystore/internal/database"
	"github.com/allisson/keystore/internal/http"
	keystoreHTTP "github.com/allisson/keystore/internal/keystore/http"
	keystoreRepository "github.com/allisson/keystore/internal/keystore/repository"
	keystoreUseCase "github.com/allisson/keystore/internal/keystore/usecase"
	"github.com/allisson/keystore/internal/metrics"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	awsConfig       aws.Config
	db              *sql.DB
	dynamoDBClient  *dynamodb.Client
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Services
	kmsService   cryptoService.KMSService
	keyService   cryptoService.KeyService
	keeper       *cryptoService.KeeperKeyService
	tokenService authService.TokenService

	// Repositories
	dynamoDBRecordRepository *keystoreRepository.DynamoDBRecordRepository
	recordRepository         keystoreUseCase.RecordRepository

	// Use Cases and Handlers
	keystoreUseCase keystoreUseCase.KeystoreUseCase
	keystoreHandler *keystoreHTTP.KeystoreHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// serverCtx bounds background work owned by the HTTP server middleware
	serverCtx    context.Context
	serverCancel context.CancelFunc

	// Initialization flags and mutex for thread-safety
	mu                           sync.Mutex
	loggerInit                   sync.Once
	awsConfigInit                sync.Once
	dbInit                       sync.Once
	dynamoDBClientInit           sync.Once
	metricsProviderInit          sync.Once
	businessMetricsInit          sync.Once
	kmsServiceInit               sync.Once
	keyServiceInit               sync.Once
	tokenServiceInit             sync.Once
	dynamoDBRecordRepositoryInit sync.Once
	recordRepositoryInit         sync.Once
	keystoreUseCaseInit          sync.Once
	keystoreHandlerInit          sync.Once
	httpServerInit               sync.Once
	metricsServerInit            sync.Once
	initErrors                   map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	serverCtx, serverCancel := context.WithCancel(context.Background())
	return &Container{
		config:       cfg,
		serverCtx:    serverCtx,
		serverCancel: serverCancel,
		initErrors:   make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// AWSConfig returns the shared AWS SDK configuration used by DynamoDB and KMS.
func (c *Container) AWSConfig() (aws.Config, error) {
	var err error
	c.awsConfigInit.Do(func() {
		c.awsConfig, err = c.initAWSConfig()
		if err != nil {
			c.initErrors["awsConfig"] = err
		}
	})
	if err != nil {
		return aws.Config{}, err
	}
	if storedErr, exists := c.initErrors["awsConfig"]; exists {
		return aws.Config{}, storedErr
	}
	return c.awsConfig, nil
}

// DB returns the SQL database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// DynamoDBClient returns the DynamoDB client.
func (c *Container) DynamoDBClient() (*dynamodb.Client, error) {
	var err error
	c.dynamoDBClientInit.Do(func() {
		c.dynamoDBClient, err = c.initDynamoDBClient()
		if err != nil {
			c.initErrors["dynamoDBClient"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["dynamoDBClient"]; exists {
		return nil, storedErr
	}
	return c.dynamoDBClient, nil
}

// MetricsProvider returns the Prometheus-backed meter provider, or nil when metrics
// are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. It is a no-op recorder
// when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the keystore API server with its router set up.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.serverCancel()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.keeper != nil {
		if err := c.keeper.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("keeper close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(shutdownErrors...))
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initAWSConfig loads the default credential chain for the configured region.
// AWSEndpointURL points every AWS client at a local emulator when set.
func (c *Container) initAWSConfig() (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(c.config.AWSRegion),
	}
	if c.config.AWSEndpointURL != "" {
		opts = append(opts, awsconfig.WithBaseEndpoint(c.config.AWSEndpointURL))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}
	return cfg, nil
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(context.Background(), database.Config{
		Driver:             c.config.StorageDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initDynamoDBClient creates the DynamoDB client from the shared AWS config.
func (c *Container) initDynamoDBClient() (*dynamodb.Client, error) {
	awsCfg, err := c.AWSConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get aws config for dynamodb client: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg), nil
}

// initMetricsProvider creates the metrics provider when metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	keystoreHandler, err := c.KeystoreHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get keystore handler for http server: %w", err)
	}

	readinessCheck, err := c.ReadinessCheck()
	if err != nil {
		return nil, fmt.Errorf("failed to get readiness check for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(readinessCheck, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(c.serverCtx, c.config, keystoreHandler, c.TokenService(), metricsProvider)

	return server, nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
