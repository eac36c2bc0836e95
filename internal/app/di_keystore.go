package app

import (
	"context"
	"fmt"

	"github.com/allisson/keystore/internal/config"
	"github.com/allisson/keystore/internal/http"
	keystoreDomain "github.com/allisson/keystore/internal/keystore/domain"
	keystoreHTTP "github.com/allisson/keystore/internal/keystore/http"
	keystoreRepository "github.com/allisson/keystore/internal/keystore/repository"
	keystoreUseCase "github.com/allisson/keystore/internal/keystore/usecase"
)

// KeystoreOptions builds the keystore options from configuration.
func (c *Container) KeystoreOptions() (keystoreDomain.Options, error) {
	return keystoreDomain.NewOptions(
		c.config.KeystoreTable,
		c.config.KeystoreFormat,
		c.config.KMSKeyID,
		c.config.KMSKeyAlias,
	)
}

// DynamoDBRecordRepository returns the DynamoDB record repository. It is also
// used directly by the migrate command to create tables.
func (c *Container) DynamoDBRecordRepository() (*keystoreRepository.DynamoDBRecordRepository, error) {
	var err error
	c.dynamoDBRecordRepositoryInit.Do(func() {
		c.dynamoDBRecordRepository, err = c.initDynamoDBRecordRepository()
		if err != nil {
			c.initErrors["dynamoDBRecordRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["dynamoDBRecordRepository"]; exists {
		return nil, storedErr
	}
	return c.dynamoDBRecordRepository, nil
}

// RecordRepository returns the record repository selected by StorageDriver.
func (c *Container) RecordRepository() (keystoreUseCase.RecordRepository, error) {
	var err error
	c.recordRepositoryInit.Do(func() {
		c.recordRepository, err = c.initRecordRepository()
		if err != nil {
			c.initErrors["recordRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordRepository"]; exists {
		return nil, storedErr
	}
	return c.recordRepository, nil
}

// KeystoreUseCase returns the keystore facade, wrapped with business metrics
// when metrics are enabled.
func (c *Container) KeystoreUseCase() (keystoreUseCase.KeystoreUseCase, error) {
	var err error
	c.keystoreUseCaseInit.Do(func() {
		c.keystoreUseCase, err = c.initKeystoreUseCase()
		if err != nil {
			c.initErrors["keystoreUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keystoreUseCase"]; exists {
		return nil, storedErr
	}
	return c.keystoreUseCase, nil
}

// KeystoreHandler returns the HTTP handler for keystore operations.
func (c *Container) KeystoreHandler() (*keystoreHTTP.KeystoreHandler, error) {
	var err error
	c.keystoreHandlerInit.Do(func() {
		c.keystoreHandler, err = c.initKeystoreHandler()
		if err != nil {
			c.initErrors["keystoreHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keystoreHandler"]; exists {
		return nil, storedErr
	}
	return c.keystoreHandler, nil
}

// ReadinessCheck returns the storage probe used by the readiness endpoint.
func (c *Container) ReadinessCheck() (http.ReadinessCheck, error) {
	if c.config.StorageDriver == config.StorageDriverDynamoDB {
		repo, err := c.DynamoDBRecordRepository()
		if err != nil {
			return nil, err
		}
		table := c.config.KeystoreTable
		return func(ctx context.Context) error {
			return repo.Ping(ctx, table)
		}, nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	return db.PingContext, nil
}

func (c *Container) initDynamoDBRecordRepository() (*keystoreRepository.DynamoDBRecordRepository, error) {
	client, err := c.DynamoDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get dynamodb client for record repository: %w", err)
	}
	return keystoreRepository.NewDynamoDBRecordRepository(client), nil
}

func (c *Container) initRecordRepository() (keystoreUseCase.RecordRepository, error) {
	switch c.config.StorageDriver {
	case config.StorageDriverDynamoDB:
		repo, err := c.DynamoDBRecordRepository()
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.StorageDriverPostgres:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for record repository: %w", err)
		}
		return keystoreRepository.NewPostgreSQLRecordRepository(db), nil
	case config.StorageDriverMySQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for record repository: %w", err)
		}
		return keystoreRepository.NewMySQLRecordRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", c.config.StorageDriver)
	}
}

func (c *Container) initKeystoreUseCase() (keystoreUseCase.KeystoreUseCase, error) {
	opts, err := c.KeystoreOptions()
	if err != nil {
		return nil, err
	}

	repo, err := c.RecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get record repository for keystore use case: %w", err)
	}

	keyService, err := c.KeyService()
	if err != nil {
		return nil, fmt.Errorf("failed to get key service for keystore use case: %w", err)
	}

	useCase, err := keystoreUseCase.NewKeystoreUseCase(repo, keyService, opts)
	if err != nil {
		return nil, err
	}

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for keystore use case: %w", err)
		}
		useCase = keystoreUseCase.NewKeystoreUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

func (c *Container) initKeystoreHandler() (*keystoreHTTP.KeystoreHandler, error) {
	useCase, err := c.KeystoreUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get keystore use case for keystore handler: %w", err)
	}
	return keystoreHTTP.NewKeystoreHandler(useCase, c.Logger()), nil
}
