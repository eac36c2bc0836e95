package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/kms"

	authService "github.com/allisson/keystore/internal/auth/service"
	"github.com/allisson/keystore/internal/config"
	cryptoService "github.com/allisson/keystore/internal/crypto/service"
)

// KMSService returns the gocloud.dev keeper opener.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// KeyService returns the key service selected by KMSProvider.
func (c *Container) KeyService() (cryptoService.KeyService, error) {
	var err error
	c.keyServiceInit.Do(func() {
		c.keyService, err = c.initKeyService()
		if err != nil {
			c.initErrors["keyService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyService"]; exists {
		return nil, storedErr
	}
	return c.keyService, nil
}

// TokenService returns the API token service.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = authService.NewTokenService()
	})
	return c.tokenService
}

// initKeyService builds an AWS KMS key service or a keeper-backed key service.
// The keeper service answers to KMSKeyURI as its key id and to KMSKeyAlias.
func (c *Container) initKeyService() (cryptoService.KeyService, error) {
	switch c.config.KMSProvider {
	case config.KMSProviderAWS:
		awsCfg, err := c.AWSConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to get aws config for key service: %w", err)
		}
		return cryptoService.NewAWSKMSKeyService(kms.NewFromConfig(awsCfg)), nil
	case config.KMSProviderKeeper:
		keeper, err := c.KMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
		if err != nil {
			return nil, fmt.Errorf("failed to open keeper for key service: %w", err)
		}
		c.keeper = cryptoService.NewKeeperKeyService(keeper, c.config.KMSKeyURI, c.config.KMSKeyAlias)
		return c.keeper, nil
	default:
		return nil, fmt.Errorf("unsupported kms provider: %s", c.config.KMSProvider)
	}
}
