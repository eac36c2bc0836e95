package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"

	"github.com/allisson/keystore/cmd/app/commands"
	"github.com/allisson/keystore/internal/app"
	"github.com/allisson/keystore/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the keystore HTTP API",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				gin.SetMode(cfg.GetGinMode())

				container := app.NewContainer(cfg)
				defer commands.CloseContainer(container, container.Logger())

				return commands.RunServer(ctx, container, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Create the keystore table",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				cfg.MetricsEnabled = false

				container := app.NewContainer(cfg)
				defer commands.CloseContainer(container, container.Logger())

				if cfg.StorageDriver != config.StorageDriverDynamoDB {
					return commands.RunMigrations(container.Logger(), cfg.StorageDriver, cfg.DBConnectionString)
				}

				repo, err := container.DynamoDBRecordRepository()
				if err != nil {
					return err
				}
				return commands.RunCreateTable(ctx, repo, container.Logger(), cfg.KeystoreTable)
			},
		},
		{
			Name:  "create-api-token",
			Usage: "Generate an API token and the hash to set as SERVER_AUTH_TOKEN_HASH",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)

				return commands.RunCreateAPIToken(
					container.TokenService(),
					container.Logger(),
					commands.DefaultIO().Writer,
				)
			},
		},
	}
}
