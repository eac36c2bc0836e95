package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/keystore/cmd/app/commands"
	"github.com/allisson/keystore/internal/app"
)

func getKeystoreCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "store",
			Usage: "Encrypt a value and store it under a key name",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "value",
					Aliases:  []string{"v"},
					Required: true,
					Usage:    "Value to encrypt",
				},
				&cli.StringFlag{
					Name:     "keyname",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Key name the value is stored under",
				},
				&cli.StringFlag{
					Name:    "kmsid",
					Aliases: []string{"k"},
					Usage:   "KMS key id (default: KMS_KEY_ID, falls back to the alias)",
				},
				&cli.StringFlag{
					Name:  "kmsalias",
					Usage: "KMS key alias, with or without the alias/ prefix (default: KMS_KEY_ALIAS or keystore)",
				},
				&cli.StringFlag{
					Name:  "format",
					Usage: "Record format: v1 or v2 (default: KEYSTORE_FORMAT or v1)",
				},
				&cli.StringFlag{
					Name:  "key-version",
					Usage: "Version to store (v2 only, default 1)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				if cmd.IsSet("kmsid") {
					cfg.KMSKeyID = cmd.String("kmsid")
				}
				if cmd.IsSet("kmsalias") {
					cfg.KMSKeyAlias = cmd.String("kmsalias")
				}
				if cmd.IsSet("format") {
					cfg.KeystoreFormat = cmd.String("format")
				}
				cfg.MetricsEnabled = false

				container := app.NewContainer(cfg)
				defer commands.CloseContainer(container, container.Logger())

				useCase, err := container.KeystoreUseCase()
				if err != nil {
					return err
				}

				return commands.RunStore(
					ctx,
					useCase,
					container.Logger(),
					cmd.String("keyname"),
					cmd.String("value"),
					cmd.String("key-version"),
				)
			},
		},
		{
			Name:  "retrieve",
			Usage: "Retrieve and decrypt the value stored under a key name",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "keyname",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Key name to retrieve",
				},
				&cli.StringFlag{
					Name:  "key-version",
					Usage: "Exact version to retrieve (v2 records only, default latest)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				cfg.MetricsEnabled = false

				container := app.NewContainer(cfg)
				defer commands.CloseContainer(container, container.Logger())

				useCase, err := container.KeystoreUseCase()
				if err != nil {
					return err
				}

				return commands.RunRetrieve(
					ctx,
					useCase,
					commands.DefaultIO().Writer,
					cmd.String("keyname"),
					cmd.String("key-version"),
				)
			},
		},
	}
}
