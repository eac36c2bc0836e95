// Package main provides the keystore command line entry point.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "keystore",
		Usage:   "Store and retrieve secrets encrypted with KMS",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "region",
				Usage: "AWS region (default: AWS_REGION or us-east-1)",
			},
			&cli.StringFlag{
				Name:    "table",
				Aliases: []string{"t"},
				Usage:   "Table the secrets are stored in (default: KEYSTORE_TABLE)",
			},
			&cli.StringFlag{
				Name:  "storage-driver",
				Usage: "Record storage: dynamodb, postgres or mysql (default: STORAGE_DRIVER or dynamodb)",
			},
		},
		Commands: getCommands(version),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
