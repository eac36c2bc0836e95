package main

import (
	"github.com/urfave/cli/v3"

	"github.com/allisson/keystore/internal/config"
)

func getCommands(version string) []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getKeystoreCommands()...)
	cmds = append(cmds, getSystemCommands(version)...)
	return cmds
}

// loadConfig reads the environment and applies the global flags on top of it.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.Load()

	if cmd.IsSet("region") {
		cfg.AWSRegion = cmd.String("region")
	}
	if cmd.IsSet("table") {
		cfg.KeystoreTable = cmd.String("table")
	}
	if cmd.IsSet("storage-driver") {
		cfg.StorageDriver = cmd.String("storage-driver")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
