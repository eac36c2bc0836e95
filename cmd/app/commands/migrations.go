package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// TableCreator creates a keystore table in a schemaless store.
type TableCreator interface {
	CreateTable(ctx context.Context, table string) error
}

// RunMigrations applies the SQL migrations for driver. The migrations create the
// default "keystore" table; other table names must be created by hand with the
// same schema.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	migrationsPath := "file://migrations/postgresql"
	if driver == "mysql" {
		migrationsPath = "file://migrations/mysql"
	}

	m, err := migrate.New(migrationsPath, connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

// RunCreateTable creates the DynamoDB keystore table. An existing table is not an error.
func RunCreateTable(ctx context.Context, creator TableCreator, logger *slog.Logger, table string) error {
	if table == "" {
		return errors.New("table name is required")
	}

	logger.Info("creating keystore table", slog.String("table", table))

	if err := creator.CreateTable(ctx, table); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	logger.Info("keystore table is ready", slog.String("table", table))
	return nil
}
