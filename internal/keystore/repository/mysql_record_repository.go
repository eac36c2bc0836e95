package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	apperrors "github.com/allisson/keystore/internal/errors"
	keystoreDomain "github.com/allisson/keystore/internal/keystore/domain"
)

// mysqlDuplicateEntry is the MySQL error number for duplicate keys.
const mysqlDuplicateEntry = 1062

// MySQLRecordRepository implements record persistence for MySQL databases.
// Tables are keyed by (parameter_name, version); v1 rows use an empty version.
type MySQLRecordRepository struct {
	db *sql.DB
}

func (m *MySQLRecordRepository) table(table string) (string, error) {
	if err := validateSQLTableName(table); err != nil {
		return "", err
	}
	return "`" + table + "`", nil
}

// Put upserts item.
func (m *MySQLRecordRepository) Put(ctx context.Context, table string, item keystoreDomain.Item) error {
	quoted, err := m.table(table)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  name = VALUES(name), value = VALUES(value), wrapped_key = VALUES(wrapped_key),
			  contents = VALUES(contents), hmac = VALUES(hmac), keystore_format = VALUES(keystore_format)`,
		quoted, sqlColumns)

	if _, err := m.db.ExecContext(ctx, query, itemArgs(item)...); err != nil {
		return apperrors.Wrap(err, "failed to put record")
	}
	return nil
}

// PutIfAbsent inserts item, failing with ErrRecordExists on a duplicate name and version.
func (m *MySQLRecordRepository) PutIfAbsent(ctx context.Context, table string, item keystoreDomain.Item) error {
	quoted, err := m.table(table)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, quoted, sqlColumns)

	if _, err := m.db.ExecContext(ctx, query, itemArgs(item)...); err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return fmt.Errorf("%w: %s version %s", keystoreDomain.ErrRecordExists, item.ParameterName, item.Version)
		}
		return apperrors.Wrap(err, "failed to insert record")
	}
	return nil
}

// GetByVersion retrieves the row at name and version.
func (m *MySQLRecordRepository) GetByVersion(
	ctx context.Context,
	table, name, version string,
) (keystoreDomain.Item, error) {
	quoted, err := m.table(table)
	if err != nil {
		return keystoreDomain.Item{}, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE parameter_name = ? AND version = ?`, sqlColumns, quoted)

	item, err := scanItem(m.db.QueryRowContext(ctx, query, name, version))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return keystoreDomain.Item{}, keystoreDomain.ErrKeyNotFound
		}
		return keystoreDomain.Item{}, apperrors.Wrap(err, "failed to get record by version")
	}
	return item, nil
}

// GetLatest retrieves every row stored under name and returns the highest version.
func (m *MySQLRecordRepository) GetLatest(
	ctx context.Context,
	table, name string,
) (keystoreDomain.Item, error) {
	quoted, err := m.table(table)
	if err != nil {
		return keystoreDomain.Item{}, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE parameter_name = ?`, sqlColumns, quoted)

	return queryLatest(ctx, m.db, query, name)
}

// NewMySQLRecordRepository creates a new MySQL record repository.
func NewMySQLRecordRepository(db *sql.DB) *MySQLRecordRepository {
	return &MySQLRecordRepository{db: db}
}
