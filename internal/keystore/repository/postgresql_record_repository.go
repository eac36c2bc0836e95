package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	apperrors "github.com/allisson/keystore/internal/errors"
	keystoreDomain "github.com/allisson/keystore/internal/keystore/domain"
)

// pqUniqueViolation is the PostgreSQL SQLSTATE for duplicate keys.
const pqUniqueViolation = "23505"

// PostgreSQLRecordRepository implements record persistence for PostgreSQL databases.
// Tables are keyed by (parameter_name, version); v1 rows use an empty version.
type PostgreSQLRecordRepository struct {
	db *sql.DB
}

func (p *PostgreSQLRecordRepository) table(table string) (string, error) {
	if err := validateSQLTableName(table); err != nil {
		return "", err
	}
	return pq.QuoteIdentifier(table), nil
}

// Put upserts item.
func (p *PostgreSQLRecordRepository) Put(ctx context.Context, table string, item keystoreDomain.Item) error {
	quoted, err := p.table(table)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  ON CONFLICT (parameter_name, version) DO UPDATE SET
			  name = EXCLUDED.name, value = EXCLUDED.value, wrapped_key = EXCLUDED.wrapped_key,
			  contents = EXCLUDED.contents, hmac = EXCLUDED.hmac, keystore_format = EXCLUDED.keystore_format`,
		quoted, sqlColumns)

	if _, err := p.db.ExecContext(ctx, query, itemArgs(item)...); err != nil {
		return apperrors.Wrap(err, "failed to put record")
	}
	return nil
}

// PutIfAbsent inserts item, failing with ErrRecordExists on a duplicate name and version.
func (p *PostgreSQLRecordRepository) PutIfAbsent(ctx context.Context, table string, item keystoreDomain.Item) error {
	quoted, err := p.table(table)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, quoted, sqlColumns)

	if _, err := p.db.ExecContext(ctx, query, itemArgs(item)...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("%w: %s version %s", keystoreDomain.ErrRecordExists, item.ParameterName, item.Version)
		}
		return apperrors.Wrap(err, "failed to insert record")
	}
	return nil
}

// GetByVersion retrieves the row at name and version.
func (p *PostgreSQLRecordRepository) GetByVersion(
	ctx context.Context,
	table, name, version string,
) (keystoreDomain.Item, error) {
	quoted, err := p.table(table)
	if err != nil {
		return keystoreDomain.Item{}, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE parameter_name = $1 AND version = $2`, sqlColumns, quoted)

	item, err := scanItem(p.db.QueryRowContext(ctx, query, name, version))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return keystoreDomain.Item{}, keystoreDomain.ErrKeyNotFound
		}
		return keystoreDomain.Item{}, apperrors.Wrap(err, "failed to get record by version")
	}
	return item, nil
}

// GetLatest retrieves every row stored under name and returns the highest version.
func (p *PostgreSQLRecordRepository) GetLatest(
	ctx context.Context,
	table, name string,
) (keystoreDomain.Item, error) {
	quoted, err := p.table(table)
	if err != nil {
		return keystoreDomain.Item{}, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE parameter_name = $1`, sqlColumns, quoted)

	return queryLatest(ctx, p.db, query, name)
}

// NewPostgreSQLRecordRepository creates a new PostgreSQL record repository.
func NewPostgreSQLRecordRepository(db *sql.DB) *PostgreSQLRecordRepository {
	return &PostgreSQLRecordRepository{db: db}
}

// queryLatest runs a query selecting sqlColumns and returns the highest-versioned row.
func queryLatest(ctx context.Context, db *sql.DB, query string, args ...any) (keystoreDomain.Item, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return keystoreDomain.Item{}, apperrors.Wrap(err, "failed to query records")
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []keystoreDomain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return keystoreDomain.Item{}, apperrors.Wrap(err, "failed to scan record")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return keystoreDomain.Item{}, apperrors.Wrap(err, "failed to iterate records")
	}

	latest, ok := keystoreDomain.LatestItem(items)
	if !ok {
		return keystoreDomain.Item{}, keystoreDomain.ErrKeyNotFound
	}
	return latest, nil
}
