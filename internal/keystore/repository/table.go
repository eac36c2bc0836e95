package repository

import (
	"fmt"
	"regexp"

	keystoreDomain "github.com/allisson/keystore/internal/keystore/domain"
)

// sqlTableNamePattern limits SQL table names to plain identifiers. Table names are
// interpolated into queries, so anything else is rejected before quoting.
var sqlTableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

func validateSQLTableName(table string) error {
	if !sqlTableNamePattern.MatchString(table) {
		return fmt.Errorf("%w: %q", keystoreDomain.ErrInvalidTableName, table)
	}
	return nil
}

// sqlColumns is the column list shared by every SQL statement, in scan order.
const sqlColumns = "parameter_name, version, name, value, wrapped_key, contents, hmac, keystore_format"

func itemArgs(item keystoreDomain.Item) []any {
	return []any{
		item.ParameterName,
		item.Version,
		item.Name,
		item.Value,
		item.Key,
		item.Contents,
		item.HMAC,
		item.KeystoreFormat,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (keystoreDomain.Item, error) {
	var item keystoreDomain.Item
	err := row.Scan(
		&item.ParameterName,
		&item.Version,
		&item.Name,
		&item.Value,
		&item.Key,
		&item.Contents,
		&item.HMAC,
		&item.KeystoreFormat,
	)
	return item, err
}
