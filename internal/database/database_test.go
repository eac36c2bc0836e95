package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_UnknownDriver(t *testing.T) {
	cfg := Config{
		Driver:             "invalid",
		ConnectionString:   "invalid",
		MaxOpenConnections: 10,
		MaxIdleConnections: 5,
		ConnMaxLifetime:    time.Hour,
	}

	db, err := Connect(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "sql: unknown driver")
}

func TestConnect_Success(t *testing.T) {
	mockDB, mock, err := sqlmock.NewWithDSN("keystore_connect_ok", sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer func() { _ = mockDB.Close() }()

	mock.ExpectPing()

	db, err := Connect(context.Background(), Config{
		Driver:             "sqlmock",
		ConnectionString:   "keystore_connect_ok",
		MaxOpenConnections: 4,
		MaxIdleConnections: 2,
		ConnMaxLifetime:    time.Minute,
	})
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.Equal(t, 4, db.Stats().MaxOpenConnections)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnect_PingFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.NewWithDSN("keystore_connect_ping_fail", sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer func() { _ = mockDB.Close() }()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	db, err := Connect(context.Background(), Config{
		Driver:           "sqlmock",
		ConnectionString: "keystore_connect_ping_fail",
	})
	assert.Nil(t, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping database")
	assert.Contains(t, err.Error(), "connection refused")
}
