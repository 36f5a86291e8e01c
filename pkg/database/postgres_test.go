package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-standing-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "sma_standing", SSLMode: "require"})
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=sma_standing sslmode=require", dsn)
}

func TestConfigureAppliesPoolLimits(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	Configure(sqlxDB, config.DatabaseConfig{MaxOpenConns: 7, MaxIdleConns: 3})

	assert.Equal(t, 7, sqlxDB.Stats().MaxOpenConnections)
}
