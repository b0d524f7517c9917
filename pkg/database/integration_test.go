//go:build mssql

package database

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// integrationConfig builds a Config from MSSQL_* environment variables,
// skipping the test when they are absent.
func integrationConfig(t *testing.T) (*Config, string) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	host := os.Getenv("MSSQL_HOST")
	user := os.Getenv("MSSQL_USER")
	password := os.Getenv("MSSQL_PASSWORD")
	dbName := os.Getenv("MSSQL_DATABASE")
	if host == "" || user == "" || password == "" || dbName == "" {
		t.Skip("skipping integration test: MSSQL_HOST, MSSQL_USER, MSSQL_PASSWORD, or MSSQL_DATABASE not set")
	}

	port := 1433
	if p := os.Getenv("MSSQL_PORT"); p != "" {
		parsed, err := strconv.Atoi(p)
		require.NoError(t, err, "invalid MSSQL_PORT")
		port = parsed
	}

	return &Config{
		Host:              host,
		Port:              port,
		Username:          user,
		Password:          password,
		Encrypt:           false,
		ConnectionTimeout: 30,
		MaxOpenConns:      5,
		MaxIdleConns:      1,
		ConnMaxIdleTime:   time.Minute,
	}, dbName
}

func TestClient_RunStatement_Integration(t *testing.T) {
	cfg, dbName := integrationConfig(t)

	client, err := NewClient(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := client.RunStatement(ctx, dbName, "SELECT 1 AS answer")
	require.NoError(t, err)
	require.Equal(t, 1, result.RowCount)
	assert.Equal(t, "answer", result.Columns[0].Name)
}

func TestClient_Ping_Integration(t *testing.T) {
	cfg, dbName := integrationConfig(t)

	client, err := NewClient(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, client.Ping(ctx, dbName))
}
