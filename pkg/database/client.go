package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	_ "github.com/microsoft/go-mssqldb" // SQL Server driver

	"github.com/sqlbridge-io/sqlbridge/pkg/retry"
)

// Column describes one result column with its engine-neutral type name.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ResultSet is an ordered, immutable capture of the rows a statement
// produced. Each row maps column name to scalar value.
type ResultSet struct {
	Columns  []Column         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
}

// Client provides pooled SQL Server connectivity, one *sql.DB per target
// database. Pools are created lazily on first use and reused for the
// process lifetime.
type Client struct {
	cfg    *Config
	logger *zap.Logger

	mu    sync.Mutex
	pools map[string]*sql.DB
}

// NewClient creates a SQL Server client. No connection is opened until a
// statement targets a database. If logger is nil, a no-op logger is used.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		cfg:    cfg,
		logger: logger,
		pools:  make(map[string]*sql.DB),
	}, nil
}

// pool returns the connection pool for a database, creating it on first
// use. sql.Open does not dial; connectivity faults surface on execution.
func (c *Client) pool(database string) (*sql.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if db, found := c.pools[database]; found {
		return db, nil
	}

	db, err := sql.Open("sqlserver", c.cfg.connString(database))
	if err != nil {
		return nil, fmt.Errorf("open connection for %s: %w", database, err)
	}

	db.SetMaxOpenConns(c.cfg.MaxOpenConns)
	db.SetMaxIdleConns(c.cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(c.cfg.ConnMaxIdleTime)

	c.logger.Debug("Created connection pool",
		zap.String("database", database),
		zap.Int("max_open_conns", c.cfg.MaxOpenConns))

	c.pools[database] = db
	return db, nil
}

// RunStatement executes sqlText against the named database and captures
// the full result. Arguments, when present, are bound with sql.Named.
// Transient failures are retried; every statement here is a read, so a
// retry cannot double-apply anything.
func (c *Client) RunStatement(ctx context.Context, database, sqlText string, args ...any) (*ResultSet, error) {
	db, err := c.pool(database)
	if err != nil {
		return nil, err
	}

	return retry.DoWithResult(ctx, nil, func() (*ResultSet, error) {
		rows, err := db.QueryContext(ctx, sqlText, args...)
		if err != nil {
			return nil, fmt.Errorf("execute statement: %w", err)
		}
		defer rows.Close()

		return collectRows(rows)
	})
}

// RunStoredProcedure invokes a stored procedure by name with named
// parameters bound through the driver. The procedure name must already be
// validated by the guard layer; parameter names are constrained here as
// well since they appear in the EXEC text.
func (c *Client) RunStoredProcedure(ctx context.Context, database, procedure string, params map[string]any) (*ResultSet, error) {
	db, err := c.pool(database)
	if err != nil {
		return nil, err
	}

	stmt, args, err := buildProcedureCall(procedure, params)
	if err != nil {
		return nil, err
	}

	// No retry here. A procedure body may have side effects, and
	// re-executing one on a flaky connection could apply them twice.
	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("execute procedure %s: %w", procedure, err)
	}
	defer rows.Close()

	return collectRows(rows)
}

// buildProcedureCall renders `EXEC [proc] @a = @a, @b = @b` with sql.Named
// bindings for the values. Parameter order is sorted for determinism.
func buildProcedureCall(procedure string, params map[string]any) (string, []any, error) {
	names := make([]string, 0, len(params))
	for name := range params {
		if !parameterNamePattern.MatchString(name) {
			return "", nil, fmt.Errorf("invalid parameter name: %q", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	stmt := "EXEC " + quoteName(procedure)
	args := make([]any, 0, len(names))
	for i, name := range names {
		if i > 0 {
			stmt += ","
		}
		stmt += fmt.Sprintf(" @%s = @%s", name, name)
		args = append(args, sql.Named(name, params[name]))
	}

	return stmt, args, nil
}

// collectRows drains a result cursor into a ResultSet, converting []byte
// values of string-typed columns to string.
func collectRows(rows *sql.Rows) (*ResultSet, error) {
	columnNames, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("get column types: %w", err)
	}

	columns := make([]Column, len(columnNames))
	for i, name := range columnNames {
		columns[i] = Column{
			Name: name,
			Type: mapSQLServerType(columnTypes[i].DatabaseTypeName()),
		}
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columnNames))
		valuePtrs := make([]any, len(columnNames))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		rowMap := make(map[string]any, len(columnNames))
		for i, col := range columnNames {
			val := values[i]
			if b, isBytes := val.([]byte); isBytes && isStringType(columnTypes[i].DatabaseTypeName()) {
				val = string(b)
			}
			rowMap[col] = val
		}
		resultRows = append(resultRows, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return &ResultSet{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
	}, nil
}

// Ping verifies the server is reachable with the configured credentials,
// using the first pool the caller names.
func (c *Client) Ping(ctx context.Context, database string) error {
	db, err := c.pool(database)
	if err != nil {
		return err
	}

	if err := retry.Do(ctx, nil, func() error { return db.PingContext(ctx) }); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// Close releases every pool.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for name, db := range c.pools {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close pool %s: %w", name, err)
		}
		delete(c.pools, name)
	}
	return firstErr
}
