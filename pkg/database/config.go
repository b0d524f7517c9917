// Package database is the SQL Server collaborator: it owns connection
// pooling, the database-context switch, and statement execution. It never
// inspects or second-guesses the SQL it is handed; that is the guard
// layer's job, upstream.
package database

import (
	"fmt"
	"net/url"
	"time"
)

// Config contains SQL Server connection options shared by every pooled
// database handle.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string

	Encrypt                bool
	TrustServerCertificate bool
	ConnectionTimeout      int // seconds

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
}

// Validate checks the config has everything needed to open a connection.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Username == "" {
		return fmt.Errorf("username is required")
	}
	return nil
}

// connString builds a sqlserver:// connection string targeting the given
// database. The database-context switch lives here: each whitelisted
// database gets its own pool rather than issuing USE statements.
func (c *Config) connString(database string) string {
	query := url.Values{}
	query.Add("database", database)

	if c.Encrypt {
		query.Add("encrypt", "true")
	} else {
		query.Add("encrypt", "false")
	}

	if c.TrustServerCertificate {
		query.Add("TrustServerCertificate", "true")
	}

	if c.ConnectionTimeout > 0 {
		query.Add("connection timeout", fmt.Sprintf("%d", c.ConnectionTimeout))
	}

	return fmt.Sprintf("sqlserver://%s:%s@%s:%d?%s",
		url.QueryEscape(c.Username),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		query.Encode(),
	)
}
