package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for sqlbridge.
// Configuration can come from YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values. Secrets
// (database password, API key) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8480"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// APIKey authenticates callers on every request except health checks.
	APIKey string `yaml:"-" env:"API_KEY"` // Secret - not in YAML

	// Gateway holds query-gateway behavior settings.
	Gateway GatewayConfig `yaml:"gateway"`

	// MSSQL holds SQL Server connection settings.
	MSSQL MSSQLConfig `yaml:"mssql"`
}

// GatewayConfig holds access-control and result-bounding settings.
type GatewayConfig struct {
	// AllowedDatabasesStr is a comma-separated list of database names a
	// caller may target. Empty means the gateway rejects every request.
	AllowedDatabasesStr string `yaml:"allowed_databases" env:"ALLOWED_DATABASES" env-default:""`

	// AllowedDatabases is the parsed list from AllowedDatabasesStr (not
	// from config file).
	AllowedDatabases []string `yaml:"-"`

	// MaxRows is the ceiling on rows returned by a single query.
	MaxRows int `yaml:"max_rows" env:"MAX_ROWS" env-default:"1000"`
}

// MSSQLConfig holds SQL Server connection configuration.
type MSSQLConfig struct {
	Host                   string `yaml:"host" env:"MSSQL_HOST" env-default:"localhost"`
	Port                   int    `yaml:"port" env:"MSSQL_PORT" env-default:"1433"`
	Username               string `yaml:"username" env:"MSSQL_USER" env-default:"sa"`
	Password               string `yaml:"-" env:"MSSQL_PASSWORD"` // Secret - not in YAML
	Encrypt                bool   `yaml:"encrypt" env:"MSSQL_ENCRYPT" env-default:"true"`
	TrustServerCertificate bool   `yaml:"trust_server_certificate" env:"MSSQL_TRUST_SERVER_CERTIFICATE" env-default:"false"`
	ConnectionTimeout      int    `yaml:"connection_timeout" env:"MSSQL_CONNECTION_TIMEOUT" env-default:"30"`
	MaxOpenConns           int    `yaml:"max_open_conns" env:"MSSQL_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns           int    `yaml:"max_idle_conns" env:"MSSQL_MAX_IDLE_CONNS" env-default:"2"`
	ConnMaxIdleMinutes     int    `yaml:"conn_max_idle_minutes" env:"MSSQL_CONN_MAX_IDLE_MINUTES" env-default:"5"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set on the
// returned Config. Secrets (MSSQL_PASSWORD, API_KEY) must come from
// environment variables (yaml:"-" fields).
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	cfg.parseComplexFields()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// parseComplexFields handles fields that need post-processing after loading.
func (c *Config) parseComplexFields() {
	c.Gateway.AllowedDatabases = parseDatabaseList(c.Gateway.AllowedDatabasesStr)
}

// Validate checks settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	if c.Gateway.MaxRows <= 0 {
		return fmt.Errorf("max_rows must be positive, got %d", c.Gateway.MaxRows)
	}
	if c.MSSQL.Host == "" {
		return fmt.Errorf("mssql host is required")
	}
	if c.MSSQL.Port <= 0 || c.MSSQL.Port > 65535 {
		return fmt.Errorf("invalid mssql port: %d", c.MSSQL.Port)
	}
	if c.MSSQL.Username == "" {
		return fmt.Errorf("mssql username is required")
	}
	return nil
}

// parseDatabaseList splits the comma-separated database list, trimming
// whitespace and dropping empty entries.
func parseDatabaseList(value string) []string {
	if value == "" {
		return nil
	}

	var names []string
	for _, part := range strings.Split(value, ",") {
		name := strings.TrimSpace(part)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
