package main

import (
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sqlbridge-io/sqlbridge/pkg/config"
	"github.com/sqlbridge-io/sqlbridge/pkg/database"
	"github.com/sqlbridge-io/sqlbridge/pkg/gateway"
	"github.com/sqlbridge-io/sqlbridge/pkg/handlers"
	"github.com/sqlbridge-io/sqlbridge/pkg/logging"
	"github.com/sqlbridge-io/sqlbridge/pkg/middleware"
	"github.com/sqlbridge-io/sqlbridge/pkg/sqlguard"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("bind_addr", cfg.BindAddr),
		zap.String("port", cfg.Port),
		zap.Strings("allowed_databases", cfg.Gateway.AllowedDatabases),
		zap.Int("max_rows", cfg.Gateway.MaxRows),
		zap.String("mssql_host", cfg.MSSQL.Host),
		zap.Int("mssql_port", cfg.MSSQL.Port),
		zap.Bool("api_key_auth", cfg.APIKey != ""),
	)

	client, err := database.NewClient(&database.Config{
		Host:                   cfg.MSSQL.Host,
		Port:                   cfg.MSSQL.Port,
		Username:               cfg.MSSQL.Username,
		Password:               cfg.MSSQL.Password,
		Encrypt:                cfg.MSSQL.Encrypt,
		TrustServerCertificate: cfg.MSSQL.TrustServerCertificate,
		ConnectionTimeout:      cfg.MSSQL.ConnectionTimeout,
		MaxOpenConns:           cfg.MSSQL.MaxOpenConns,
		MaxIdleConns:           cfg.MSSQL.MaxIdleConns,
		ConnMaxIdleTime:        time.Duration(cfg.MSSQL.ConnMaxIdleMinutes) * time.Minute,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create database client", zap.Error(err))
	}
	defer func() { _ = client.Close() }()

	whitelist := sqlguard.NewWhitelist(cfg.Gateway.AllowedDatabases)
	if whitelist.Size() == 0 {
		logger.Warn("No databases configured; every request will be rejected")
	}

	svc := gateway.NewService(whitelist, client, cfg.Gateway.MaxRows, logger)

	mux := http.NewServeMux()

	// Register handlers
	healthHandler := handlers.NewHealthHandler(cfg, whitelist.Size(), logger)
	healthHandler.RegisterRoutes(mux)

	gatewayHandler := handlers.NewGatewayHandler(svc, logger)
	gatewayHandler.RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(middleware.APIKeyAuth(cfg.APIKey)(mux))

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting sqlbridge", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
