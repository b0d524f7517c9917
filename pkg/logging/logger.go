// Package logging builds the process logger and sanitizes values before
// they reach log output.
package logging

import (
	"go.uber.org/zap"
)

// New builds a zap logger appropriate for the given environment.
// "local" gets a human-readable development logger; everything else gets
// production JSON output.
func New(env string) (*zap.Logger, error) {
	if env == "local" {
		cfg := zap.NewDevelopmentConfig()
		return cfg.Build()
	}

	cfg := zap.NewProductionConfig()
	return cfg.Build()
}
