package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
)

// loadAppConfig loads configuration and installs the service logger as the
// slog default.
func loadAppConfig(service string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server.LogLevel, service)
	log.Info("configuration loaded", slog.String("log_level", cfg.Server.LogLevel))

	if cfg.Redis.Enabled() {
		log.Debug("redis configuration", slog.Bool("addr_present", true))
	}
	if cfg.Telemetry.OTLPEndpoint != "" {
		log.Debug("telemetry configuration", slog.Bool("endpoint_present", true))
	}

	return cfg, log, nil
}
