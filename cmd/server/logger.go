package main

import (
	"fmt"
	"log/slog"

	"github.com/birdapp/woodpecker/internal/config"
	"github.com/birdapp/woodpecker/internal/platform/logger"
)

// setupAppLogger configures the process-wide logger from the server config.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("redis_enabled", cfg.Redis.Enabled()))

	return l, nil
}
