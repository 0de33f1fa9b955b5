package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/birdapp/woodpecker/internal/platform/postgres"
	"github.com/google/uuid"
)

// handleMigrations runs one goose command against db.
func handleMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	// All log lines of one run share a correlation id.
	migrationLogger := logger.With(
		slog.String("correlation_id", uuid.NewString()),
		slog.String("command", command),
	)

	start := time.Now()
	migrationLogger.Info("starting migration operation")

	if err := postgres.Migrate(ctx, db, command, migrationLogger); err != nil {
		migrationLogger.Error("migration operation failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	migrationLogger.Info("migration operation completed",
		slog.Duration("duration", time.Since(start)))
	return nil
}
