// Package main implements the entry point for the Woodpecker server, which
// runs spaced repetition study sessions over flashcard decks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/birdapp/woodpecker/internal/config"
)

// options holds the command line flags.
type options struct {
	configDir  string
	migrateCmd string
}

func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&opts.configDir, "config", ".", "directory holding an optional config.yaml")
	fs.StringVar(&opts.migrateCmd, "migrate", "",
		"run a migration command (up, down, reset, status, version, redo) and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Fatalf("woodpecker: %v", err)
	}
}

// run loads configuration, connects to the database and either runs a
// migration command or serves HTTP until ctx is canceled.
func run(ctx context.Context, opts options) error {
	cfg, err := loadAppConfig(opts.configDir)
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if opts.migrateCmd != "" {
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("error closing database connection", slog.String("error", err.Error()))
			}
		}()
		return handleMigrations(ctx, db, opts.migrateCmd, logger)
	}

	app, err := newApplication(ctx, cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// loadAppConfig loads the application configuration from dir and the environment.
func loadAppConfig(dir string) (*config.Config, error) {
	cfg, err := config.LoadFrom(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
