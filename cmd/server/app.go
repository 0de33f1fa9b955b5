package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/birdapp/woodpecker/internal/config"
	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/birdapp/woodpecker/internal/domain/woodpecker"
	"github.com/birdapp/woodpecker/internal/events"
	"github.com/birdapp/woodpecker/internal/platform/postgres"
	"github.com/birdapp/woodpecker/internal/platform/redis"
	"github.com/birdapp/woodpecker/internal/service/study"
	goredis "github.com/redis/go-redis/v9"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config

	logger *slog.Logger
	db     *sql.DB
	redis  *goredis.Client

	repository   *postgres.Repository
	scheduler    woodpecker.Service
	studyService study.Service
	registry     *study.Registry

	eventEmitter *events.InMemoryEventEmitter
}

// newApplication wires the repository, cache, scheduler and study service.
// The Redis cache is only connected when an address is configured.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		db:       db,
		registry: study.NewRegistry(),
	}

	var repoOpts []postgres.RepositoryOption
	if cfg.Redis.Enabled() {
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.redis = client
		repoOpts = append(repoOpts, postgres.WithSessionCache(redis.NewSessionCache(client, logger)))
		logger.Info("session cache enabled", slog.String("addr", cfg.Redis.Addr))
	}
	app.repository = postgres.NewRepository(db, logger, repoOpts...)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewLoggingHandler(logger))

	scheduler, err := woodpecker.NewServiceWithParams(reviewParams(cfg.Study.Review), nil)
	if err != nil {
		return nil, fmt.Errorf("invalid review parameters: %w", err)
	}
	app.scheduler = scheduler

	app.studyService = study.NewStudyService(app.repository, app.scheduler,
		study.WithEventEmitter(app.eventEmitter),
		study.WithSaveConcurrency(cfg.Study.SaveConcurrency),
		study.WithDeckDefaults(domain.SpacedRepetitionConfig{
			MaxLearningCards:  cfg.Study.MaxLearningCards,
			MaxReviewingCards: cfg.Study.MaxReviewingCards,
			NumberOfSteps:     cfg.Study.NumberOfSteps,
		}),
		study.WithLogger(logger),
	)

	logger.Info("application initialized successfully")
	return app, nil
}

// reviewParams maps the review settings onto scheduler parameters. Zero
// values keep the scheduler defaults.
func reviewParams(cfg config.ReviewConfig) *woodpecker.Params {
	return woodpecker.NewParams(woodpecker.ParamsConfig{
		MinEaseFactor:                   cfg.MinEaseFactor,
		WrongHardEaseFactorAdjustment:   cfg.WrongHardAdjustment,
		WrongEaseFactorAdjustment:       cfg.WrongAdjustment,
		CorrectEaseFactorAdjustment:     cfg.CorrectAdjustment,
		CorrectEasyEaseFactorAdjustment: cfg.CorrectEasyAdjustment,
		FirstInterval:                   cfg.FirstInterval,
		SecondInterval:                  cfg.SecondInterval,
		LapseInterval:                   cfg.LapseInterval,
	})
}

// Run serves HTTP until ctx is canceled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if n := app.registry.Len(); n > 0 {
		app.logger.Warn("dropping in-memory study sessions", slog.Int("sessions", n))
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis connection", slog.String("error", err.Error()))
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
