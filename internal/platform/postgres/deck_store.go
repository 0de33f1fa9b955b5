package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/birdapp/woodpecker/internal/store"
	"github.com/google/uuid"
)

var deckColumns = []string{
	"id",
	"name",
	"max_learning_cards",
	"max_reviewing_cards",
	"number_of_steps",
	"created_at",
	"updated_at",
}

// PostgresDeckStore implements the store.DeckStore interface.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

var _ store.DeckStore = (*PostgresDeckStore)(nil)

// WithTx implements store.DeckStore.WithTx
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{db: tx, logger: s.logger}
}

// Create implements store.DeckStore.Create
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	learning, reviewing, steps := configArgs(deck.Config)

	query, args, err := psql.Insert(decksTable).
		Columns(deckColumns...).
		Values(
			deck.ID,
			deck.Name,
			learning,
			reviewing,
			steps,
			deck.CreatedAt,
			deck.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deck insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Error("failed to create deck",
			slog.String("deck_id", deck.ID.String()),
			slog.String("error", err.Error()))
		return wrapError("deck", "create", err)
	}
	return nil
}

// GetByID implements store.DeckStore.GetByID
func (s *PostgresDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	query, args, err := psql.Select(deckColumns...).
		From(decksTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build deck select: %w", err)
	}

	var (
		deck                       domain.Deck
		learning, reviewing, steps sql.NullInt32
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&deck.ID,
		&deck.Name,
		&learning,
		&reviewing,
		&steps,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		return nil, mapNotFound(err, store.ErrDeckNotFound)
	}
	deck.Config = domain.SpacedRepetitionConfig{
		MaxLearningCards:  int(learning.Int32),
		MaxReviewingCards: int(reviewing.Int32),
		NumberOfSteps:     int(steps.Int32),
	}

	return &deck, nil
}

// Update implements store.DeckStore.Update
func (s *PostgresDeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	learning, reviewing, steps := configArgs(deck.Config)

	query, args, err := psql.Update(decksTable).
		Set("name", deck.Name).
		Set("max_learning_cards", learning).
		Set("max_reviewing_cards", reviewing).
		Set("number_of_steps", steps).
		Set("updated_at", deck.UpdatedAt).
		Where(squirrel.Eq{"id": deck.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deck update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapError("deck", "update", err)
	}
	return checkRowsAffected(result, store.ErrDeckNotFound)
}

// Delete implements store.DeckStore.Delete
// Cards and the session go with the deck through ON DELETE CASCADE.
func (s *PostgresDeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete(decksTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deck delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapError("deck", "delete", err)
	}
	return checkRowsAffected(result, store.ErrDeckNotFound)
}

// configArgs returns the config columns, all NULL for an unconfigured deck.
func configArgs(cfg domain.SpacedRepetitionConfig) (learning, reviewing, steps any) {
	if cfg.IsZero() {
		return nil, nil, nil
	}
	return cfg.MaxLearningCards, cfg.MaxReviewingCards, cfg.NumberOfSteps
}
