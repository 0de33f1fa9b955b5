package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/birdapp/woodpecker/internal/store"
	"github.com/google/uuid"
)

var cardColumns = []string{
	"id",
	"deck_id",
	"front",
	"back",
	"step",
	"is_graduated",
	"ease_factor",
	"streak",
	"interval_days",
	"has_been_presented",
	"due_date",
	"history",
	"created_at",
	"updated_at",
}

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx, logger: s.logger}
}

// Create implements store.CardStore.Create
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	history, err := marshalHistory(card.History)
	if err != nil {
		return err
	}

	query, args, err := psql.Insert(cardsTable).
		Columns(cardColumns...).
		Values(
			card.ID,
			card.DeckID,
			card.Front,
			card.Back,
			card.State.Step,
			card.State.IsGraduated,
			card.State.EaseFactor,
			card.State.Streak,
			card.State.Interval,
			card.State.HasBeenPresented,
			nullTime(card.State.DueDate),
			history,
			card.CreatedAt,
			card.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build card insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Error("failed to create card",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return wrapError("card", "create", err)
	}

	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query, args, err := psql.Select(cardColumns...).
		From(cardsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build card select: %w", err)
	}

	card, err := scanCard(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapNotFound(err, store.ErrCardNotFound)
	}
	return card, nil
}

// ListByDeck implements store.CardStore.ListByDeck
func (s *PostgresCardStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	query, args, err := psql.Select(cardColumns...).
		From(cardsTable).
		Where(squirrel.Eq{"deck_id": deckID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build card list: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("failed to list cards",
			slog.String("deck_id", deckID.String()),
			slog.String("error", err.Error()))
		return nil, wrapError("card", "list", err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, wrapError("card", "list", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("card", "list", err)
	}

	return cards, nil
}

// Update implements store.CardStore.Update
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	history, err := marshalHistory(card.History)
	if err != nil {
		return err
	}

	query, args, err := psql.Update(cardsTable).
		Set("front", card.Front).
		Set("back", card.Back).
		Set("step", card.State.Step).
		Set("is_graduated", card.State.IsGraduated).
		Set("ease_factor", card.State.EaseFactor).
		Set("streak", card.State.Streak).
		Set("interval_days", card.State.Interval).
		Set("has_been_presented", card.State.HasBeenPresented).
		Set("due_date", nullTime(card.State.DueDate)).
		Set("history", history).
		Set("updated_at", card.UpdatedAt).
		Where(squirrel.Eq{"id": card.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build card update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("failed to update card",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return wrapError("card", "update", err)
	}

	return checkRowsAffected(result, store.ErrCardNotFound)
}

// Delete implements store.CardStore.Delete
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete(cardsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build card delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapError("card", "delete", err)
	}

	return checkRowsAffected(result, store.ErrCardNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card    domain.Card
		dueDate sql.NullTime
		history []byte
	)

	err := row.Scan(
		&card.ID,
		&card.DeckID,
		&card.Front,
		&card.Back,
		&card.State.Step,
		&card.State.IsGraduated,
		&card.State.EaseFactor,
		&card.State.Streak,
		&card.State.Interval,
		&card.State.HasBeenPresented,
		&dueDate,
		&history,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dueDate.Valid {
		due := dueDate.Time.UTC()
		card.State.DueDate = &due
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &card.History); err != nil {
			return nil, fmt.Errorf("failed to decode history of card %s: %w", card.ID, err)
		}
	}

	return &card, nil
}

func marshalHistory(history []domain.CardSnapshot) ([]byte, error) {
	if history == nil {
		history = []domain.CardSnapshot{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("failed to encode card history: %w", err)
	}
	return data, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
