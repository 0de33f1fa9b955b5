package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/birdapp/woodpecker/internal/store"
	"github.com/google/uuid"
)

var sessionColumns = []string{"id", "deck_id", "card_ids", "session_date"}

// lockDeckQuery takes a transaction scoped advisory lock keyed by deck.
const lockDeckQuery = "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))"

// PostgresSessionStore implements the store.SessionStore interface.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the SessionStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

var _ store.SessionStore = (*PostgresSessionStore)(nil)

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{db: tx, logger: s.logger}
}

// LockDeck implements store.SessionStore.LockDeck
func (s *PostgresSessionStore) LockDeck(ctx context.Context, deckID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, lockDeckQuery, deckID.String()); err != nil {
		s.logger.Error("failed to lock deck",
			slog.String("deck_id", deckID.String()),
			slog.String("error", err.Error()))
		return wrapError("session", "lock", err)
	}
	return nil
}

// GetByDeckID implements store.SessionStore.GetByDeckID
func (s *PostgresSessionStore) GetByDeckID(ctx context.Context, deckID uuid.UUID) (*domain.Session, error) {
	query, args, err := psql.Select(sessionColumns...).
		From(sessionsTable).
		Where(squirrel.Eq{"deck_id": deckID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build session select: %w", err)
	}

	var (
		session domain.Session
		cardIDs []byte
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&session.ID,
		&session.DeckID,
		&cardIDs,
		&session.Date,
	)
	if err != nil {
		return nil, mapNotFound(err, store.ErrSessionNotFound)
	}

	if err := json.Unmarshal(cardIDs, &session.CardIDs); err != nil {
		return nil, fmt.Errorf("failed to decode card ids of session %s: %w", session.ID, err)
	}
	session.Date = domain.DayStart(session.Date)

	return &session, nil
}

// Create implements store.SessionStore.Create
// A previous session of the same deck is replaced in place.
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	cardIDs, err := marshalCardIDs(session.CardIDs)
	if err != nil {
		return err
	}

	query, args, err := psql.Insert(sessionsTable).
		Columns(sessionColumns...).
		Values(session.ID, session.DeckID, cardIDs, session.Date).
		Suffix("ON CONFLICT (deck_id) DO UPDATE SET " +
			"id = EXCLUDED.id, card_ids = EXCLUDED.card_ids, session_date = EXCLUDED.session_date").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build session insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Error("failed to create session",
			slog.String("session_id", session.ID.String()),
			slog.String("deck_id", session.DeckID.String()),
			slog.String("error", err.Error()))
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrDeckSessionExists, err)
		}
		return wrapError("session", "create", err)
	}
	return nil
}

// Update implements store.SessionStore.Update
func (s *PostgresSessionStore) Update(ctx context.Context, session *domain.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	cardIDs, err := marshalCardIDs(session.CardIDs)
	if err != nil {
		return err
	}

	query, args, err := psql.Update(sessionsTable).
		Set("card_ids", cardIDs).
		Set("session_date", session.Date).
		Where(squirrel.Eq{"id": session.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build session update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("failed to update session",
			slog.String("session_id", session.ID.String()),
			slog.String("error", err.Error()))
		return wrapError("session", "update", err)
	}
	return checkRowsAffected(result, store.ErrSessionNotFound)
}

// Delete implements store.SessionStore.Delete
func (s *PostgresSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete(sessionsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build session delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapError("session", "delete", err)
	}
	return checkRowsAffected(result, store.ErrSessionNotFound)
}

func marshalCardIDs(ids []uuid.UUID) ([]byte, error) {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session card ids: %w", err)
	}
	return data, nil
}
