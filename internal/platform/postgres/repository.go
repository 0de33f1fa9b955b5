package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/birdapp/woodpecker/internal/platform/logger"
	"github.com/birdapp/woodpecker/internal/service/study"
	"github.com/birdapp/woodpecker/internal/store"
	"github.com/google/uuid"
)

// Database is a connection pool that can also start transactions.
// *sql.DB implements it.
type Database interface {
	store.DBTX
	store.TxBeginner
}

// Repository implements study.Repository on top of the PostgreSQL stores.
//
// Session writes take the deck's advisory lock inside a transaction. When a
// SessionCache is configured, session reads go through it and every session
// write invalidates it.
type Repository struct {
	db       Database
	decks    store.DeckStore
	cards    store.CardStore
	sessions store.SessionStore
	cache    store.SessionCache
	logger   *slog.Logger
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithSessionCache puts cache in front of session reads.
func WithSessionCache(cache store.SessionCache) RepositoryOption {
	return func(r *Repository) {
		r.cache = cache
	}
}

// NewRepository creates a study repository over db.
// If logger is nil, a default logger will be used.
func NewRepository(db Database, logger *slog.Logger, opts ...RepositoryOption) *Repository {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Repository{
		db:       db,
		decks:    NewPostgresDeckStore(db, logger),
		cards:    NewPostgresCardStore(db, logger),
		sessions: NewPostgresSessionStore(db, logger),
		logger:   logger.With(slog.String("component", "study_repository")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ study.Repository = (*Repository)(nil)

// FetchDeck implements study.Repository.FetchDeck
func (r *Repository) FetchDeck(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error) {
	deck, err := r.decks.GetByID(ctx, deckID)
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, study.ErrDeckNotFound
		}
		return nil, fmt.Errorf("failed to fetch deck %s: %w", deckID, err)
	}

	session, err := r.fetchSession(ctx, deckID)
	if err != nil {
		return nil, err
	}
	deck.Session = session

	return deck, nil
}

func (r *Repository) fetchSession(ctx context.Context, deckID uuid.UUID) (*domain.Session, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	if r.cache != nil {
		session, ok, err := r.cache.Get(ctx, deckID)
		switch {
		case err != nil:
			log.Warn("session cache read failed",
				slog.String("deck_id", deckID.String()),
				slog.String("error", err.Error()))
		case ok:
			return session, nil
		}
	}

	session, err := r.sessions.GetByDeckID(ctx, deckID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch session of deck %s: %w", deckID, err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, session); err != nil {
			log.Warn("session cache write failed",
				slog.String("deck_id", deckID.String()),
				slog.String("error", err.Error()))
		}
	}

	return session, nil
}

// FetchCardsForDeck implements study.Repository.FetchCardsForDeck
func (r *Repository) FetchCardsForDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	cards, err := r.cards.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cards of deck %s: %w", deckID, err)
	}
	return cards, nil
}

// EditCard implements study.Repository.EditCard
func (r *Repository) EditCard(ctx context.Context, card *domain.Card) error {
	return r.cards.Update(ctx, card)
}

// DeleteCard implements study.Repository.DeleteCard
func (r *Repository) DeleteCard(ctx context.Context, card *domain.Card) error {
	return r.cards.Delete(ctx, card.ID)
}

// CreateSession implements study.Repository.CreateSession
func (r *Repository) CreateSession(ctx context.Context, session *domain.Session) error {
	return r.writeSession(ctx, session.DeckID, func(ctx context.Context, sessions store.SessionStore) error {
		return sessions.Create(ctx, session)
	})
}

// EditSession implements study.Repository.EditSession
func (r *Repository) EditSession(ctx context.Context, session *domain.Session) error {
	return r.writeSession(ctx, session.DeckID, func(ctx context.Context, sessions store.SessionStore) error {
		return sessions.Update(ctx, session)
	})
}

// DeleteSession implements study.Repository.DeleteSession
// Deleting a session that is already gone succeeds.
func (r *Repository) DeleteSession(ctx context.Context, session *domain.Session) error {
	return r.writeSession(ctx, session.DeckID, func(ctx context.Context, sessions store.SessionStore) error {
		err := sessions.Delete(ctx, session.ID)
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil
		}
		return err
	})
}

func (r *Repository) writeSession(
	ctx context.Context,
	deckID uuid.UUID,
	fn func(ctx context.Context, sessions store.SessionStore) error,
) error {
	err := store.RunInTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		sessions := r.sessions.WithTx(tx)
		if err := sessions.LockDeck(ctx, deckID); err != nil {
			return err
		}
		return fn(ctx, sessions)
	})
	if err != nil {
		return err
	}

	if r.cache != nil {
		if err := r.cache.Invalidate(ctx, deckID); err != nil {
			logger.FromContextOrDefault(ctx, r.logger).Warn("session cache invalidation failed",
				slog.String("deck_id", deckID.String()),
				slog.String("error", err.Error()))
		}
	}
	return nil
}
