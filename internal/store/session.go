package store

import (
	"context"
	"database/sql"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/google/uuid"
)

// SessionStore defines the interface for study session persistence.
// A deck has at most one stored session.
type SessionStore interface {
	// GetByDeckID returns the deck's stored session.
	// Returns ErrSessionNotFound if the deck has none.
	GetByDeckID(ctx context.Context, deckID uuid.UUID) (*domain.Session, error)

	// Create saves a new session, replacing any previous session of the deck.
	Create(ctx context.Context, session *domain.Session) error

	// Update replaces the session's card list and date.
	// Returns ErrSessionNotFound if the session does not exist.
	Update(ctx context.Context, session *domain.Session) error

	// Delete removes a session by its ID.
	// Returns ErrSessionNotFound if the session does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// LockDeck serializes session writes for a deck until the surrounding
	// transaction ends. It must be called on a store bound with WithTx.
	LockDeck(ctx context.Context, deckID uuid.UUID) error

	// WithTx returns a SessionStore that runs its statements in tx.
	WithTx(tx *sql.Tx) SessionStore
}
