package store

import (
	"context"
	"database/sql"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/google/uuid"
)

// DeckStore defines the interface for deck data persistence.
//
// Decks returned by the store never carry a Session; sessions live in the
// SessionStore and are joined by the caller.
type DeckStore interface {
	// Create saves a new deck. The deck must pass domain validation.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its unique ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// Update replaces the deck's name and spaced repetition configuration.
	// Returns ErrDeckNotFound if the deck does not exist.
	Update(ctx context.Context, deck *domain.Deck) error

	// Delete removes a deck together with its cards and session.
	// Returns ErrDeckNotFound if the deck does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a DeckStore that runs its statements in tx.
	WithTx(tx *sql.Tx) DeckStore
}
