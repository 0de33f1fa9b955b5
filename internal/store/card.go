package store

import (
	"context"
	"database/sql"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/google/uuid"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card. The card must pass domain validation.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByDeck returns every card of a deck ordered by creation time.
	// An unknown deck yields an empty slice, not an error.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)

	// Update replaces the card's content, learning state and history.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card from the store by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a CardStore that runs its statements in tx.
	WithTx(tx *sql.Tx) CardStore
}
