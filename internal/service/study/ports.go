package study

import (
	"context"
	"time"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/google/uuid"
)

// Repository is the persistence port of the study service.
//
// FetchDeck returns the deck with its stored session, if any, and
// ErrDeckNotFound for unknown decks. Implementations must serialize session
// writes per deck.
type Repository interface {
	FetchDeck(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error)
	FetchCardsForDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)
	EditCard(ctx context.Context, card *domain.Card) error
	DeleteCard(ctx context.Context, card *domain.Card) error
	CreateSession(ctx context.Context, session *domain.Session) error
	EditSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, session *domain.Session) error
}

// Clock supplies the current instant. Study days are UTC calendar days.
type Clock interface {
	Today() time.Time
	IsSameDay(a, b time.Time) bool
}

// IDGenerator produces identifiers for new sessions.
type IDGenerator interface {
	NewID() uuid.UUID
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Today returns the current instant in UTC.
func (SystemClock) Today() time.Time {
	return time.Now().UTC()
}

// IsSameDay reports whether a and b fall on the same UTC day.
func (SystemClock) IsSameDay(a, b time.Time) bool {
	return domain.IsSameDay(a, b)
}

// UUIDGenerator generates random (version 4) UUIDs.
type UUIDGenerator struct{}

// NewID returns a new random UUID.
func (UUIDGenerator) NewID() uuid.UUID {
	return uuid.New()
}
