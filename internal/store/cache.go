package store

import (
	"context"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/google/uuid"
)

// SessionCache is a read-through cache of each deck's stored session.
// A cache is advisory: callers fall back to the SessionStore on any error.
type SessionCache interface {
	// Get returns the cached session. ok is false on a miss.
	Get(ctx context.Context, deckID uuid.UUID) (session *domain.Session, ok bool, err error)

	// Set caches the session until the end of its study day.
	Set(ctx context.Context, session *domain.Session) error

	// Invalidate drops the deck's cached session.
	Invalidate(ctx context.Context, deckID uuid.UUID) error
}
