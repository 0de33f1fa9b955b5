package study

import (
	"context"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/google/uuid"
)

// Service drives study sessions against a repository.
type Service interface {
	// Startup loads the deck and prepares a started session.
	//
	// In spaced mode a session stored earlier the same UTC day is resumed;
	// otherwise a stale session is deleted, today's cards are selected and the
	// new selection is persisted before Startup returns. Due cards over the
	// review cap are pushed to tomorrow and written on save.
	//
	// In cramming mode every card of the deck is studied from a private copy
	// and nothing is ever written.
	//
	// Returns ErrDeckNotFound for unknown decks.
	Startup(ctx context.Context, deckID uuid.UUID, mode Mode) (*Session, error)

	// Answer grades the session's active card and publishes the resulting
	// events.
	Answer(ctx context.Context, session *Session, grade domain.UserGrade) (AnswerResult, error)

	// SaveChanges writes every graded card and the remaining selection, then
	// completes the session.
	//
	// Card writes run concurrently. Cards that fail stay pending and the
	// returned *SaveError lists them; calling SaveChanges again retries only
	// those cards.
	SaveChanges(ctx context.Context, session *Session) error
}
