package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session-specific validation errors
var (
	// ErrSessionIDEmpty is returned when a session ID is empty or nil.
	ErrSessionIDEmpty = errors.New("session ID cannot be empty")

	// ErrSessionDeckIDEmpty is returned when a session's deck ID is empty or nil.
	ErrSessionDeckIDEmpty = errors.New("session deck ID cannot be empty")

	// ErrSessionDateEmpty is returned when a session has no selection date.
	ErrSessionDateEmpty = errors.New("session date cannot be empty")
)

// Session is the set of cards selected for one deck on one study day.
type Session struct {
	ID      uuid.UUID   `json:"id"`
	DeckID  uuid.UUID   `json:"deck_id"`
	CardIDs []uuid.UUID `json:"card_ids"`
	Date    time.Time   `json:"date"`
}

// NewSession creates a session for the deck dated to the UTC day of date.
func NewSession(id, deckID uuid.UUID, cardIDs []uuid.UUID, date time.Time) (*Session, error) {
	session := &Session{
		ID:      id,
		DeckID:  deckID,
		CardIDs: cardIDs,
		Date:    DayStart(date),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the Session has valid data.
func (s *Session) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}
	if s.DeckID == uuid.Nil {
		return ErrSessionDeckIDEmpty
	}
	if s.Date.IsZero() {
		return ErrSessionDateEmpty
	}
	return nil
}

// RemoveCard drops the card from the session, preserving order.
func (s *Session) RemoveCard(cardID uuid.UUID) {
	kept := make([]uuid.UUID, 0, len(s.CardIDs))
	for _, id := range s.CardIDs {
		if id != cardID {
			kept = append(kept, id)
		}
	}
	s.CardIDs = kept
}
