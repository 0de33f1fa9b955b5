package api

import (
	"time"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/birdapp/woodpecker/internal/service/study"
	"github.com/google/uuid"
)

// StartSessionRequest defines the payload for starting a study session.
// An empty body starts a spaced session.
type StartSessionRequest struct {
	Mode string `json:"mode" validate:"omitempty,oneof=spaced cramming"`
}

// AnswerRequest defines the payload for grading the active card.
type AnswerRequest struct {
	Grade string `json:"grade" validate:"required,oneof=wrongHard wrong correct correctEasy"`
}

// CardResponse represents a card shown to the learner.
type CardResponse struct {
	ID               uuid.UUID  `json:"id"`
	Front            string     `json:"front"`
	Back             string     `json:"back"`
	Step             int        `json:"step"`
	IsGraduated      bool       `json:"is_graduated"`
	EaseFactor       float64    `json:"ease_factor"`
	Streak           int        `json:"streak"`
	Interval         int        `json:"interval"`
	HasBeenPresented bool       `json:"has_been_presented"`
	DueDate          *time.Time `json:"due_date,omitempty"`
}

// SessionResponse describes the state of a deck's study session.
type SessionResponse struct {
	// SessionID is uuid.Nil for cramming sessions, which are never stored
	SessionID uuid.UUID `json:"session_id,omitempty"`
	DeckID    uuid.UUID `json:"deck_id"`
	Mode      string    `json:"mode"`
	State     string    `json:"state"`

	Progress study.Progress `json:"progress"`

	// DisplayedCards holds at most two cards; the last one is active
	DisplayedCards []CardResponse `json:"displayed_cards"`

	PendingChanges bool `json:"pending_changes"`
}

// AnswerResponse is returned after grading a card.
type AnswerResponse struct {
	Result  study.AnswerResult `json:"result"`
	Session SessionResponse    `json:"session"`
}

// SaveResponse is returned by the save endpoint. FailedCardIDs lists cards
// that stay pending after a partial save.
type SaveResponse struct {
	Session       SessionResponse `json:"session"`
	FailedCardIDs []uuid.UUID     `json:"failed_card_ids,omitempty"`
	SessionSaved  bool            `json:"session_saved"`
}

func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:               card.ID,
		Front:            card.Front,
		Back:             card.Back,
		Step:             card.State.Step,
		IsGraduated:      card.State.IsGraduated,
		EaseFactor:       card.State.EaseFactor,
		Streak:           card.State.Streak,
		Interval:         card.State.Interval,
		HasBeenPresented: card.State.HasBeenPresented,
		DueDate:          card.State.DueDate,
	}
}

func sessionToResponse(session *study.Session) SessionResponse {
	displayed := session.DisplayedCards()
	cards := make([]CardResponse, 0, len(displayed))
	for _, card := range displayed {
		cards = append(cards, cardToResponse(card))
	}

	return SessionResponse{
		SessionID:      session.ID(),
		DeckID:         session.DeckID(),
		Mode:           string(session.Mode()),
		State:          session.State().String(),
		Progress:       session.Progress(),
		DisplayedCards: cards,
		PendingChanges: session.HasPendingChanges(),
	}
}
