package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Study event types.
const (
	// TypeCardGraduated is emitted when a learning card leaves the step ladder.
	TypeCardGraduated = "card_graduated"

	// TypeCardLapsed is emitted when a graduated card is demoted back to learning.
	TypeCardLapsed = "card_lapsed"

	// TypeSessionSaved is emitted after a study session has been flushed,
	// whether or not every write succeeded.
	TypeSessionSaved = "session_saved"
)

// StudyEvent is a notification about something that happened during a study
// session. Payload carries a type specific JSON document.
type StudyEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// DeckID is the deck the session belongs to
	DeckID uuid.UUID `json:"deck_id"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// CardPayload is the payload of card_graduated and card_lapsed events.
type CardPayload struct {
	CardID     uuid.UUID `json:"card_id"`
	Grade      string    `json:"grade"`
	EaseFactor float64   `json:"ease_factor"`
	Interval   int       `json:"interval"`
}

// SessionSavedPayload is the payload of session_saved events.
type SessionSavedPayload struct {
	SessionID     uuid.UUID   `json:"session_id"`
	SavedCards    int         `json:"saved_cards"`
	FailedCardIDs []uuid.UUID `json:"failed_card_ids,omitempty"`
	RemainingIDs  int         `json:"remaining_ids"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *StudyEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewStudyEvent creates a new StudyEvent with the specified type and payload.
func NewStudyEvent(eventType string, deckID uuid.UUID, payload any) (*StudyEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &StudyEvent{
		ID:        uuid.New(),
		Type:      eventType,
		DeckID:    deckID,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *StudyEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *StudyEvent) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *StudyEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *StudyEvent) error {
	return f(ctx, event)
}
