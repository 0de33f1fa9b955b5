package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Deck-specific validation errors
var (
	// ErrDeckIDEmpty is returned when a deck ID is empty or nil.
	ErrDeckIDEmpty = errors.New("deck ID cannot be empty")

	// ErrDeckNameEmpty is returned when a deck has no name.
	ErrDeckNameEmpty = errors.New("deck name cannot be empty")

	// ErrInvalidLearningCapacity is returned when the learning cap is negative.
	ErrInvalidLearningCapacity = errors.New("max learning cards cannot be negative")
)

// SpacedRepetitionConfig holds the per-deck scheduling limits.
type SpacedRepetitionConfig struct {
	MaxLearningCards  int `json:"max_learning_cards"`
	MaxReviewingCards int `json:"max_reviewing_cards"`
	NumberOfSteps     int `json:"number_of_steps"`
}

// DefaultSpacedRepetitionConfig returns the configuration new decks start with.
func DefaultSpacedRepetitionConfig() SpacedRepetitionConfig {
	return SpacedRepetitionConfig{
		MaxLearningCards:  10,
		MaxReviewingCards: 20,
		NumberOfSteps:     3,
	}
}

// IsZero reports whether no limit has been configured.
func (c SpacedRepetitionConfig) IsZero() bool {
	return c == SpacedRepetitionConfig{}
}

// Validate checks that the configuration can drive a daily selection.
func (c SpacedRepetitionConfig) Validate() error {
	if c.MaxLearningCards < 0 {
		return ErrInvalidLearningCapacity
	}
	if c.MaxReviewingCards <= 0 {
		return ErrInvalidCapacityConfig
	}
	if c.NumberOfSteps < 2 {
		return ErrInsufficientSteps
	}
	return nil
}

// Deck groups cards that are studied together under one configuration.
// Session is nil when no session has ever been stored for the deck.
type Deck struct {
	ID        uuid.UUID              `json:"id"`
	Name      string                 `json:"name"`
	Config    SpacedRepetitionConfig `json:"config"`
	Session   *Session               `json:"session,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// NewDeck creates a deck with the given name and configuration.
func NewDeck(name string, cfg SpacedRepetitionConfig) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		ID:        uuid.New(),
		Name:      name,
		Config:    cfg,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data. A zero config is allowed and
// means the deck uses the server defaults.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}
	if d.Name == "" {
		return ErrDeckNameEmpty
	}
	if d.Config.IsZero() {
		return nil
	}
	return d.Config.Validate()
}
