package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Scheduling defaults for new cards.
const (
	// DefaultEaseFactor is the ease factor a card starts with.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the hard floor for any card's ease factor.
	MinEaseFactor = 1.3
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardDeckIDEmpty is returned when a card's deck ID is empty or nil.
	ErrCardDeckIDEmpty = errors.New("card deck ID cannot be empty")

	// ErrCardFrontEmpty is returned when a card has no front text.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrInvalidEaseFactor is returned when a card's ease factor is below the floor.
	ErrInvalidEaseFactor = errors.New("ease factor must be at least 1.3")

	// ErrInvalidInterval is returned when a card's interval is negative.
	ErrInvalidInterval = errors.New("interval must be greater than or equal to 0")

	// ErrInvalidStreak is returned when a card's streak is negative.
	ErrInvalidStreak = errors.New("streak must be greater than or equal to 0")
)

// LearningState is the mutable scheduling metadata of a card.
//
// While IsGraduated is false the card climbs the step ladder; once graduated
// it is scheduled by Interval and EaseFactor and DueDate becomes meaningful.
type LearningState struct {
	Step             int        `json:"step"`
	IsGraduated      bool       `json:"is_graduated"`
	EaseFactor       float64    `json:"ease_factor"`
	Streak           int        `json:"streak"`
	Interval         int        `json:"interval"` // days
	HasBeenPresented bool       `json:"has_been_presented"`
	DueDate          *time.Time `json:"due_date,omitempty"`
}

// NewLearningState returns the state of a card that has never been studied.
func NewLearningState() LearningState {
	return LearningState{EaseFactor: DefaultEaseFactor}
}

// Validate checks the structural invariants of the state.
func (s LearningState) Validate() error {
	if s.Step < 0 {
		return ErrInvalidStep
	}
	if s.IsGraduated && s.Step != 0 {
		return ErrStepNotZero
	}
	if s.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}
	if s.Interval < 0 {
		return ErrInvalidInterval
	}
	if s.Streak < 0 {
		return ErrInvalidStreak
	}
	return nil
}

// IsDue reports whether a graduated card is due on the UTC day of today.
// A due date earlier than today counts as due. Learning cards are never due.
func (s LearningState) IsDue(today time.Time) bool {
	if !s.IsGraduated || s.DueDate == nil {
		return false
	}
	return !DayStart(*s.DueDate).After(DayStart(today))
}

// CardSnapshot records the state of a card just before a grade was applied.
type CardSnapshot struct {
	State LearningState `json:"state"`
	Grade UserGrade     `json:"grade"`
	Date  time.Time     `json:"date"`
}

// Card is a flashcard belonging to a deck, together with its scheduling state
// and the append-only log of graded snapshots.
type Card struct {
	ID        uuid.UUID      `json:"id"`
	DeckID    uuid.UUID      `json:"deck_id"`
	Front     string         `json:"front"`
	Back      string         `json:"back"`
	State     LearningState  `json:"state"`
	History   []CardSnapshot `json:"history"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewCard creates a new, never studied card in the given deck.
// Returns an error if validation fails.
func NewCard(deckID uuid.UUID, front, back string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:        uuid.New(),
		DeckID:    deckID,
		Front:     front,
		Back:      back,
		State:     NewLearningState(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}
	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}
	if c.Front == "" {
		return ErrCardFrontEmpty
	}
	return c.State.Validate()
}

// Clone returns a deep copy of the card. The history slice and due date are
// copied so the clone can be mutated without touching the original.
func (c *Card) Clone() *Card {
	clone := *c
	if c.State.DueDate != nil {
		due := *c.State.DueDate
		clone.State.DueDate = &due
	}
	if c.History != nil {
		clone.History = make([]CardSnapshot, len(c.History))
		copy(clone.History, c.History)
	}
	return &clone
}

// AppendHistory records a snapshot of the current state taken before grade
// is applied. History is append-only.
func (c *Card) AppendHistory(grade UserGrade, at time.Time) {
	snapshot := CardSnapshot{State: c.State, Grade: grade, Date: at}
	if c.State.DueDate != nil {
		due := *c.State.DueDate
		snapshot.State.DueDate = &due
	}
	c.History = append(c.History, snapshot)
}

// LastGradedAt returns the date of the most recent snapshot.
func (c *Card) LastGradedAt() (time.Time, bool) {
	if len(c.History) == 0 {
		return time.Time{}, false
	}
	return c.History[len(c.History)-1].Date, true
}
