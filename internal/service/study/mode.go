package study

import "fmt"

// Mode selects how a session picks and grades its cards.
type Mode string

const (
	// ModeSpaced studies today's selection and persists the results.
	ModeSpaced Mode = "spaced"

	// ModeCramming drills every card of the deck on the step ladder only.
	// Cramming never changes stored schedules.
	ModeCramming Mode = "cramming"
)

// ParseMode parses a mode name. The empty string selects ModeSpaced.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeSpaced:
		return ModeSpaced, nil
	case ModeCramming:
		return ModeCramming, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// State is the lifecycle state of a Session.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
