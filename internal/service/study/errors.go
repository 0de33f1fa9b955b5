package study

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors returned by the study service and sessions.
var (
	// ErrNoActiveCard is returned when grading is attempted with an empty pool.
	ErrNoActiveCard = errors.New("no active card")

	// ErrSessionNotStarted is returned when a session that was never started
	// is graded or saved.
	ErrSessionNotStarted = errors.New("session not started")

	// ErrSessionCompleted is returned when a saved session is graded again.
	ErrSessionCompleted = errors.New("session already completed")

	// ErrSessionInProgress is returned when a deck already has a session
	// with unsaved changes.
	ErrSessionInProgress = errors.New("deck already has a session in progress")

	// ErrDeckNotFound is returned by repositories when the deck does not exist.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrInvalidMode is returned for an unknown study mode.
	ErrInvalidMode = errors.New("invalid study mode")
)

// CardWriteError reports that the repository rejected a card write.
type CardWriteError struct {
	CardID uuid.UUID
	Err    error
}

func (e *CardWriteError) Error() string {
	return fmt.Sprintf("repository write failed for card %s: %v", e.CardID, e.Err)
}

func (e *CardWriteError) Unwrap() error {
	return e.Err
}

// SessionWriteError reports that the repository rejected a session write.
type SessionWriteError struct {
	SessionID uuid.UUID
	Err       error
}

func (e *SessionWriteError) Error() string {
	return fmt.Sprintf("repository write failed for session %s: %v", e.SessionID, e.Err)
}

func (e *SessionWriteError) Unwrap() error {
	return e.Err
}

// SaveError aggregates every write failure of one SaveChanges call.
// Writes that succeeded are not rolled back.
type SaveError struct {
	Cards   []*CardWriteError
	Session *SessionWriteError
}

func (e *SaveError) Error() string {
	parts := make([]string, 0, len(e.Cards)+1)
	for _, c := range e.Cards {
		parts = append(parts, c.Error())
	}
	if e.Session != nil {
		parts = append(parts, e.Session.Error())
	}
	return fmt.Sprintf("save partially failed (%d errors): %s", len(parts), strings.Join(parts, "; "))
}

// Unwrap exposes every individual failure to errors.Is and errors.As.
func (e *SaveError) Unwrap() []error {
	errs := make([]error, 0, len(e.Cards)+1)
	for _, c := range e.Cards {
		errs = append(errs, c)
	}
	if e.Session != nil {
		errs = append(errs, e.Session)
	}
	return errs
}

// FailedCardIDs returns the ids of the cards that could not be written.
func (e *SaveError) FailedCardIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(e.Cards))
	for _, c := range e.Cards {
		ids = append(ids, c.CardID)
	}
	return ids
}

// ServiceError wraps errors from the study service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "startup", "save_changes")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newStartupError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "startup", Message: message, Err: err}
}
