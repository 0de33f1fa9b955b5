package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidGrade is returned when a user grade is outside the known range.
	ErrInvalidGrade = errors.New("invalid user grade")
)

// Scheduling errors. These are pure validation failures raised by the
// scheduling algorithms and are never retried internally.
var (
	// ErrInvalidStep is returned when a learning step is negative.
	ErrInvalidStep = errors.New("learning step cannot be negative")

	// ErrInsufficientSteps is returned when a ladder has fewer than two steps.
	ErrInsufficientSteps = errors.New("number of steps must be at least 2")

	// ErrNotGraduated is returned when a review is applied to a card that is
	// still in the learning phase.
	ErrNotGraduated = errors.New("card is not graduated")

	// ErrStepNotZero is returned when a graduated card has a non-zero step.
	ErrStepNotZero = errors.New("graduated card must be at step 0")

	// ErrInvalidCapacityConfig is returned when a daily selection is attempted
	// with no review capacity.
	ErrInvalidCapacityConfig = errors.New("max reviewing cards must be greater than 0")
)

// ValidationError describes a single invalid field of a domain entity.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
