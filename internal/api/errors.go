package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/birdapp/woodpecker/internal/api/shared"
	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/birdapp/woodpecker/internal/service/study"
	"github.com/birdapp/woodpecker/internal/store"
)

// ErrNoStudySession is returned when a deck has no registered session.
var ErrNoStudySession = errors.New("no study session for deck")

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var saveErr *study.SaveError

	switch {
	// Partial saves are reported per card
	case errors.As(err, &saveErr):
		return http.StatusMultiStatus

	// Not found errors
	case errors.Is(err, study.ErrDeckNotFound),
		store.IsNotFoundError(err),
		errors.Is(err, ErrNoStudySession):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, study.ErrSessionInProgress),
		store.IsDuplicateError(err),
		errors.Is(err, study.ErrSessionCompleted),
		errors.Is(err, study.ErrSessionNotStarted),
		errors.Is(err, study.ErrNoActiveCard):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidGrade),
		errors.Is(err, study.ErrInvalidMode),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var saveErr *study.SaveError

	switch {
	case errors.As(err, &saveErr):
		return "Some changes could not be saved"

	case errors.Is(err, study.ErrDeckNotFound),
		errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, ErrNoStudySession):
		return "No study session for this deck"

	case errors.Is(err, study.ErrSessionInProgress):
		return "A study session is already in progress for this deck"

	case errors.Is(err, study.ErrSessionCompleted):
		return "Study session already completed"

	case errors.Is(err, study.ErrSessionNotStarted):
		return "Study session not started"

	case errors.Is(err, study.ErrNoActiveCard):
		return "No card left to study"

	case errors.Is(err, domain.ErrInvalidGrade):
		return "Invalid grade"

	case errors.Is(err, study.ErrInvalidMode):
		return "Invalid study mode"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"

	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case store.IsNotFoundError(err):
		return "Resource not found"

	case store.IsDuplicateError(err):
		return "Conflicting change, please retry"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// fallback replaces the generic message for internal server errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'AnswerRequest.Grade' Error:Field validation for 'Grade' failed on the 'oneof' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
