package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/birdapp/woodpecker/internal/service/study"
	"github.com/birdapp/woodpecker/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "partial save",
			err:         &study.SaveError{Cards: []*study.CardWriteError{{CardID: uuid.New(), Err: errors.New("timeout")}}},
			wantStatus:  http.StatusMultiStatus,
			wantMessage: "Some changes could not be saved",
		},
		{
			name:        "deck not found",
			err:         study.ErrDeckNotFound,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Deck not found",
		},
		{
			name:        "card not found from store",
			err:         store.NewStoreError("card", "update", "no rows", store.ErrCardNotFound),
			wantStatus:  http.StatusNotFound,
			wantMessage: "Card not found",
		},
		{
			name:        "session not found from store",
			err:         fmt.Errorf("edit session: %w", store.ErrSessionNotFound),
			wantStatus:  http.StatusNotFound,
			wantMessage: "Resource not found",
		},
		{
			name:        "concurrent session create",
			err:         store.NewStoreError("session", "create", "database error", store.ErrDuplicate),
			wantStatus:  http.StatusConflict,
			wantMessage: "Conflicting change, please retry",
		},
		{
			name:        "session in progress",
			err:         study.ErrSessionInProgress,
			wantStatus:  http.StatusConflict,
			wantMessage: "A study session is already in progress for this deck",
		},
		{
			name:        "bad grade",
			err:         fmt.Errorf("%w: %q", domain.ErrInvalidGrade, "great"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid grade",
		},
		{
			name:        "driver failure",
			err:         store.NewStoreError("card", "update", "database error", errors.New("connection reset")),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, MapErrorToStatusCode(tt.err))
			assert.Equal(t, tt.wantMessage, GetSafeErrorMessage(tt.err))
		})
	}
}
