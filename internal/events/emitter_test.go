package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/birdapp/woodpecker/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler remembers the events it receives.
type recordingHandler struct {
	events []*StudyEvent
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *StudyEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func TestNewStudyEvent(t *testing.T) {
	t.Parallel()

	deckID := uuid.New()
	cardID := uuid.New()
	event, err := NewStudyEvent(TypeCardGraduated, deckID, CardPayload{CardID: cardID, Grade: "correctEasy", Interval: 1})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeCardGraduated, event.Type)
	assert.Equal(t, deckID, event.DeckID)

	var payload CardPayload
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, cardID, payload.CardID)
	assert.Equal(t, "correctEasy", payload.Grade)

	_, err = NewStudyEvent(TypeSessionSaved, deckID, make(chan int))
	assert.Error(t, err)
}

func TestInMemoryEventEmitter(t *testing.T) {
	t.Parallel()

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	event, err := NewStudyEvent(TypeSessionSaved, uuid.New(), SessionSavedPayload{SavedCards: 2})
	require.NoError(t, err)

	t.Run("no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(discard)
		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("every handler receives the event", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(discard)
		first, second := &recordingHandler{}, &recordingHandler{}
		emitter.RegisterHandler(first)
		emitter.RegisterHandler(second)

		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, []*StudyEvent{event}, first.events)
		assert.Equal(t, []*StudyEvent{event}, second.events)
	})

	t.Run("a failing handler does not stop the others", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(discard)
		failErr := errors.New("handler failed")
		failing := &recordingHandler{err: failErr}
		after := &recordingHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(HandlerFunc(func(context.Context, *StudyEvent) error {
			return errors.New("second failure")
		}))
		emitter.RegisterHandler(after)

		err := emitter.EmitEvent(context.Background(), event)
		assert.ErrorIs(t, err, failErr)
		assert.Len(t, after.events, 1)
	})
}

func TestLoggingHandler(t *testing.T) {
	t.Parallel()

	log, buf := logger.GetTestLogger(t)
	deckID := uuid.New()
	event, err := NewStudyEvent(TypeCardLapsed, deckID, CardPayload{Grade: "wrongHard"})
	require.NoError(t, err)

	require.NoError(t, NewLoggingHandler(log).HandleEvent(context.Background(), event))

	logger.AssertLogField(t, buf, "event_type", TypeCardLapsed)
	logger.AssertLogField(t, buf, "deck_id", deckID.String())
	logger.AssertLogField(t, buf, "component", "study_events")
}
