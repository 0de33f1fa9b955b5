package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/birdapp/woodpecker/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardRow(card *domain.Card, history string) []any {
	var due any
	if card.State.DueDate != nil {
		due = *card.State.DueDate
	}
	return []any{
		card.ID.String(),
		card.DeckID.String(),
		card.Front,
		card.Back,
		card.State.Step,
		card.State.IsGraduated,
		card.State.EaseFactor,
		card.State.Streak,
		card.State.Interval,
		card.State.HasBeenPresented,
		due,
		[]byte(history),
		card.CreatedAt,
		card.UpdatedAt,
	}
}

func TestCardStoreListByDeck(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	cardStore := NewPostgresCardStore(db, nil)

	deckID := uuid.New()
	created := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	due := time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)

	fresh := &domain.Card{ID: uuid.New(), DeckID: deckID, Front: "ame", Back: "rain",
		State: domain.NewLearningState(), CreatedAt: created, UpdatedAt: created}
	veteran := &domain.Card{ID: uuid.New(), DeckID: deckID, Front: "yuki", Back: "snow",
		State: domain.LearningState{IsGraduated: true, EaseFactor: 2.6, Streak: 2, Interval: 6,
			HasBeenPresented: true, DueDate: &due},
		CreatedAt: created, UpdatedAt: created}

	rows := sqlmock.NewRows(cardColumns).
		AddRow(cardRow(fresh, "[]")...).
		AddRow(cardRow(veteran,
			`[{"state":{"step":0,"is_graduated":true,"ease_factor":2.5,"streak":1,"interval":1,"has_been_presented":true},"grade":"correct","date":"2024-03-06T10:00:00Z"}]`)...)

	mock.ExpectQuery(regexp.QuoteMeta("FROM cards WHERE deck_id = $1 ORDER BY created_at ASC, id ASC")).
		WithArgs(deckID).
		WillReturnRows(rows)

	cards, err := cardStore.ListByDeck(context.Background(), deckID)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	assert.Equal(t, fresh.ID, cards[0].ID)
	assert.Nil(t, cards[0].State.DueDate)
	assert.Empty(t, cards[0].History)

	assert.True(t, cards[1].State.IsGraduated)
	require.NotNil(t, cards[1].State.DueDate)
	assert.Equal(t, due, *cards[1].State.DueDate)
	require.Len(t, cards[1].History, 1)
	assert.Equal(t, domain.GradeCorrect, cards[1].History[0].Grade)
}

func TestCardStoreUpdate(t *testing.T) {
	t.Parallel()

	card, err := domain.NewCard(uuid.New(), "kaze", "wind")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE cards SET front = $1")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewPostgresCardStore(db, nil).Update(context.Background(), card))
	})

	t.Run("missing card", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE cards")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPostgresCardStore(db, nil).Update(context.Background(), card)
		assert.ErrorIs(t, err, store.ErrCardNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})

	t.Run("invalid card never reaches the database", func(t *testing.T) {
		db, _ := newMockDB(t)
		broken := card.Clone()
		broken.State.EaseFactor = 1.0

		err := NewPostgresCardStore(db, nil).Update(context.Background(), broken)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("driver failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		boom := errors.New("connection reset by peer")
		mock.ExpectExec(regexp.QuoteMeta("UPDATE cards")).WillReturnError(boom)

		err := NewPostgresCardStore(db, nil).Update(context.Background(), card)
		assert.ErrorIs(t, err, boom)

		var storeErr *store.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "card", storeErr.Entity)
		assert.Equal(t, "update", storeErr.Operation)
	})
}

func TestCardStoreGetByIDNotFound(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("FROM cards WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(cardColumns))

	_, err := NewPostgresCardStore(db, nil).GetByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestNewStoresPanicOnNilDB(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewPostgresCardStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresDeckStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresSessionStore(nil, nil) })
	assert.Panics(t, func() { NewRepository(nil, nil) })
}
