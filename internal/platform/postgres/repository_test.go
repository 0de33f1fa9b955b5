package postgres

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/birdapp/woodpecker/internal/service/study"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache is a store.SessionCache backed by a map.
type memoryCache struct {
	mu          sync.Mutex
	sessions    map[uuid.UUID]*domain.Session
	getErr      error
	invalidated []uuid.UUID
}

func newMemoryCache() *memoryCache {
	return &memoryCache{sessions: make(map[uuid.UUID]*domain.Session)}
}

func (c *memoryCache) Get(_ context.Context, deckID uuid.UUID) (*domain.Session, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	s, ok := c.sessions[deckID]
	return s, ok, nil
}

func (c *memoryCache) Set(_ context.Context, session *domain.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[session.DeckID] = session
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, deckID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, deckID)
	c.invalidated = append(c.invalidated, deckID)
	return nil
}

var testDate = time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

func expectDeck(mock sqlmock.Sqlmock, deckID uuid.UUID) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM decks WHERE id = $1")).
		WithArgs(deckID).
		WillReturnRows(sqlmock.NewRows(deckColumns).
			AddRow(deckID.String(), "Hiragana", 10, 20, 3, testDate, testDate))
}

func TestRepositoryFetchDeckNotFound(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	deckID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("FROM decks")).
		WillReturnRows(sqlmock.NewRows(deckColumns))

	_, err := NewRepository(db, nil).FetchDeck(context.Background(), deckID)
	assert.ErrorIs(t, err, study.ErrDeckNotFound)
}

func TestRepositoryFetchDeckWithoutSession(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	deckID := uuid.New()
	expectDeck(mock, deckID)
	mock.ExpectQuery(regexp.QuoteMeta("FROM sessions WHERE deck_id = $1")).
		WillReturnRows(sqlmock.NewRows(sessionColumns))

	deck, err := NewRepository(db, nil).FetchDeck(context.Background(), deckID)
	require.NoError(t, err)
	assert.Equal(t, "Hiragana", deck.Name)
	assert.Equal(t, domain.DefaultSpacedRepetitionConfig(), deck.Config)
	assert.Nil(t, deck.Session)
}

func TestRepositoryFetchDeckReadsThroughCache(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	cache := newMemoryCache()
	repo := NewRepository(db, nil, WithSessionCache(cache))

	deckID, sessionID := uuid.New(), uuid.New()

	// miss: loaded from the database and cached
	expectDeck(mock, deckID)
	mock.ExpectQuery(regexp.QuoteMeta("FROM sessions WHERE deck_id = $1")).
		WillReturnRows(sqlmock.NewRows(sessionColumns).
			AddRow(sessionID.String(), deckID.String(), []byte("[]"), testDate))

	deck, err := repo.FetchDeck(context.Background(), deckID)
	require.NoError(t, err)
	require.NotNil(t, deck.Session)
	assert.Equal(t, sessionID, deck.Session.ID)

	// hit: no session query
	expectDeck(mock, deckID)
	deck, err = repo.FetchDeck(context.Background(), deckID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, deck.Session.ID)
}

func TestRepositoryFetchDeckIgnoresCacheErrors(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	cache := newMemoryCache()
	cache.getErr = errors.New("redis: connection refused")
	repo := NewRepository(db, nil, WithSessionCache(cache))

	deckID := uuid.New()
	expectDeck(mock, deckID)
	mock.ExpectQuery(regexp.QuoteMeta("FROM sessions")).
		WillReturnRows(sqlmock.NewRows(sessionColumns))

	deck, err := repo.FetchDeck(context.Background(), deckID)
	require.NoError(t, err)
	assert.Nil(t, deck.Session)
}

func TestRepositorySessionWritesLockTheDeck(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	cache := newMemoryCache()
	repo := NewRepository(db, nil, WithSessionCache(cache))

	session, err := domain.NewSession(uuid.New(), uuid.New(), []uuid.UUID{uuid.New()}, testDate)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockDeckQuery)).
		WithArgs(session.DeckID.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateSession(context.Background(), session))
	assert.Equal(t, []uuid.UUID{session.DeckID}, cache.invalidated)
}

func TestRepositoryEditSessionRollsBack(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	cache := newMemoryCache()
	repo := NewRepository(db, nil, WithSessionCache(cache))

	session, err := domain.NewSession(uuid.New(), uuid.New(), nil, testDate)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockDeckQuery)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sessions SET card_ids = $1, session_date = $2 WHERE id = $3")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = repo.EditSession(context.Background(), session)
	assert.Error(t, err)
	assert.Empty(t, cache.invalidated)
}

func TestRepositoryDeleteSessionToleratesMissing(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	session, err := domain.NewSession(uuid.New(), uuid.New(), nil, testDate)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockDeckQuery)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE id = $1")).
		WithArgs(session.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.NoError(t, NewRepository(db, nil).DeleteSession(context.Background(), session))
}

func TestRepositoryCardWrites(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewRepository(db, nil)
	card, err := domain.NewCard(uuid.New(), "hana", "flower")
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE cards")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cards WHERE id = $1")).
		WithArgs(card.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.EditCard(context.Background(), card))
	require.NoError(t, repo.DeleteCard(context.Background(), card))
}
