package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeClient() *fakeClient {
	return &fakeClient{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeClient) Get(_ context.Context, key string) *goredis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return goredis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeClient) Set(_ context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return goredis.NewStatusResult("", f.err)
	}
	f.values[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return goredis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func newTestCache(client Client, now time.Time) *SessionCache {
	cache := NewSessionCache(client, nil)
	cache.now = func() time.Time { return now }
	return cache
}

func TestSessionCacheRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 10, 18, 0, 0, 0, time.UTC)
	client := newFakeClient()
	cache := newTestCache(client, now)
	ctx := context.Background()

	session, err := domain.NewSession(uuid.New(), uuid.New(), []uuid.UUID{uuid.New(), uuid.New()}, now)
	require.NoError(t, err)

	_, ok, err := cache.Get(ctx, session.DeckID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, session))
	assert.Equal(t, 6*time.Hour, client.ttls[sessionKey(session.DeckID)])

	cached, ok, err := cache.Get(ctx, session.DeckID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, session.ID, cached.ID)
	assert.Equal(t, session.CardIDs, cached.CardIDs)
	assert.True(t, session.Date.Equal(cached.Date))

	require.NoError(t, cache.Invalidate(ctx, session.DeckID))
	_, ok, err = cache.Get(ctx, session.DeckID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionCacheSkipsStaleSessions(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 10, 0, 30, 0, 0, time.UTC)
	client := newFakeClient()
	cache := newTestCache(client, now)

	session, err := domain.NewSession(uuid.New(), uuid.New(), nil, now.Add(-time.Hour))
	require.NoError(t, err)

	require.NoError(t, cache.Set(context.Background(), session))
	assert.Empty(t, client.values)
}

func TestSessionCacheErrors(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	client := newFakeClient()
	client.err = errors.New("connection refused")
	cache := newTestCache(client, now)
	ctx := context.Background()

	_, _, err := cache.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, client.err)

	session, _ := domain.NewSession(uuid.New(), uuid.New(), nil, now)
	assert.ErrorIs(t, cache.Set(ctx, session), client.err)
	assert.ErrorIs(t, cache.Invalidate(ctx, uuid.New()), client.err)
}

func TestSessionCacheDropsGarbage(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	cache := newTestCache(client, time.Now())
	deckID := uuid.New()
	client.values[sessionKey(deckID)] = "{not json"

	_, ok, err := cache.Get(context.Background(), deckID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotContains(t, client.values, sessionKey(deckID))
}
