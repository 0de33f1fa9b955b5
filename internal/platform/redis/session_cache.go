package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/birdapp/woodpecker/internal/config"
	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/birdapp/woodpecker/internal/store"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every key written by the cache.
const KeyPrefix = "woodpecker:session:"

// Client is the subset of the go-redis client used by SessionCache.
type Client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// SessionCache implements store.SessionCache on Redis.
type SessionCache struct {
	client Client
	now    func() time.Time
	logger *slog.Logger
}

// NewSessionCache creates a cache over client.
// If logger is nil, a default logger will be used.
func NewSessionCache(client Client, logger *slog.Logger) *SessionCache {
	if client == nil {
		panic("client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionCache{
		client: client,
		now:    time.Now,
		logger: logger.With(slog.String("component", "session_cache")),
	}
}

var _ store.SessionCache = (*SessionCache)(nil)

// NewClient connects to the configured Redis server and pings it.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func sessionKey(deckID uuid.UUID) string {
	return KeyPrefix + deckID.String()
}

// Get implements store.SessionCache.Get
func (c *SessionCache) Get(ctx context.Context, deckID uuid.UUID) (*domain.Session, bool, error) {
	raw, err := c.client.Get(ctx, sessionKey(deckID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		c.logger.Warn("dropping undecodable cached session",
			slog.String("deck_id", deckID.String()),
			slog.String("error", err.Error()))
		_ = c.client.Del(ctx, sessionKey(deckID)).Err()
		return nil, false, nil
	}
	return &session, true, nil
}

// Set implements store.SessionCache.Set
// Sessions from an earlier day are not cached.
func (c *SessionCache) Set(ctx context.Context, session *domain.Session) error {
	now := c.now().UTC()
	if !domain.IsSameDay(session.Date, now) {
		return nil
	}
	ttl := domain.NextDayStart(now).Sub(now)

	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := c.client.Set(ctx, sessionKey(session.DeckID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache session: %w", err)
	}
	return nil
}

// Invalidate implements store.SessionCache.Invalidate
func (c *SessionCache) Invalidate(ctx context.Context, deckID uuid.UUID) error {
	if err := c.client.Del(ctx, sessionKey(deckID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached session: %w", err)
	}
	return nil
}
