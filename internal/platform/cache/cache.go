// Package cache keeps the session state of each account (last logout and,
// for customers, whether they are banned) in Redis so the session guard does
// not hit Postgres on every authenticated request.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

// neverLoggedOut is stored for accounts without a logout so that the
// absence is cached too.
const neverLoggedOut = "never"

// NewRedisClient connects to Redis and verifies the connection with PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
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

// Session is the cached part of an account needed to authorize a request.
type Session struct {
	LastLogout *time.Time
	Banned     bool
}

// SessionCache stores Session values with a TTL. Entries outlive every token
// that could still be checked against them when the TTL is the refresh token
// lifetime.
type SessionCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewSessionCache creates a cache over rdb.
func NewSessionCache(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *SessionCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionCache{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "session_cache")),
	}
}

func key(role domain.Role, id int64) string {
	return fmt.Sprintf("storefront:session:%s:%d", role, id)
}

// encode renders a session as "<unix seconds|never>:<0|1>".
func encode(s Session) string {
	logout := neverLoggedOut
	if s.LastLogout != nil {
		logout = strconv.FormatInt(s.LastLogout.Unix(), 10)
	}
	banned := "0"
	if s.Banned {
		banned = "1"
	}
	return logout + ":" + banned
}

func decode(val string) (Session, bool) {
	logout, banned, ok := strings.Cut(val, ":")
	if !ok || (banned != "0" && banned != "1") {
		return Session{}, false
	}
	s := Session{Banned: banned == "1"}
	if logout == neverLoggedOut {
		return s, true
	}
	unix, err := strconv.ParseInt(logout, 10, 64)
	if err != nil {
		return Session{}, false
	}
	t := time.Unix(unix, 0).UTC()
	s.LastLogout = &t
	return s, true
}

// Get returns the cached session. found is false on a cache miss, and
// malformed entries count as misses.
func (c *SessionCache) Get(ctx context.Context, role domain.Role, id int64) (session Session, found bool, err error) {
	val, err := c.rdb.Get(ctx, key(role, id)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("redis get: %w", err)
	}

	session, ok := decode(val)
	if !ok {
		c.logger.Warn("discarding malformed cache entry",
			slog.String("key", key(role, id)),
			slog.String("value", val))
		return Session{}, false, nil
	}
	return session, true, nil
}

// Add caches the session only if the account has no entry yet. It reports
// whether the entry was written. Read-through fills use Add so that a fill
// computed from a stale read never replaces state written by Set.
func (c *SessionCache) Add(ctx context.Context, role domain.Role, id int64, session Session) (bool, error) {
	added, err := c.rdb.SetNX(ctx, key(role, id), encode(session), c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return added, nil
}

// Set caches the session for the account, replacing any existing entry.
func (c *SessionCache) Set(ctx context.Context, role domain.Role, id int64, session Session) error {
	if err := c.rdb.Set(ctx, key(role, id), encode(session), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate drops the cached session so the next lookup reads the database.
func (c *SessionCache) Invalidate(ctx context.Context, role domain.Role, id int64) error {
	if err := c.rdb.Del(ctx, key(role, id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
