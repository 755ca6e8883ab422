package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*SessionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSessionCache(rdb, ttl, nil), mr
}

func TestSessionCacheRoundTrip(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	_, found, err := c.Get(ctx, domain.RoleCustomer, 1)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, domain.RoleCustomer, 1, Session{}))
	got, found, err := c.Get(ctx, domain.RoleCustomer, 1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Nil(t, got.LastLogout)
	assert.False(t, got.Banned)

	logout := time.Date(2025, 6, 1, 8, 30, 15, 900, time.UTC)
	require.NoError(t, c.Set(ctx, domain.RoleCustomer, 1, Session{LastLogout: &logout, Banned: true}))
	got, found, err = c.Get(ctx, domain.RoleCustomer, 1)
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, got.LastLogout)
	assert.Equal(t, logout.Truncate(time.Second), *got.LastLogout)
	assert.True(t, got.Banned)

	_, found, err = c.Get(ctx, domain.RoleAdmin, 1)
	require.NoError(t, err)
	assert.False(t, found, "roles use separate keys")
}

func TestSessionCacheInvalidate(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, domain.RoleCustomer, 2, Session{Banned: true}))
	require.NoError(t, c.Invalidate(ctx, domain.RoleCustomer, 2))

	_, found, err := c.Get(ctx, domain.RoleCustomer, 2)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, c.Invalidate(ctx, domain.RoleCustomer, 99), "deleting a missing key is not an error")
}

func TestSessionCacheAddKeepsExistingEntry(t *testing.T) {
	t.Parallel()

	c, mr := newTestCache(t, time.Hour)
	ctx := context.Background()

	added, err := c.Add(ctx, domain.RoleCustomer, 4, Session{Banned: true})
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, time.Hour, mr.TTL(key(domain.RoleCustomer, 4)))

	added, err = c.Add(ctx, domain.RoleCustomer, 4, Session{})
	require.NoError(t, err)
	assert.False(t, added)

	got, found, err := c.Get(ctx, domain.RoleCustomer, 4)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, got.Banned, "add must not replace an existing entry")

	require.NoError(t, c.Set(ctx, domain.RoleCustomer, 4, Session{}))
	got, _, err = c.Get(ctx, domain.RoleCustomer, 4)
	require.NoError(t, err)
	assert.False(t, got.Banned, "set replaces the entry")
}

func TestSessionCacheExpires(t *testing.T) {
	t.Parallel()

	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, domain.RoleAdmin, 5, Session{}))
	mr.FastForward(2 * time.Minute)

	_, found, err := c.Get(ctx, domain.RoleAdmin, 5)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionCacheMalformedEntryIsMiss(t *testing.T) {
	t.Parallel()

	tests := []string{"garbage", "never", "never:2", "abc:0"}
	for _, val := range tests {
		val := val
		t.Run(val, func(t *testing.T) {
			t.Parallel()
			c, mr := newTestCache(t, time.Minute)
			require.NoError(t, mr.Set(key(domain.RoleCustomer, 3), val))

			_, found, err := c.Get(context.Background(), domain.RoleCustomer, 3)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestNewRedisClient(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	rdb, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	_ = rdb.Close()

	addr := mr.Addr()
	mr.Close()
	_, err = NewRedisClient(context.Background(), config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}
