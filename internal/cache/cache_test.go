package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCacheMemory(t *testing.T) {
	c, closer, err := NewCache[string](Config{Backend: MemoryBackend, MemoryShards: 8})
	require.NoError(t, err)
	defer closer.Close()

	m, ok := c.(*MemoryCache[string])
	assert.True(t, ok, "expected *MemoryCache[string]")
	assert.Len(t, m.shards, 8)
	ctx := context.Background()

	assert.NoError(t, m.Set(ctx, "foo", "bar", 0))
	v, err := m.Get(ctx, "foo")
	assert.NoError(t, err)
	assert.Equal(t, "bar", v)

	_, err = m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestNewCacheDefaultsToMemory(t *testing.T) {
	c, closer, err := NewCache[int](Config{})
	require.NoError(t, err)
	defer closer.Close()

	_, ok := c.(*MemoryCache[int])
	assert.True(t, ok)
}

func TestNewCacheRedis(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	cfg := Config{
		Backend:      RedisBackend,
		RedisAddr:    s.Addr(),
		PoolSize:     5,
		MinIdleConns: 1,
		OpTimeout:    100 * time.Millisecond,
	}
	c, closer, err := NewCache[string](cfg)
	require.NoError(t, err)
	defer closer.Close()

	r, ok := c.(*RedisCache[string])
	assert.True(t, ok, "expected *RedisCache[string]")
	ctx := context.Background()

	assert.NoError(t, r.Ping(ctx))
	assert.NoError(t, r.Set(ctx, "foo", "baz", 0))
	v, err := r.Get(ctx, "foo")
	assert.NoError(t, err)
	assert.Equal(t, "baz", v)

	_, err = r.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestNewCacheUnknownBackend(t *testing.T) {
	c, closer, err := NewCache[int](Config{Backend: "something-else"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.Nil(t, c)
	assert.Nil(t, closer)
}

func TestConfigRedisOptions(t *testing.T) {
	cfg := Config{
		RedisAddr:     "cache:6379",
		RedisPassword: "secret",
		RedisDB:       3,
		PoolSize:      20,
		OpTimeout:     time.Second,
	}
	opts := cfg.RedisOptions()
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 20, opts.PoolSize)
	assert.Equal(t, time.Second, opts.OpTimeout)
}
