package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

const (
	RedisBackend  = "redis"
	MemoryBackend = "memory"
)

var (
	ErrCacheMiss        = errors.New("cache: key not found")
	ErrCacheUnavailable = errors.New("cache: backend unavailable")
	ErrUnknownBackend   = errors.New("cache: unknown backend")
)

// Cache is our generic cache interface.
type Cache[V any] interface {
	// Get returns the value or ErrCacheMiss.
	Get(ctx context.Context, key string) (V, error)
	// Set stores value under key, with TTL. Zero ttl = no expiration.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	// Delete removes the key.
	Delete(ctx context.Context, key string) error
	// MGet returns multiple values; missing ones are zero-value + ErrCacheMiss.
	MGet(ctx context.Context, keys ...string) ([]V, []error)
	// MSet sets multiple key/value pairs with same TTL.
	MSet(ctx context.Context, kv map[string]V, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix and reports how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// NewCache builds a backend from cfg. The returned closer releases connections or the janitor.
func NewCache[V any](cfg Config) (Cache[V], io.Closer, error) {
	switch cfg.Backend {
	case RedisBackend:
		rc := NewRedisCache[V](cfg.RedisOptions())
		return rc, rc, nil
	case MemoryBackend, "":
		mc := NewMemoryCacheWithOptions[V](cfg.MemoryShards, cfg.JanitorInterval)
		return mc, closerFunc(func() error { mc.Stop(); return nil }), nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
