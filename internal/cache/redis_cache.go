package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisOpTimeout = 200 * time.Millisecond
	scanBatchSize         = 500
)

// RedisOptions holds both client‐tuning and operation‐level settings.
// Client retries are always off: a cache failure costs one round trip.
type RedisOptions struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	OpTimeout    time.Duration // per‐call timeout; defaulted if zero
}

// RedisCache stores JSON encoded values. Each instance owns its client pool.
type RedisCache[V any] struct {
	client    *redis.Client
	opTimeout time.Duration
}

// NewRedisCache constructs the client with retries disabled and the default op timeout.
func NewRedisCache[V any](opts *RedisOptions) *RedisCache[V] {
	if opts.OpTimeout == 0 {
		opts.OpTimeout = defaultRedisOpTimeout
	}
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		// go-redis treats 0 as its default of 3 retries; -1 disables them.
		MaxRetries: -1,
	})
	return &RedisCache[V]{
		client:    client,
		opTimeout: opts.OpTimeout,
	}
}

// Close cleans up underlying connections.
func (r *RedisCache[V]) Close() error {
	return r.client.Close()
}

// Ping checks connectivity within the op timeout.
func (r *RedisCache[V]) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, ErrCacheMiss
	} else if err != nil {
		return zero, err
	}
	var val V
	if err := json.Unmarshal(data, &val); err != nil {
		return zero, fmt.Errorf("cache: decode %q: %w", key, err)
	}
	return val, nil
}

func (r *RedisCache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *RedisCache[V]) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	return r.client.Del(ctx, key).Err()
}

func (r *RedisCache[V]) MGet(ctx context.Context, keys ...string) ([]V, []error) {
	results := make([]V, len(keys))
	errs := make([]error, len(keys))
	if len(keys) == 0 {
		return results, errs
	}

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		for i := range errs {
			errs[i] = err
		}
		return results, errs
	}

	for i, raw := range vals {
		if raw == nil {
			errs[i] = ErrCacheMiss
			continue
		}

		var data []byte
		switch v := raw.(type) {
		case string:
			data = []byte(v)
		case []byte:
			data = v
		default:
			errs[i] = fmt.Errorf("unexpected type %T from redis", v)
			continue
		}

		var val V
		if err := json.Unmarshal(data, &val); err != nil {
			errs[i] = err
		} else {
			results[i] = val
		}
	}
	return results, errs
}

// MSet writes all pairs in one pipeline. It is not transactional: a failure may leave some keys set.
func (r *RedisCache[V]) MSet(ctx context.Context, kv map[string]V, ttl time.Duration) error {
	if len(kv) == 0 {
		return nil
	}
	type entry struct {
		key  string
		data []byte
	}
	entries := make([]entry, 0, len(kv))
	for k, v := range kv {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		entries = append(entries, entry{key: k, data: b})
	}

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	if ttl < 0 {
		ttl = 0
	}
	pipe := r.client.Pipeline()
	for _, e := range entries {
		pipe.Set(ctx, e.key, e.data, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// DeletePrefix walks the keyspace with SCAN and deletes matches batch by batch.
// Each SCAN/DEL round trip gets its own op timeout so large keyspaces do not starve.
func (r *RedisCache[V]) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	pattern := escapeGlob(prefix) + "*"
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := r.scan(ctx, cursor, pattern)
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := r.del(ctx, keys)
			deleted += n
			if err != nil {
				return deleted, err
			}
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

func (r *RedisCache[V]) scan(ctx context.Context, cursor uint64, pattern string) ([]string, uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	return r.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
}

func (r *RedisCache[V]) del(ctx context.Context, keys []string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	n, err := r.client.Del(ctx, keys...).Result()
	return int(n), err
}

// escapeGlob quotes the characters redis MATCH treats as pattern syntax.
func escapeGlob(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
