package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// StateChangeFunc is notified whenever a breaker changes state.
type StateChangeFunc func(name string, from, to gobreaker.State)

// BreakerCache guards a Cache with a circuit breaker. Misses count as successes;
// rejected calls fail fast with ErrCacheUnavailable.
type BreakerCache[V any] struct {
	inner Cache[V]
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerCache wraps inner. onChange may be nil.
func NewBreakerCache[V any](name string, inner Cache[V], s BreakerSettings, onChange StateChangeFunc) *BreakerCache[V] {
	minRequests := s.MinRequests
	ratio := s.FailureRatio
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		IsSuccessful: isBreakerSuccess,
	}
	if onChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			onChange(name, from, to)
		}
	}
	return &BreakerCache[V]{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Inner exposes the wrapped cache.
func (b *BreakerCache[V]) Inner() Cache[V] {
	return b.inner
}

// State reports the current breaker state.
func (b *BreakerCache[V]) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerCache[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Get(ctx, key)
	})
	if err != nil {
		return zero, mapBreakerErr(err)
	}
	val, ok := res.(V)
	if !ok {
		return zero, fmt.Errorf("cache: unexpected value type %T", res)
	}
	return val, nil
}

func (b *BreakerCache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.inner.Set(ctx, key, value, ttl)
	})
	return mapBreakerErr(err)
}

func (b *BreakerCache[V]) Delete(ctx context.Context, key string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.inner.Delete(ctx, key)
	})
	return mapBreakerErr(err)
}

func (b *BreakerCache[V]) MGet(ctx context.Context, keys ...string) ([]V, []error) {
	var (
		vals []V
		errs []error
	)
	_, err := b.cb.Execute(func() (interface{}, error) {
		vals, errs = b.inner.MGet(ctx, keys...)
		for _, e := range errs {
			if !isBreakerSuccess(e) {
				return nil, e
			}
		}
		return nil, nil
	})
	if vals == nil {
		vals = make([]V, len(keys))
		errs = make([]error, len(keys))
		for i := range errs {
			errs[i] = mapBreakerErr(err)
		}
	}
	return vals, errs
}

func (b *BreakerCache[V]) MSet(ctx context.Context, kv map[string]V, ttl time.Duration) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.inner.MSet(ctx, kv, ttl)
	})
	return mapBreakerErr(err)
}

func (b *BreakerCache[V]) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.DeletePrefix(ctx, prefix)
	})
	n, _ := res.(int)
	return n, mapBreakerErr(err)
}

func isBreakerSuccess(err error) bool {
	return err == nil || errors.Is(err, ErrCacheMiss) || errors.Is(err, context.Canceled)
}

func mapBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return err
}
