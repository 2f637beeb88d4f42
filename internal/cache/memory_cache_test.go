package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCacheBasicAndEdgeCases(t *testing.T) {
	mc := NewMemoryCache[string]()
	defer mc.Stop()
	ctx := context.Background()

	assert.NoError(t, mc.Set(ctx, "key", "value", 0))
	v, err := mc.Get(ctx, "key")
	assert.NoError(t, err)
	assert.Equal(t, "value", v)

	_, err = mc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, mc.Set(ctx, "temp", "x", 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)
	_, err = mc.Get(ctx, "temp")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, mc.MSet(ctx, map[string]string{"a": "1", "b": "2"}, 0))
	vals, errs := mc.MGet(ctx, "a", "b", "c")
	assert.Equal(t, []string{"1", "2", ""}, vals)
	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.ErrorIs(t, errs[2], ErrCacheMiss)

	assert.NoError(t, mc.Delete(ctx, "a"))
	_, err = mc.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheMSetExpiry(t *testing.T) {
	mc := NewMemoryCacheWithOptions[string](4, time.Hour)
	defer mc.Stop()
	ctx := context.Background()

	assert.NoError(t, mc.MSet(ctx, map[string]string{"x": "y"}, 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)
	_, es := mc.MGet(ctx, "x")
	assert.ErrorIs(t, es[0], ErrCacheMiss)
}

func TestMemoryCacheInvalidOptionsFallBack(t *testing.T) {
	mc := NewMemoryCacheWithOptions[int](0, 0)
	defer mc.Stop()

	assert.Len(t, mc.shards, defaultShardCount)
	assert.NoError(t, mc.Set(context.Background(), "k", 1, 0))
}

func TestMemoryCacheDeletePrefix(t *testing.T) {
	mc := NewMemoryCacheWithOptions[int](4, time.Hour)
	defer mc.Stop()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		assert.NoError(t, mc.Set(ctx, fmt.Sprintf("node:%d", i), i, 0))
	}
	assert.NoError(t, mc.Set(ctx, "tree:all", 99, 0))

	n, err := mc.DeletePrefix(ctx, "node:")
	assert.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, 1, mc.Len())

	v, err := mc.Get(ctx, "tree:all")
	assert.NoError(t, err)
	assert.Equal(t, 99, v)

	n, err = mc.DeletePrefix(ctx, "node:")
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemoryCacheStopIdempotent(t *testing.T) {
	mc := NewMemoryCache[string]()
	assert.NotPanics(t, func() {
		mc.Stop()
		mc.Stop()
	})
}

func TestMemoryCacheConcurrency(t *testing.T) {
	mc := NewMemoryCache[int]()
	defer mc.Stop()
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("key%d", i)
				_ = mc.Set(ctx, key, i, 0)
				_, _ = mc.Get(ctx, key)
				if i%50 == 0 {
					_, _ = mc.DeletePrefix(ctx, fmt.Sprintf("key%d", w))
				}
			}
		}(w)
	}
	wg.Wait()
}

func TestMemoryCacheJanitorCleansExpiredEntries(t *testing.T) {
	interval := 10 * time.Millisecond
	mc := NewMemoryCacheWithOptions[string](4, interval)
	defer mc.Stop()
	ctx := context.Background()

	ttl := 20 * time.Millisecond
	assert.NoError(t, mc.Set(ctx, "to_clean", "value", ttl))

	assert.Eventually(t, func() bool {
		s := mc.getShard("to_clean")
		s.Lock()
		defer s.Unlock()
		_, ok := s.items["to_clean"]
		return !ok
	}, time.Second, interval, "expired entry should have been removed by janitor")
}
