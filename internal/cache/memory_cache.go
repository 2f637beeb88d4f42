package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	defaultShardCount      = 256
	defaultJanitorInterval = time.Second
)

type item[V any] struct {
	value      V
	expiration int64 // Unix nanoseconds; zero = no expire
}

func (i item[V]) expired(now int64) bool {
	return i.expiration > 0 && now > i.expiration
}

type shard[V any] struct {
	sync.Mutex
	items map[string]item[V]
}

// MemoryCache is a sharded in-process cache. Values are stored as given, so callers
// must not mutate a value after Set or after Get.
type MemoryCache[V any] struct {
	shards   []*shard[V]
	quit     chan struct{}
	stopOnce sync.Once
}

// NewMemoryCache creates a 256-shard cache with a 1s janitor by default.
func NewMemoryCache[V any]() *MemoryCache[V] {
	return NewMemoryCacheWithOptions[V](defaultShardCount, defaultJanitorInterval)
}

// NewMemoryCacheWithOptions allows customizing shard count & janitor interval.
func NewMemoryCacheWithOptions[V any](shardCount int, janitorInterval time.Duration) *MemoryCache[V] {
	if shardCount <= 0 {
		shardCount = defaultShardCount
	}
	if janitorInterval <= 0 {
		janitorInterval = defaultJanitorInterval
	}
	mc := &MemoryCache[V]{
		shards: make([]*shard[V], shardCount),
		quit:   make(chan struct{}),
	}
	for i := 0; i < shardCount; i++ {
		mc.shards[i] = &shard[V]{items: make(map[string]item[V])}
	}
	go mc.startJanitor(janitorInterval)
	return mc
}

// Stop terminates the janitor goroutine and releases resources.
func (mc *MemoryCache[V]) Stop() {
	mc.stopOnce.Do(func() { close(mc.quit) })
}

func (mc *MemoryCache[V]) getShard(key string) *shard[V] {
	h := xxhash.Sum64String(key)
	return mc.shards[h%uint64(len(mc.shards))]
}

// Get takes the write lock so an expired entry can be evicted in the same critical section.
func (mc *MemoryCache[V]) Get(_ context.Context, key string) (V, error) {
	var zero V
	now := time.Now().UnixNano()
	s := mc.getShard(key)

	s.Lock()
	defer s.Unlock()
	itm, ok := s.items[key]
	if !ok {
		return zero, ErrCacheMiss
	}
	if itm.expired(now) {
		delete(s.items, key)
		return zero, ErrCacheMiss
	}
	return itm.value, nil
}

func (mc *MemoryCache[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	s := mc.getShard(key)
	s.Lock()
	s.items[key] = item[V]{value: value, expiration: expiryFor(ttl)}
	s.Unlock()
	return nil
}

func (mc *MemoryCache[V]) Delete(_ context.Context, key string) error {
	s := mc.getShard(key)
	s.Lock()
	delete(s.items, key)
	s.Unlock()
	return nil
}

func (mc *MemoryCache[V]) MGet(_ context.Context, keys ...string) ([]V, []error) {
	results := make([]V, len(keys))
	errs := make([]error, len(keys))

	type req struct {
		idx int
		key string
	}
	groups := make(map[*shard[V]][]req)
	for i, k := range keys {
		sh := mc.getShard(k)
		groups[sh] = append(groups[sh], req{i, k})
	}

	for sh, reqs := range groups {
		now := time.Now().UnixNano()
		sh.Lock()
		for _, r := range reqs {
			itm, ok := sh.items[r.key]
			if !ok || itm.expired(now) {
				if ok {
					delete(sh.items, r.key)
				}
				errs[r.idx] = ErrCacheMiss
			} else {
				results[r.idx] = itm.value
			}
		}
		sh.Unlock()
	}
	return results, errs
}

// MSet groups entries by shard and applies each group under a single lock.
func (mc *MemoryCache[V]) MSet(_ context.Context, kv map[string]V, ttl time.Duration) error {
	exp := expiryFor(ttl)
	groups := make(map[*shard[V]]map[string]item[V])
	for k, v := range kv {
		sh := mc.getShard(k)
		if groups[sh] == nil {
			groups[sh] = make(map[string]item[V])
		}
		groups[sh][k] = item[V]{value: v, expiration: exp}
	}
	for sh, entries := range groups {
		sh.Lock()
		for k, itm := range entries {
			sh.items[k] = itm
		}
		sh.Unlock()
	}
	return nil
}

// DeletePrefix visits every shard. Keys set concurrently in an already visited shard survive.
func (mc *MemoryCache[V]) DeletePrefix(_ context.Context, prefix string) (int, error) {
	deleted := 0
	for _, sh := range mc.shards {
		sh.Lock()
		for k := range sh.items {
			if strings.HasPrefix(k, prefix) {
				delete(sh.items, k)
				deleted++
			}
		}
		sh.Unlock()
	}
	return deleted, nil
}

// Len counts live entries, evicting nothing.
func (mc *MemoryCache[V]) Len() int {
	now := time.Now().UnixNano()
	n := 0
	for _, sh := range mc.shards {
		sh.Lock()
		for _, itm := range sh.items {
			if !itm.expired(now) {
				n++
			}
		}
		sh.Unlock()
	}
	return n
}

func (mc *MemoryCache[V]) startJanitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			mc.evictExpired(time.Now().UnixNano())
		case <-mc.quit:
			return
		}
	}
}

func (mc *MemoryCache[V]) evictExpired(now int64) {
	for _, sh := range mc.shards {
		sh.Lock()
		for k, itm := range sh.items {
			if itm.expired(now) {
				delete(sh.items, k)
			}
		}
		sh.Unlock()
	}
}

func expiryFor(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return time.Now().Add(ttl).UnixNano()
}
