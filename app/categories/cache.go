package categories

import (
	"context"
	"strconv"
	"time"

	"github.com/joefazee/catalog/internal/cache"
)

// CacheSchemaVersion is bumped whenever CategoryNode changes shape.
// Entries written under another version read as misses.
const CacheSchemaVersion = 1

const (
	nodeKeyPrefix = "node:"
	treeKey       = "tree:all"
)

// NodeEntry is the persisted node-cache value.
type NodeEntry struct {
	Version int          `json:"v"`
	Node    CategoryNode `json:"node"`
}

// TreeEntry is the persisted tree-cache value.
type TreeEntry struct {
	Version int            `json:"v"`
	Roots   []CategoryNode `json:"roots"`
	BuiltAt time.Time      `json:"built_at"`
}

// NodeCache maps a category id to its childless node.
type NodeCache struct {
	store  cache.Cache[NodeEntry]
	prefix string
	ttl    time.Duration
}

func NewNodeCache(store cache.Cache[NodeEntry], keyPrefix string, ttl time.Duration) *NodeCache {
	return &NodeCache{store: store, prefix: keyPrefix, ttl: ttl}
}

// Key returns the cache key for id.
func (c *NodeCache) Key(id int64) string {
	return c.prefix + nodeKeyPrefix + strconv.FormatInt(id, 10)
}

func (c *NodeCache) Get(ctx context.Context, id int64) (CategoryNode, error) {
	entry, err := c.store.Get(ctx, c.Key(id))
	if err != nil {
		return CategoryNode{}, err
	}
	if entry.Version != CacheSchemaVersion || entry.Node.ID != id {
		return CategoryNode{}, cache.ErrCacheMiss
	}
	return entry.Node, nil
}

func (c *NodeCache) Put(ctx context.Context, node CategoryNode) error {
	return c.store.Set(ctx, c.Key(node.ID), NodeEntry{Version: CacheSchemaVersion, Node: node.Flat()}, c.ttl)
}

// PutMany writes all nodes in one batch. It is best effort: on failure some nodes may be cached.
func (c *NodeCache) PutMany(ctx context.Context, nodes []CategoryNode) error {
	if len(nodes) == 0 {
		return nil
	}
	kv := make(map[string]NodeEntry, len(nodes))
	for i := range nodes {
		kv[c.Key(nodes[i].ID)] = NodeEntry{Version: CacheSchemaVersion, Node: nodes[i].Flat()}
	}
	return c.store.MSet(ctx, kv, c.ttl)
}

func (c *NodeCache) Delete(ctx context.Context, id int64) error {
	return c.store.Delete(ctx, c.Key(id))
}

// ClearAll removes every node entry under this cache's prefix.
func (c *NodeCache) ClearAll(ctx context.Context) (int, error) {
	return c.store.DeletePrefix(ctx, c.prefix+nodeKeyPrefix)
}

// TreeCache holds the whole materialized forest under a single key.
type TreeCache struct {
	store cache.Cache[TreeEntry]
	key   string
	ttl   time.Duration
	now   func() time.Time
}

func NewTreeCache(store cache.Cache[TreeEntry], keyPrefix string, ttl time.Duration) *TreeCache {
	return &TreeCache{store: store, key: keyPrefix + treeKey, ttl: ttl, now: time.Now}
}

// Key returns the cache key of the forest.
func (c *TreeCache) Key() string {
	return c.key
}

// Get returns the cached forest. Callers must treat it as read-only.
func (c *TreeCache) Get(ctx context.Context) ([]CategoryNode, error) {
	entry, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, err
	}
	if entry.Version != CacheSchemaVersion {
		return nil, cache.ErrCacheMiss
	}
	if entry.Roots == nil {
		entry.Roots = []CategoryNode{}
	}
	return entry.Roots, nil
}

// Put stores a deep copy of roots.
func (c *TreeCache) Put(ctx context.Context, roots []CategoryNode) error {
	entry := TreeEntry{Version: CacheSchemaVersion, Roots: CloneForest(roots), BuiltAt: c.now().UTC()}
	if entry.Roots == nil {
		entry.Roots = []CategoryNode{}
	}
	return c.store.Set(ctx, c.key, entry, c.ttl)
}

func (c *TreeCache) Invalidate(ctx context.Context) error {
	return c.store.Delete(ctx, c.key)
}
