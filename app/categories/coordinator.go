package categories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/joefazee/catalog/internal/cache"
	"github.com/joefazee/catalog/internal/logger"
	"github.com/joefazee/catalog/internal/metrics"
)

const (
	tierNode = "node"
	tierTree = "tree"
)

// Coordinator keeps the node and tree caches coherent with the store.
// Cache failures are logged and counted, never returned; store failures are returned.
type Coordinator struct {
	repo    Repository
	nodes   *NodeCache
	tree    *TreeCache
	log     logger.Logger
	metrics *metrics.Collector
	group   singleflight.Group
	now     func() time.Time

	rebuildTimeout time.Duration
}

// NewCoordinator wires the caches to repo. collector may be nil.
func NewCoordinator(repo Repository, nodes *NodeCache, tree *TreeCache, log logger.Logger, collector *metrics.Collector) *Coordinator {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Coordinator{
		repo:    repo,
		nodes:   nodes,
		tree:    tree,
		log:     log,
		metrics: collector,
		now:     time.Now,

		rebuildTimeout: DefaultRebuildTimeout,
	}
}

// SetRebuildTimeout bounds the store read of a shared tree rebuild. Non-positive values are ignored.
func (c *Coordinator) SetRebuildTimeout(d time.Duration) {
	if d > 0 {
		c.rebuildTimeout = d
	}
}

// BuildResult describes one materialization of the forest.
type BuildResult struct {
	Roots       []CategoryNode
	Unreachable []int64
	Nodes       int
	BuiltAt     time.Time

	// Cleared is the number of node entries removed beforehand, set by RefreshAll only.
	Cleared int
}

// GetNode returns a childless node, from cache when possible.
func (c *Coordinator) GetNode(ctx context.Context, id int64) (CategoryNode, error) {
	node, err := c.nodes.Get(ctx, id)
	if err == nil {
		c.metrics.RecordCache(tierNode, "get", metrics.ResultHit)
		return node, nil
	}
	c.readFailed(tierNode, err, logger.Fields{"id": id})

	row, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return CategoryNode{}, err
	}
	node = NodeFromModel(row)
	c.write(tierNode, "put", c.nodes.Put(ctx, node), logger.Fields{"id": id})
	return node, nil
}

// GetChildren returns the direct children of id, flattened, in sibling order.
// A warm tree answers directly; otherwise the store is asked.
func (c *Coordinator) GetChildren(ctx context.Context, id int64) ([]CategoryNode, error) {
	roots, err := c.tree.Get(ctx)
	if err == nil {
		c.metrics.RecordCache(tierTree, "get", metrics.ResultHit)
		if parent, ok := FindNode(roots, id); ok {
			children := make([]CategoryNode, len(parent.Children))
			for i := range parent.Children {
				children[i] = parent.Children[i].Flat()
			}
			return children, nil
		}
	} else {
		c.readFailed(tierTree, err, nil)
	}

	if _, err := c.GetNode(ctx, id); err != nil {
		return nil, err
	}
	rows, err := c.repo.GetByParentID(ctx, id)
	if err != nil {
		return nil, err
	}
	children := make([]CategoryNode, len(rows))
	for i := range rows {
		children[i] = NodeFromModel(&rows[i])
	}
	sortNodes(children)
	return children, nil
}

// GetTree returns the whole forest. Concurrent misses share one rebuild.
// Each caller waits on its own ctx; the shared rebuild is bounded by the rebuild timeout
// instead, so one caller giving up does not fail the others.
// The returned slice is shared and must not be modified.
func (c *Coordinator) GetTree(ctx context.Context) ([]CategoryNode, error) {
	roots, err := c.tree.Get(ctx)
	if err == nil {
		c.metrics.RecordCache(tierTree, "get", metrics.ResultHit)
		return roots, nil
	}
	c.readFailed(tierTree, err, nil)

	ch := c.group.DoChan(treeKey, func() (interface{}, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.rebuildTimeout)
		defer cancel()
		return c.rebuild(rctx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.log.Debug("tree rebuild shared", nil)
		}
		return res.Val.(*BuildResult).Roots, nil
	}
}

// RefreshAll empties both tiers and rebuilds them from the store.
func (c *Coordinator) RefreshAll(ctx context.Context) (*BuildResult, error) {
	cleared, err := c.nodes.ClearAll(ctx)
	c.write(tierNode, "clear", err, nil)
	c.write(tierTree, "invalidate", c.tree.Invalidate(ctx), nil)

	res, err := c.rebuild(ctx)
	if err != nil {
		return nil, err
	}
	res.Cleared = cleared
	c.log.Info("category caches refreshed", logger.Fields{
		"cleared_nodes": cleared,
		"cached_nodes":  res.Nodes,
		"roots":         len(res.Roots),
	})
	return res, nil
}

// OnCreate runs after a committed insert.
func (c *Coordinator) OnCreate(ctx context.Context, node CategoryNode) {
	c.write(tierNode, "put", c.nodes.Put(ctx, node), logger.Fields{"id": node.ID})
	c.invalidateTree(ctx, node.ID)
	c.metrics.RecordWrite("create")
}

// OnUpdate runs after a committed update. oldParentID is the parent before the write.
func (c *Coordinator) OnUpdate(ctx context.Context, node CategoryNode, oldParentID *int64) {
	c.write(tierNode, "put", c.nodes.Put(ctx, node), logger.Fields{"id": node.ID})
	if !sameParent(oldParentID, node.ParentID) {
		c.log.Info("category parent changed", logger.Fields{
			"id":            node.ID,
			"old_parent_id": oldParentID,
			"new_parent_id": node.ParentID,
		})
	}
	c.invalidateTree(ctx, node.ID)
	c.metrics.RecordWrite("update")
}

// OnDelete runs after a committed delete, soft or hard.
func (c *Coordinator) OnDelete(ctx context.Context, node CategoryNode) {
	c.write(tierNode, "delete", c.nodes.Delete(ctx, node.ID), logger.Fields{"id": node.ID})
	c.invalidateTree(ctx, node.ID)
	c.metrics.RecordWrite("delete")
}

func (c *Coordinator) invalidateTree(ctx context.Context, id int64) {
	c.write(tierTree, "invalidate", c.tree.Invalidate(ctx), logger.Fields{"id": id})
}

// rebuild loads every active row, builds the forest and populates both tiers.
func (c *Coordinator) rebuild(ctx context.Context) (*BuildResult, error) {
	start := c.now()
	rows, err := c.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	forest, err := BuildTree(rows)
	if err != nil {
		c.log.Error(err, logger.Fields{"rows": len(rows)})
		return nil, fmt.Errorf("build category tree: %w", err)
	}
	if len(forest.Unreachable) > 0 {
		c.log.Warn("categories unreachable from any root", logger.Fields{
			"ids":   forest.Unreachable,
			"count": len(forest.Unreachable),
		})
	}

	flat := Flatten(forest.Roots)
	c.write(tierTree, "put", c.tree.Put(ctx, forest.Roots), nil)
	c.putMany(ctx, flat)

	elapsed := c.now().Sub(start)
	c.metrics.ObserveTreeBuild(elapsed, len(flat), len(forest.Unreachable))
	c.log.Debug("category tree built", logger.Fields{
		"rows":        len(rows),
		"nodes":       len(flat),
		"duration_ms": elapsed.Milliseconds(),
	})

	return &BuildResult{
		Roots:       forest.Roots,
		Unreachable: forest.Unreachable,
		Nodes:       len(flat),
		BuiltAt:     start.UTC(),
	}, nil
}

// putMany falls back to one write per node when the batch fails for a reason other
// than an unavailable backend.
func (c *Coordinator) putMany(ctx context.Context, nodes []CategoryNode) {
	err := c.nodes.PutMany(ctx, nodes)
	if err == nil || errors.Is(err, cache.ErrCacheUnavailable) {
		c.write(tierNode, "put_many", err, logger.Fields{"count": len(nodes)})
		return
	}
	c.write(tierNode, "put_many", err, logger.Fields{"count": len(nodes), "fallback": true})
	for i := range nodes {
		if perr := c.nodes.Put(ctx, nodes[i]); perr != nil {
			c.write(tierNode, "put", perr, logger.Fields{"id": nodes[i].ID})
			if errors.Is(perr, cache.ErrCacheUnavailable) {
				return
			}
		}
	}
}

func (c *Coordinator) readFailed(tier string, err error, fields logger.Fields) {
	if errors.Is(err, cache.ErrCacheMiss) {
		c.metrics.RecordCache(tier, "get", metrics.ResultMiss)
		return
	}
	c.metrics.RecordCache(tier, "get", metrics.ResultError)
	c.warn(tier, "get", err, fields)
}

func (c *Coordinator) write(tier, op string, err error, fields logger.Fields) {
	if err == nil {
		c.metrics.RecordCache(tier, op, metrics.ResultOK)
		return
	}
	c.metrics.RecordCache(tier, op, metrics.ResultError)
	c.warn(tier, op, err, fields)
}

func (c *Coordinator) warn(tier, op string, err error, fields logger.Fields) {
	props := logger.Fields{"tier": tier, "op": op, "error": err.Error()}
	for k, v := range fields {
		props[k] = v
	}
	c.log.Warn("category cache operation failed", props)
}
