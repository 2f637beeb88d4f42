package app

import (
	"context"
	"fmt"
	"os"

	"github.com/joefazee/catalog/app/categories"
	"github.com/joefazee/catalog/app/database"
	"github.com/joefazee/catalog/internal/deps"
	"github.com/joefazee/catalog/internal/logger"
	"github.com/joefazee/catalog/internal/metrics"
	"github.com/joefazee/catalog/internal/sanitizer"
	"github.com/joefazee/catalog/internal/security"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "catalog"

// NewLogger builds the process logger from the configured level.
func NewLogger(cfg *Config) (*logger.ZeroLogger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logger.NewZeroLogger(os.Stdout, level, logger.Fields{
		"service": MetricsNamespace,
		"env":     cfg.Env,
		"version": Version,
	}), nil
}

// Bootstrap opens the store, builds both cache tiers and wires the categories module.
// The returned container owns every resource and must be closed by the caller.
func Bootstrap(cfg *Config, log logger.Logger) (*deps.Container, *categories.Module, error) {
	db, err := database.New(&cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(&cfg.DB, db); err != nil {
		_ = database.Close(db)
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	var maker security.Maker
	if cfg.Security.Enabled() {
		pm, err := security.NewPasetoMaker(cfg.Security.SymmetricKey)
		if err != nil {
			_ = database.Close(db)
			return nil, nil, fmt.Errorf("cannot create token maker: %w", err)
		}
		maker = pm
	}

	container := deps.NewContainer(db, maker, sanitizer.NewHTMLStripper(), log,
		metrics.NewCollector(MetricsNamespace), cfg.Cache)
	container.AddCloser("database", closerFunc(func() error { return database.Close(db) }))
	container.AddProbe("database", func(ctx context.Context) error { return database.Ping(ctx, db) })

	nodes, err := deps.NewTierCache[categories.NodeEntry](container, "node")
	if err != nil {
		_ = container.Close()
		return nil, nil, err
	}
	tree, err := deps.NewTierCache[categories.TreeEntry](container, "tree")
	if err != nil {
		_ = container.Close()
		return nil, nil, err
	}

	module := categories.NewModule(categories.Dependencies{
		DB:        db,
		Nodes:     nodes,
		Tree:      tree,
		KeyPrefix: cfg.Cache.KeyPrefix,
		Config:    cfg.Categories,
		Logger:    log,
		Sanitizer: container.Sanitizer,
		Metrics:   container.Metrics,
	})
	container.RegisterService(categories.ServiceKey, module.Service)

	return container, module, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
