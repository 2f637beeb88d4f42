package deps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sony/gobreaker"
	"gorm.io/gorm"

	"github.com/joefazee/catalog/internal/cache"
	"github.com/joefazee/catalog/internal/logger"
	"github.com/joefazee/catalog/internal/metrics"
	"github.com/joefazee/catalog/internal/sanitizer"
	"github.com/joefazee/catalog/internal/security"
)

// Probe reports whether a dependency is reachable.
type Probe func(ctx context.Context) error

type namedCloser struct {
	name   string
	closer io.Closer
}

// Container holds all shared dependencies
type Container struct {
	DB          *gorm.DB
	TokenMaker  security.Maker
	Sanitizer   sanitizer.Sanitizer
	Logger      logger.Logger
	Metrics     *metrics.Collector
	CacheConfig cache.Config

	mu       sync.Mutex
	closers  []namedCloser
	probes   map[string]Probe
	services map[string]interface{}
}

// NewContainer wires the shared dependencies. tokenMaker may be nil when write routes are open.
func NewContainer(db *gorm.DB,
	tokenMaker security.Maker,
	sanitizer sanitizer.Sanitizer,
	logger logger.Logger,
	collector *metrics.Collector,
	cacheCfg cache.Config,
) *Container {
	return &Container{
		DB:          db,
		TokenMaker:  tokenMaker,
		Sanitizer:   sanitizer,
		Logger:      logger,
		Metrics:     collector,
		CacheConfig: cacheCfg,
		probes:      make(map[string]Probe),
		services:    make(map[string]interface{}),
	}
}

// RegisterService stores a service with a key
func (c *Container) RegisterService(key string, service interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[key] = service
}

// GetService retrieves a service by key
func (c *Container) GetService(key string) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.services[key]
}

// AddCloser registers a resource released by Close, in reverse registration order.
func (c *Container) AddCloser(name string, closer io.Closer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closers = append(c.closers, namedCloser{name: name, closer: closer})
}

// AddProbe registers a health probe under name.
func (c *Container) AddProbe(name string, probe Probe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes[name] = probe
}

// Probes returns a copy of the registered health probes.
func (c *Container) Probes() map[string]Probe {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]Probe, len(c.probes))
	for k, v := range c.probes {
		out[k] = v
	}
	return out
}

// Close releases every registered resource and joins their errors.
func (c *Container) Close() error {
	c.mu.Lock()
	closers := c.closers
	c.closers = nil
	c.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", closers[i].name, err))
		}
	}
	return errors.Join(errs...)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// NewTierCache builds one cache tier from the container's cache config. Each tier owns its
// backend (and redis pool) and, when enabled, its own circuit breaker reporting to metrics.
func NewTierCache[V any](c *Container, tier string) (cache.Cache[V], error) {
	backend, closer, err := cache.NewCache[V](c.CacheConfig)
	if err != nil {
		return nil, fmt.Errorf("cache tier %s: %w", tier, err)
	}
	c.AddCloser("cache:"+tier, closer)
	if p, ok := backend.(pinger); ok {
		c.AddProbe("cache_"+tier, p.Ping)
	}

	if !c.CacheConfig.Breaker.Enabled {
		return backend, nil
	}

	log := c.Logger
	collector := c.Metrics
	collector.SetBreakerState(tier, int(gobreaker.StateClosed))
	onChange := func(name string, from, to gobreaker.State) {
		collector.SetBreakerState(tier, int(to))
		if log != nil {
			log.Warn("cache breaker state changed", logger.Fields{
				"tier": tier,
				"from": from.String(),
				"to":   to.String(),
			})
		}
	}
	return cache.NewBreakerCache[V]("cache:"+tier, backend, c.CacheConfig.Breaker, onChange), nil
}
