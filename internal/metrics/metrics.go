package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache results recorded by RecordCache.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
	ResultOK    = "ok"
)

// Collector holds all Prometheus metrics for the application. A nil *Collector is a no-op.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	CacheRequests *prometheus.CounterVec
	BreakerState  *prometheus.GaugeVec

	TreeBuilds        prometheus.Counter
	TreeBuildDuration prometheus.Histogram
	TreeNodes         prometheus.Gauge
	UnreachableRows   prometheus.Gauge

	CategoryWrites *prometheus.CounterVec
}

// NewCollector creates a collector on its own registry, so tests can build many.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		CacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_requests_total",
				Help:      "Cache operations by tier, operation and result",
			},
			[]string{"tier", "op", "result"},
		),
		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cache_breaker_state",
				Help:      "Circuit breaker state per cache tier (0 closed, 1 half-open, 2 open)",
			},
			[]string{"tier"},
		),
		TreeBuilds: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tree_builds_total",
				Help:      "Total number of forests materialized from the store",
			},
		),
		TreeBuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tree_build_duration_seconds",
				Help:      "Time to load rows and build the forest",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
		TreeNodes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tree_nodes",
				Help:      "Number of nodes in the last built forest",
			},
		),
		UnreachableRows: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tree_unreachable_rows",
				Help:      "Rows excluded from the last built forest because no root reaches them",
			},
		),
		CategoryWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "category_writes_total",
				Help:      "Committed category writes by operation",
			},
			[]string{"op"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.CacheRequests,
		c.BreakerState,
		c.TreeBuilds,
		c.TreeBuildDuration,
		c.TreeNodes,
		c.UnreachableRows,
		c.CategoryWrites,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the registry backing this collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) RecordHTTP(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) RecordCache(tier, op, result string) {
	if c == nil {
		return
	}
	c.CacheRequests.WithLabelValues(tier, op, result).Inc()
}

func (c *Collector) SetBreakerState(tier string, state int) {
	if c == nil {
		return
	}
	c.BreakerState.WithLabelValues(tier).Set(float64(state))
}

func (c *Collector) ObserveTreeBuild(d time.Duration, nodes, unreachable int) {
	if c == nil {
		return
	}
	c.TreeBuilds.Inc()
	c.TreeBuildDuration.Observe(d.Seconds())
	c.TreeNodes.Set(float64(nodes))
	c.UnreachableRows.Set(float64(unreachable))
}

func (c *Collector) RecordWrite(op string) {
	if c == nil {
		return
	}
	c.CategoryWrites.WithLabelValues(op).Inc()
}
