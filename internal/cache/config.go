package cache

import "time"

// Config selects and tunes a cache backend. It is shared by every tier built from it.
type Config struct {
	Backend         string        `env:"CACHE_BACKEND" env-default:"memory" validate:"oneof=redis memory"`
	KeyPrefix       string        `env:"CACHE_KEY_PREFIX" env-default:""`
	OpTimeout       time.Duration `env:"CACHE_OP_TIMEOUT" env-default:"200ms"`
	RedisAddr       string        `env:"REDIS_ADDR" env-default:"localhost:6379" validate:"required_if=Backend redis"`
	RedisPassword   string        `env:"REDIS_PASSWORD" env-default:""`
	RedisDB         int           `env:"REDIS_DB" env-default:"0" validate:"gte=0"`
	PoolSize        int           `env:"REDIS_POOL_SIZE" env-default:"50" validate:"gte=0"`
	MinIdleConns    int           `env:"REDIS_MIN_IDLE_CONNS" env-default:"5" validate:"gte=0"`
	MemoryShards    int           `env:"CACHE_MEMORY_SHARDS" env-default:"256" validate:"gte=0"`
	JanitorInterval time.Duration `env:"CACHE_JANITOR_INTERVAL" env-default:"1s"`

	Breaker BreakerSettings
}

// BreakerSettings tunes the circuit breaker wrapped around each tier.
type BreakerSettings struct {
	Enabled      bool          `env:"CACHE_BREAKER_ENABLED" env-default:"true"`
	MaxRequests  uint32        `env:"CACHE_BREAKER_MAX_REQUESTS" env-default:"3"`
	Interval     time.Duration `env:"CACHE_BREAKER_INTERVAL" env-default:"60s"`
	Timeout      time.Duration `env:"CACHE_BREAKER_TIMEOUT" env-default:"30s"`
	MinRequests  uint32        `env:"CACHE_BREAKER_MIN_REQUESTS" env-default:"5"`
	FailureRatio float64       `env:"CACHE_BREAKER_FAILURE_RATIO" env-default:"0.6" validate:"gte=0,lte=1"`
}

// RedisOptions projects the redis fields of cfg.
func (c Config) RedisOptions() *RedisOptions {
	return &RedisOptions{
		Addr:         c.RedisAddr,
		Password:     c.RedisPassword,
		DB:           c.RedisDB,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
		OpTimeout:    c.OpTimeout,
	}
}

// DefaultBreakerSettings mirrors the env defaults for callers that build caches in code.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Enabled:      true,
		MaxRequests:  3,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.6,
	}
}
