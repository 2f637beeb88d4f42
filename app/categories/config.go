package categories

import "time"

const (
	DefaultNodeTTL        = time.Hour
	DefaultTreeTTL        = 30 * time.Minute
	DefaultRebuildTimeout = 10 * time.Second
)

// Config holds the category cache settings.
type Config struct {
	NodeTTL        time.Duration `env:"CATEGORY_NODE_TTL" env-default:"1h" validate:"gt=0"`
	TreeTTL        time.Duration `env:"CATEGORY_TREE_TTL" env-default:"30m" validate:"gt=0"`
	RebuildTimeout time.Duration `env:"CATEGORY_REBUILD_TIMEOUT" env-default:"10s" validate:"gte=0"`
	WarmOnStart    bool          `env:"CATEGORY_WARM_ON_START" env-default:"true"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		NodeTTL:        DefaultNodeTTL,
		TreeTTL:        DefaultTreeTTL,
		RebuildTimeout: DefaultRebuildTimeout,
		WarmOnStart:    true,
	}
}
