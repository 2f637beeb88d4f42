package app

import (
	"fmt"
	"time"

	"github.com/joefazee/catalog/app/categories"
	"github.com/joefazee/catalog/app/database"
	"github.com/joefazee/catalog/internal/cache"
	"github.com/joefazee/catalog/internal/nexus"
	"github.com/joefazee/catalog/internal/security"
)

const Version = "1.0.0"

type Config struct {
	DB         database.Config
	Cache      cache.Config
	Categories categories.Config
	Security   security.Config

	AppHost         string        `env:"APP_HOST" env-default:"localhost"`
	AppPort         string        `env:"APP_PORT" env-default:"8080"`
	Env             string        `env:"APP_ENV" env-default:"development" validate:"oneof=development staging production test"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn warning error fatal off"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.AppHost, c.AppPort)
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfig loads the application configuration from environment variables or a config file.
// An empty fileName reads .env when present.
func LoadConfig(fileName string) (*Config, error) {
	c := &Config{}
	opts := []nexus.LoaderOption{}
	if fileName != "" {
		opts = append(opts, nexus.WithFileName(fileName))
	}
	err := nexus.NewLoader(opts...).Load(c)
	return c, err
}
