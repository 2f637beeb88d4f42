package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gLogger "gorm.io/gorm/logger"

	"github.com/joefazee/catalog/models"

	// import necessary for gorm to recognize the postgres driver
	_ "github.com/lib/pq"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver   string `env:"DB_DRIVER" env-default:"postgres" validate:"oneof=postgres sqlite"`
	Host     string `env:"DB_HOST"`
	Port     string `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD" sensitive:"true"`
	Database string `env:"DB_NAME"`
	UseSSL   bool   `env:"DB_SSL_MODE"`
	LogQuery bool   `env:"DB_LOG_QUERY"`

	// SQLitePath is a file path or ":memory:".
	SQLitePath string `env:"DB_SQLITE_PATH" env-default:"catalog.db"`

	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"10" validate:"gte=1"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"5" validate:"gte=0"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
}

func (c *Config) Validate() error {
	switch c.Driver {
	case DriverPostgres, "":
		if c.Host == "" ||
			c.Password == "" || c.Database == "" || c.User == "" {
			return models.ErrDatabaseCredentialNotConfigured
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return models.ErrDatabaseCredentialNotConfigured
		}
	default:
		return fmt.Errorf("%w: %q", models.ErrUnsupportedDatabaseDriver, c.Driver)
	}
	return nil
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	SSLMode := "disable"
	if c.UseSSL {
		SSLMode = "require"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Database, c.Port, SSLMode)
}

// MigrationURL returns the postgres URL golang-migrate expects.
func (c *Config) MigrationURL() string {
	SSLMode := "disable"
	if c.UseSSL {
		SSLMode = "require"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, SSLMode)
}

func New(c *Config) (*gorm.DB, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cfg := &gorm.Config{}
	if !c.LogQuery {
		cfg.Logger = gLogger.Discard
	}

	var dialector gorm.Dialector
	if c.Driver == DriverSQLite {
		dialector = sqlite.Open(c.SQLitePath + "?_foreign_keys=on")
	} else {
		dialector = postgres.Open(c.DSN())
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}

	maxOpen := c.MaxOpenConns
	if c.Driver == DriverSQLite && c.SQLitePath == ":memory:" {
		// every new connection would open a separate empty database
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)

	return db, nil
}

// AutoMigrate creates the categories table from the model. Used for sqlite, where no SQL migrations ship.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{})
}

// Ping checks the underlying connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
