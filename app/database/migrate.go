package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	"github.com/joefazee/catalog/migrations"

	// registers the postgres:// scheme for golang-migrate
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
)

// Migrate brings the schema up to date. Postgres runs the embedded SQL migrations,
// sqlite falls back to gorm's AutoMigrate.
func Migrate(c *Config, db *gorm.DB) error {
	if c.Driver == DriverSQLite {
		return AutoMigrate(db)
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, c.MigrationURL())
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
