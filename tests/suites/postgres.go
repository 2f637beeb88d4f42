package suites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Import necessary packages for migrations and database drivers
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

const (
	postgresImage = "postgres:17.5-alpine3.21"
	testDatabase  = "catalog_test"
	testUser      = "catalog"
	testPassword  = "catalog-test-pw"
)

type PostgresContainer struct {
	testcontainers.Container
	ConnectionString string
	Host             string
	Port             string
}

func NewPostgresContainer(ctx context.Context) (*PostgresContainer, error) {
	const port = "5432/tcp"

	dbURL := func(host string, port nat.Port) string {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", testUser, testPassword, host, port.Port(), testDatabase)
	}

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{port},
		Cmd:          []string{"postgres", "-c", "fsync=off"},
		Env: map[string]string{
			"POSTGRES_DB":       testDatabase,
			"POSTGRES_PASSWORD": testPassword,
			"POSTGRES_USER":     testUser,
		},
		WaitingFor: wait.ForSQL(port, "postgres", dbURL).
			WithStartupTimeout(30 * time.Second).
			WithQuery("SELECT 1"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	return &PostgresContainer{
		Container:        container,
		ConnectionString: dbURL(host, mappedPort),
		Host:             host,
		Port:             mappedPort.Port(),
	}, nil
}

// RepositoryTestSuite runs repository tests against a throwaway postgres with the
// project's SQL migrations applied. Skipped with -short.
type RepositoryTestSuite struct {
	suite.Suite
	Container      *PostgresContainer
	DB             *gorm.DB
	SQLDB          *sql.DB
	MigrationsPath string
}

func (suite *RepositoryTestSuite) SetupSuite() {
	suite.T().Helper()

	if testing.Short() {
		suite.T().Skip("Skipping database integration tests in short mode")
	}

	if suite.MigrationsPath == "" {
		suite.MigrationsPath = findMigrationsPath()
	}

	ctx := context.Background()
	container, err := NewPostgresContainer(ctx)
	if err != nil {
		suite.T().Fatalf("Failed to create postgres container: %v", err)
	}
	suite.Container = container
	suite.T().Cleanup(suite.cleanup)

	suite.connect()
	if err := suite.RunMigrations(); err != nil {
		suite.T().Fatalf("Failed to run migrations: %v", err)
	}
}

func (suite *RepositoryTestSuite) connect() {
	sqlDB, err := sql.Open("postgres", suite.Container.ConnectionString)
	if err != nil {
		suite.T().Fatalf("Failed to open sql connection: %v", err)
	}
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		suite.T().Fatalf("Failed to ping database: %v", err)
	}
	suite.SQLDB = sqlDB

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		suite.T().Fatalf("Failed to open gorm connection: %v", err)
	}
	suite.DB = gormDB
}

func findMigrationsPath() string {
	wd, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return filepath.Join(wd, "migrations")
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			return ""
		}
		wd = parent
	}
}

// SetupTest empties every application table and resets identities.
func (suite *RepositoryTestSuite) SetupTest() {
	if suite.DB == nil {
		return
	}

	var tables []string
	suite.DB.Raw(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_type = 'BASE TABLE'
		AND table_name <> 'schema_migrations'
	`).Scan(&tables)
	if len(tables) == 0 {
		return
	}

	quoted := make([]string, len(tables))
	for i, table := range tables {
		quoted[i] = fmt.Sprintf("%q", table)
	}
	if err := suite.DB.Exec("TRUNCATE " + strings.Join(quoted, ", ") + " RESTART IDENTITY CASCADE").Error; err != nil {
		suite.T().Fatalf("Failed to truncate tables: %v", err)
	}
}

func (suite *RepositoryTestSuite) cleanup() {
	if suite.SQLDB != nil {
		_ = suite.SQLDB.Close()
	}
	if suite.Container != nil {
		_ = suite.Container.Terminate(context.Background())
	}
}

func (suite *RepositoryTestSuite) RunMigrations() error {
	if suite.MigrationsPath == "" {
		return errors.New("migrations path not set")
	}

	m, err := migrate.New("file://"+suite.MigrationsPath, suite.Container.ConnectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func (suite *RepositoryTestSuite) CountRecords(table string) int64 {
	var c int64
	suite.DB.Table(table).Count(&c)
	return c
}

func (suite *RepositoryTestSuite) ExecRaw(sql string, args ...interface{}) error {
	return suite.DB.Exec(sql, args...).Error
}
