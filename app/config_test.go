package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/catalog/internal/cache"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, cache.MemoryBackend, cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Categories.NodeTTL)
	assert.Equal(t, 30*time.Minute, cfg.Categories.TreeTTL)
	assert.True(t, cfg.Categories.WarmOnStart)
	assert.True(t, cfg.Cache.Breaker.Enabled)
	assert.False(t, cfg.Security.Enabled())
}

func TestLoadConfigFileOverridesEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte("appport: \"9000\"\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.AppPort)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CACHE_BACKEND", "memcached")

	_, err := LoadConfig("")
	assert.Error(t, err)
}
