package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":4000", cfg.Server.Addr)
	assert.Equal(t, 15, cfg.Server.ReadTimeoutSec)
	assert.Equal(t, 15, cfg.Server.WriteTimeoutSec)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeoutSec)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.Migrations.AutoApply)
}

func TestLoad(t *testing.T) {
	t.Run("reads file and applies defaults to missing keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dayplan.yaml")
		content := `
server:
  addr: ":9090"
database:
  url: postgres://localhost/dayplan_test?sslmode=disable
  max_open_conns: 3
migrations:
  auto_apply: true
log:
  level: debug
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Addr)
		assert.Equal(t, "postgres://localhost/dayplan_test?sslmode=disable", cfg.Database.URL)
		assert.Equal(t, 3, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Migrations.AutoApply)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 15, cfg.Server.ReadTimeoutSec)
	})

	t.Run("missing explicit path is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dayplan.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: [not: valid"), 0644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dayplan.yaml")

	cfg := Default()
	cfg.Database.URL = "postgres://localhost/dayplan?sslmode=disable"
	cfg.Migrations.AutoApply = true

	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Database.URL, loaded.Database.URL)
	assert.True(t, loaded.Migrations.AutoApply)
	assert.Equal(t, cfg.Server.Addr, loaded.Server.Addr)
}
