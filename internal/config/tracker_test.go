package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/STTM-NSU/portfolio-tracker/internal/logger"
	"github.com/STTM-NSU/portfolio-tracker/internal/portfolio"
	"github.com/STTM-NSU/portfolio-tracker/internal/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerConfig_Defaults(t *testing.T) {
	var cfg TrackerConfig
	require.NoError(t, cfg.ValidateAndSetup())

	assert.Equal(t, "ARS", cfg.BaseCurrency)
	assert.Equal(t, "./configs/snapshot.yaml", cfg.SnapshotPath)
	assert.Equal(t, time.Minute, cfg.SnapshotReloadInterval)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 10, cfg.RecomputePerSecond)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, portfolio.Config{BaseCurrency: "ARS", OversellPolicy: portfolio.Lenient}, cfg.Evaluation())
	assert.Equal(t, logger.Info, cfg.Level())
}

func TestTrackerConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  TrackerConfig
	}{
		{name: "policy", cfg: TrackerConfig{OversellPolicy: "ignore"}},
		{name: "log level", cfg: TrackerConfig{LogLevel: "loud"}},
		{name: "port", cfg: TrackerConfig{HTTP: HTTPConfig{Port: "http"}}},
		{name: "database port", cfg: TrackerConfig{Database: postgres.Config{Port: "pg"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.ValidateAndSetup())
		})
	}
}

func TestLoadTrackerConfig(t *testing.T) {
	const content = `
base_currency: usd
oversell_policy: clamp
snapshot_path: /tmp/snapshot.yaml
snapshot_reload_interval: 30s
recompute_per_second: 2
http:
  port: "9090"
database:
  host: db.internal
  db_name: books
  max_open_conns: 4
log_level: debug
`
	t.Setenv("POSTGRES_HOST", "")
	t.Setenv("POSTGRES_DB_NAME", "from-env")
	t.Setenv("POSTGRES_PASSWORD", "secret")

	path := filepath.Join(t.TempDir(), "tracker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadTrackerConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "USD", cfg.BaseCurrency)
	assert.Equal(t, portfolio.Clamp, cfg.Evaluation().OversellPolicy)
	assert.Equal(t, 30*time.Second, cfg.SnapshotReloadInterval)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 2, cfg.RecomputePerSecond)
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "from-env", cfg.Database.DBName)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
	assert.Equal(t, logger.Debug, cfg.Level())
}

func TestLoadTrackerConfig_MissingFile(t *testing.T) {
	_, err := LoadTrackerConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
