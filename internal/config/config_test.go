package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log_level: info\n"))
	require.NoError(t, err)

	assert.Equal(t, ".pkg", cfg.Extension)
	assert.Equal(t, "json", cfg.ReportFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.HistoryEnabled)
	assert.False(t, cfg.Backup)
	assert.False(t, cfg.NoCache)
	assert.True(t, filepath.IsAbs(cfg.CatalogDir), "catalog dir should be resolved absolute")
	assert.NotEmpty(t, cfg.CacheDir)
	assert.NotEmpty(t, cfg.HistoryDB)
}

func TestLoadFromFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
catalog_dir: /data/catalogs
extension: .bin
report_format: yaml
backup: true
history_enabled: false
cache_ttl: 1h
`))
	require.NoError(t, err)

	assert.Equal(t, "/data/catalogs", cfg.CatalogDir)
	assert.Equal(t, ".bin", cfg.Extension)
	assert.Equal(t, "yaml", cfg.ReportFormat)
	assert.True(t, cfg.Backup)
	assert.False(t, cfg.HistoryEnabled)
	assert.Equal(t, time.Hour, cfg.CacheTTLDuration())
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("REPKG_LOG_LEVEL", "debug")
	t.Setenv("REPKG_CATALOG_DIR", "/from/env")

	cfg, err := Load(writeConfig(t, "log_level: warn\ncatalog_dir: /from/file\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/from/env", cfg.CatalogDir)
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "log_level: [unterminated\n"))
	require.Error(t, err)
}

func TestDurationFallbacks(t *testing.T) {
	cfg := &Config{CacheTTL: "bogus", WatchSettle: "", WatchMinGap: "-5s"}

	assert.Equal(t, 24*time.Hour, cfg.CacheTTLDuration())
	assert.Equal(t, 2*time.Second, cfg.WatchSettleDuration())
	assert.Equal(t, 10*time.Second, cfg.WatchMinGapDuration())

	cfg = &Config{CacheTTL: "30m", WatchSettle: "1s", WatchMinGap: "1m"}
	assert.Equal(t, 30*time.Minute, cfg.CacheTTLDuration())
	assert.Equal(t, time.Second, cfg.WatchSettleDuration())
	assert.Equal(t, time.Minute, cfg.WatchMinGapDuration())
}
