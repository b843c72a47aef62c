package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for repkg.
type Config struct {
	CatalogDir     string `mapstructure:"catalog_dir"`
	Extension      string `mapstructure:"extension"`
	ReportDir      string `mapstructure:"report_dir"`
	ReportFormat   string `mapstructure:"report_format"`
	CacheDir       string `mapstructure:"cache_dir"`
	CacheTTL       string `mapstructure:"cache_ttl"`
	NoCache        bool   `mapstructure:"no_cache"`
	HistoryDB      string `mapstructure:"history_db"`
	HistoryEnabled bool   `mapstructure:"history_enabled"`
	Backup         bool   `mapstructure:"backup"`
	WatchSettle    string `mapstructure:"watch_settle"`
	WatchMinGap    string `mapstructure:"watch_min_gap"`
	LogLevel       string `mapstructure:"log_level"`
	LogFile        string `mapstructure:"log_file"`
}

// Load reads configuration from file, environment, and defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("catalog_dir", ".")
	v.SetDefault("extension", ".pkg")
	v.SetDefault("report_dir", ".")
	v.SetDefault("report_format", "json")
	v.SetDefault("cache_dir", defaultCacheDir())
	v.SetDefault("cache_ttl", "24h")
	v.SetDefault("no_cache", false)
	v.SetDefault("history_db", defaultHistoryDB())
	v.SetDefault("history_enabled", true)
	v.SetDefault("backup", false)
	v.SetDefault("watch_settle", "2s")
	v.SetDefault("watch_min_gap", "10s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/repkg")
	}

	// Environment variables
	v.SetEnvPrefix("REPKG")
	v.AutomaticEnv()

	// Bind specific env vars
	_ = v.BindEnv("catalog_dir", "REPKG_CATALOG_DIR")
	_ = v.BindEnv("report_dir", "REPKG_REPORT_DIR")
	_ = v.BindEnv("history_db", "REPKG_HISTORY_DB")
	_ = v.BindEnv("log_level", "REPKG_LOG_LEVEL")
	_ = v.BindEnv("log_file", "REPKG_LOG_FILE")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Resolve catalog dir to absolute
	if !filepath.IsAbs(cfg.CatalogDir) {
		abs, err := filepath.Abs(cfg.CatalogDir)
		if err != nil {
			return nil, fmt.Errorf("resolving catalog dir: %w", err)
		}
		cfg.CatalogDir = abs
	}

	return &cfg, nil
}

// CacheTTLDuration parses the configured cache TTL, falling back to a
// day when unset or invalid.
func (c *Config) CacheTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// WatchSettleDuration parses the watch settle period.
func (c *Config) WatchSettleDuration() time.Duration {
	d, err := time.ParseDuration(c.WatchSettle)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

// WatchMinGapDuration parses the minimum spacing between watch passes.
func (c *Config) WatchMinGapDuration() time.Duration {
	d, err := time.ParseDuration(c.WatchMinGap)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/repkg-cache"
	}
	return filepath.Join(home, ".cache", "repkg")
}

func defaultHistoryDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "repkg_history.db"
	}
	return filepath.Join(home, ".local", "share", "repkg", "history.db")
}
