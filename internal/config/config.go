// Package config handles configuration loading for fundsight.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	News     NewsConfig     `mapstructure:"news"     yaml:"news"`
	Fetch    FetchConfig    `mapstructure:"fetch"    yaml:"fetch"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// NewsConfig holds the structured news API settings. The API key is an
// opaque credential: when empty, the NewsAPI adapter degrades to
// returning no results instead of failing.
type NewsConfig struct {
	APIKey  string `mapstructure:"api_key"  yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// FetchConfig holds settings shared by all provider adapters.
type FetchConfig struct {
	TimeoutSec    int `mapstructure:"timeout_sec"      yaml:"timeout_sec"`      // per-adapter deadline
	MaxPerSource  int `mapstructure:"max_per_source"   yaml:"max_per_source"`   // headlines kept per adapter
	CacheTTLSec   int `mapstructure:"cache_ttl_sec"    yaml:"cache_ttl_sec"`    // adapter response cache
	APIRatePerSec int `mapstructure:"api_rate_per_sec" yaml:"api_rate_per_sec"` // NewsAPI token bucket
}

// Timeout returns the per-adapter fetch deadline.
func (f FetchConfig) Timeout() time.Duration { return time.Duration(f.TimeoutSec) * time.Second }

// CacheTTL returns the adapter response cache lifetime.
func (f FetchConfig) CacheTTL() time.Duration { return time.Duration(f.CacheTTLSec) * time.Second }

// AnalysisConfig holds orchestrator settings.
type AnalysisConfig struct {
	TopHoldings int `mapstructure:"top_holdings" yaml:"top_holdings"` // holdings listed in fund rollups
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.fundsight/config.yaml (home directory)
//  3. /etc/fundsight/config.yaml (system)
//
// Environment variables override config file values.
// Format: FUNDSIGHT_<SECTION>_<KEY>, e.g., FUNDSIGHT_NEWS_API_KEY
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".fundsight"))
	v.AddConfigPath("/etc/fundsight")

	v.SetEnvPrefix("FUNDSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file not required to exist; defaults + env vars suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("FUNDSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("news.base_url", "https://newsapi.org/v2")

	v.SetDefault("fetch.timeout_sec", 8)
	v.SetDefault("fetch.max_per_source", 5)
	v.SetDefault("fetch.cache_ttl_sec", 600) // 10 minutes
	v.SetDefault("fetch.api_rate_per_sec", 1)

	v.SetDefault("analysis.top_holdings", 10)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("FUNDSIGHT_NEWS_API_KEY"); key != "" {
		cfg.News.APIKey = key
	}
	// Accepted for compatibility with plain NewsAPI setups.
	if key := os.Getenv("NEWS_API_KEY"); key != "" && cfg.News.APIKey == "" {
		cfg.News.APIKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
