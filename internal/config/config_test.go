package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.News.BaseURL != "https://newsapi.org/v2" {
		t.Errorf("news base URL = %q", cfg.News.BaseURL)
	}
	if cfg.Fetch.TimeoutSec != 8 || cfg.Fetch.MaxPerSource != 5 {
		t.Errorf("fetch defaults wrong: %+v", cfg.Fetch)
	}
	if cfg.Fetch.Timeout() != 8*time.Second {
		t.Errorf("Timeout() = %v", cfg.Fetch.Timeout())
	}
	if cfg.Fetch.CacheTTL() != 10*time.Minute {
		t.Errorf("CacheTTL() = %v", cfg.Fetch.CacheTTL())
	}
	if cfg.Analysis.TopHoldings != 10 {
		t.Errorf("top holdings = %d", cfg.Analysis.TopHoldings)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("logging defaults wrong: %+v", cfg.Logging)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
news:
  api_key: "from-file"
fetch:
  timeout_sec: 3
  max_per_source: 2
analysis:
  top_holdings: 4
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.News.APIKey != "from-file" {
		t.Errorf("api key = %q", cfg.News.APIKey)
	}
	if cfg.Fetch.TimeoutSec != 3 || cfg.Fetch.MaxPerSource != 2 {
		t.Errorf("fetch = %+v", cfg.Fetch)
	}
	if cfg.Analysis.TopHoldings != 4 {
		t.Errorf("top holdings = %d", cfg.Analysis.TopHoldings)
	}
	// Unset keys keep their defaults.
	if cfg.Fetch.CacheTTLSec != 600 {
		t.Errorf("cache ttl = %d, want default 600", cfg.Fetch.CacheTTLSec)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestAPIKeyEnvOverride(t *testing.T) {
	t.Setenv("FUNDSIGHT_NEWS_API_KEY", "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.News.APIKey != "from-env" {
		t.Errorf("api key = %q, want from-env", cfg.News.APIKey)
	}
}

func TestAPIKeyPlainEnvFallback(t *testing.T) {
	t.Setenv("FUNDSIGHT_NEWS_API_KEY", "")
	t.Setenv("NEWS_API_KEY", "plain-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.News.APIKey != "plain-env" {
		t.Errorf("api key = %q, want plain-env", cfg.News.APIKey)
	}
}

func TestEnvPrefixOverride(t *testing.T) {
	t.Setenv("FUNDSIGHT_FETCH_TIMEOUT_SEC", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Fetch.TimeoutSec != 15 {
		t.Errorf("timeout = %d, want 15 from env", cfg.Fetch.TimeoutSec)
	}
}
