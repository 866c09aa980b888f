package fetcher_test

import (
	"strings"
	"testing"
	"time"

	"course-analyzer/internal/infra/fetcher"
)

func TestDefaultConfig(t *testing.T) {
	cfg := fetcher.DefaultConfig()

	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected Timeout=10s, got %v", cfg.Timeout)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("expected MaxAttempts=3, got %d", cfg.MaxAttempts)
	}
	if cfg.MaxBodySize != 10*1024*1024 {
		t.Errorf("expected MaxBodySize=10MB, got %d", cfg.MaxBodySize)
	}
	if cfg.MaxRedirects != 5 {
		t.Errorf("expected MaxRedirects=5, got %d", cfg.MaxRedirects)
	}
	if cfg.UserAgent == "" {
		t.Error("expected a default User-Agent")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid, got error: %v", err)
	}
}

func TestConfigValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*fetcher.SourceFetchConfig)
		wantErr string
	}{
		{"zero timeout", func(c *fetcher.SourceFetchConfig) { c.Timeout = 0 }, "timeout"},
		{"zero attempts", func(c *fetcher.SourceFetchConfig) { c.MaxAttempts = 0 }, "max attempts"},
		{"too many attempts", func(c *fetcher.SourceFetchConfig) { c.MaxAttempts = 11 }, "max attempts"},
		{"tiny body", func(c *fetcher.SourceFetchConfig) { c.MaxBodySize = 10 }, "max body size"},
		{"huge body", func(c *fetcher.SourceFetchConfig) { c.MaxBodySize = 200 * 1024 * 1024 }, "max body size"},
		{"negative redirects", func(c *fetcher.SourceFetchConfig) { c.MaxRedirects = -1 }, "max redirects"},
		{"negative rps", func(c *fetcher.SourceFetchConfig) { c.RequestsPerSecond = -1 }, "requests per second"},
		{"zero burst", func(c *fetcher.SourceFetchConfig) { c.Burst = 0 }, "burst"},
		{"zero parallelism", func(c *fetcher.SourceFetchConfig) { c.Parallelism = 0 }, "parallelism"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fetcher.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidate_PacingDisabledIgnoresBurst(t *testing.T) {
	cfg := fetcher.DefaultConfig()
	cfg.RequestsPerSecond = 0
	cfg.Burst = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config with pacing disabled, got %v", err)
	}
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	cfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != fetcher.DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("SOURCE_FETCH_TIMEOUT", "3s")
	t.Setenv("SOURCE_FETCH_MAX_ATTEMPTS", "5")
	t.Setenv("SOURCE_FETCH_MAX_BODY_SIZE", "2048")
	t.Setenv("SOURCE_FETCH_USER_AGENT", "test-agent")
	t.Setenv("SOURCE_FETCH_RPS", "0")
	t.Setenv("SOURCE_FETCH_PARALLELISM", "8")

	cfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("expected Timeout=3s, got %v", cfg.Timeout)
	}
	if cfg.MaxAttempts != 5 {
		t.Errorf("expected MaxAttempts=5, got %d", cfg.MaxAttempts)
	}
	if cfg.MaxBodySize != 2048 {
		t.Errorf("expected MaxBodySize=2048, got %d", cfg.MaxBodySize)
	}
	if cfg.UserAgent != "test-agent" {
		t.Errorf("expected UserAgent=test-agent, got %q", cfg.UserAgent)
	}
	if cfg.RequestsPerSecond != 0 {
		t.Errorf("expected pacing disabled, got %v", cfg.RequestsPerSecond)
	}
	if cfg.Parallelism != 8 {
		t.Errorf("expected Parallelism=8, got %d", cfg.Parallelism)
	}
}

func TestLoadConfigFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SOURCE_FETCH_TIMEOUT", "soon"},
		{"SOURCE_FETCH_MAX_ATTEMPTS", "three"},
		{"SOURCE_FETCH_MAX_BODY_SIZE", "big"},
		{"SOURCE_FETCH_RPS", "fast"},
		{"SOURCE_FETCH_MAX_ATTEMPTS", "50"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := fetcher.LoadConfigFromEnv(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
