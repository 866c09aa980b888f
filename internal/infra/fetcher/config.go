// Package fetcher provides the outbound HTTP client shared by data sources.
// Every request runs under a per-attempt timeout, bounded retries, a circuit
// breaker and an optional request rate limit.
package fetcher

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// SourceFetchConfig holds the configuration for outbound source requests.
//
// Resilience settings:
//   - Timeout: bounds every single attempt
//   - MaxAttempts: bounds the number of attempts per request
//   - MaxBodySize: rejects oversized responses
//   - MaxRedirects: stops redirect loops
//
// Politeness settings:
//   - RequestsPerSecond / Burst: pace requests to one source
//   - Parallelism: concurrent requests per source for fan-out fetches
type SourceFetchConfig struct {
	// Timeout is the maximum duration for a single HTTP attempt.
	// Default: 10s
	Timeout time.Duration

	// MaxAttempts is the number of attempts per request, including the first.
	// Default: 3
	MaxAttempts int

	// MaxBodySize is the maximum HTTP response body size in bytes.
	// Enforced while reading, not from Content-Length.
	// Default: 10485760 (10MB)
	MaxBodySize int64

	// MaxRedirects is the maximum number of HTTP redirects to follow.
	// Default: 5
	MaxRedirects int

	// UserAgent is sent with every request.
	UserAgent string

	// RequestsPerSecond limits the request rate per source. Zero disables pacing.
	// Default: 5
	RequestsPerSecond float64

	// Burst is the token bucket size for RequestsPerSecond.
	// Default: 5
	Burst int

	// Parallelism is the maximum number of concurrent requests a source may
	// issue while fanning out, e.g. per-course detail lookups.
	// Default: 4
	Parallelism int
}

// DefaultConfig returns the default configuration for source fetching.
func DefaultConfig() SourceFetchConfig {
	return SourceFetchConfig{
		Timeout:           10 * time.Second,
		MaxAttempts:       3,
		MaxBodySize:       10 * 1024 * 1024, // 10MB
		MaxRedirects:      5,
		UserAgent:         "CourseAnalyzerBot/1.0",
		RequestsPerSecond: 5,
		Burst:             5,
		Parallelism:       4,
	}
}

// Validate checks if the configuration values are valid.
//
// Validation rules:
//   - Timeout: > 0
//   - MaxAttempts: 1-10
//   - MaxBodySize: 1KB-100MB
//   - MaxRedirects: 0-10
//   - RequestsPerSecond: >= 0, Burst >= 1 when pacing is on
//   - Parallelism: 1-32
func (c *SourceFetchConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	if c.MaxAttempts < 1 || c.MaxAttempts > 10 {
		return fmt.Errorf("max attempts must be between 1 and 10, got %d", c.MaxAttempts)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second must be non-negative, got %v", c.RequestsPerSecond)
	}
	if c.RequestsPerSecond > 0 && c.Burst < 1 {
		return fmt.Errorf("burst must be at least 1 when pacing is enabled, got %d", c.Burst)
	}

	if c.Parallelism < 1 || c.Parallelism > 32 {
		return fmt.Errorf("parallelism must be between 1 and 32, got %d", c.Parallelism)
	}

	return nil
}

// LoadConfigFromEnv loads configuration from environment variables.
// Unset variables keep their defaults; unparsable ones are errors.
//
// Environment variables:
//   - SOURCE_FETCH_TIMEOUT: duration string, e.g. "10s"
//   - SOURCE_FETCH_MAX_ATTEMPTS: integer
//   - SOURCE_FETCH_MAX_BODY_SIZE: integer in bytes
//   - SOURCE_FETCH_MAX_REDIRECTS: integer
//   - SOURCE_FETCH_USER_AGENT: string
//   - SOURCE_FETCH_RPS: float, 0 disables pacing
//   - SOURCE_FETCH_BURST: integer
//   - SOURCE_FETCH_PARALLELISM: integer
func LoadConfigFromEnv() (SourceFetchConfig, error) {
	cfg := DefaultConfig()

	if val := os.Getenv("SOURCE_FETCH_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid SOURCE_FETCH_TIMEOUT: %v (expected format: '10s', '1m')", err)
		}
		cfg.Timeout = parsed
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"SOURCE_FETCH_MAX_ATTEMPTS", &cfg.MaxAttempts},
		{"SOURCE_FETCH_MAX_REDIRECTS", &cfg.MaxRedirects},
		{"SOURCE_FETCH_BURST", &cfg.Burst},
		{"SOURCE_FETCH_PARALLELISM", &cfg.Parallelism},
	}
	for _, v := range ints {
		val := os.Getenv(v.key)
		if val == "" {
			continue
		}
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %v", v.key, err)
		}
		*v.dst = parsed
	}

	if val := os.Getenv("SOURCE_FETCH_MAX_BODY_SIZE"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid SOURCE_FETCH_MAX_BODY_SIZE: %v", err)
		}
		cfg.MaxBodySize = parsed
	}

	if val := os.Getenv("SOURCE_FETCH_RPS"); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid SOURCE_FETCH_RPS: %v", err)
		}
		cfg.RequestsPerSecond = parsed
	}

	if val := os.Getenv("SOURCE_FETCH_USER_AGENT"); val != "" {
		cfg.UserAgent = val
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
