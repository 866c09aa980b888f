// Package config loads process configuration: server settings from the
// environment and the source registry from YAML.
package config

import (
	"fmt"
	"time"

	"course-analyzer/internal/usecase/analysis"
	pkgconfig "course-analyzer/pkg/config"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr            string
	Footer          string
	SourcesPath     string
	StrictAlignment bool
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxHeaderBytes  int
	Version         string
}

// LoadServerConfig reads ServerConfig from the environment.
// Invalid values fall back to defaults with a warning.
//
// Environment variables:
//   - HTTP_ADDR (":8080")
//   - ANALYZER_FOOTER
//   - SOURCES_CONFIG: path to the YAML registry, empty for built-in sources
//   - STRICT_ALIGNMENT: reject courses with misaligned instructor ratings
//   - SHUTDOWN_TIMEOUT (10s)
//   - VERSION
func LoadServerConfig() (ServerConfig, error) {
	cfg := ServerConfig{
		Addr:            pkgconfig.GetEnvString("HTTP_ADDR", ":8080"),
		Footer:          pkgconfig.GetEnvString("ANALYZER_FOOTER", analysis.DefaultFooter),
		SourcesPath:     pkgconfig.GetEnvString("SOURCES_CONFIG", ""),
		StrictAlignment: pkgconfig.GetEnvBool("STRICT_ALIGNMENT", false),
		ShutdownTimeout: pkgconfig.GetEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		ReadTimeout:     pkgconfig.GetEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    pkgconfig.GetEnvDuration("HTTP_WRITE_TIMEOUT", 2*time.Minute),
		MaxHeaderBytes:  pkgconfig.GetEnvInt("HTTP_MAX_HEADER_BYTES", 1<<20),
		Version:         pkgconfig.GetEnvString("VERSION", "dev"),
	}
	if cfg.ShutdownTimeout <= 0 {
		return cfg, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %v", cfg.ShutdownTimeout)
	}
	return cfg, nil
}

// EngineConfig returns the analysis engine settings.
func (c ServerConfig) EngineConfig() analysis.Config {
	return analysis.Config{Footer: c.Footer, StrictAlignment: c.StrictAlignment}
}
