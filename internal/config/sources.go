package config

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"course-analyzer/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

//go:embed default_sources.yaml
var defaultSourcesFS embed.FS

// Source types understood by the source factory.
const (
	SourceTypeExample = "example"
	SourceTypeCSV     = "csv"
	SourceTypeFCE     = "fce"
	SourceTypeUdemy   = "udemy"
	SourceTypeCatalog = "catalog"
)

var validSourceTypes = map[string]bool{
	SourceTypeExample: true,
	SourceTypeCSV:     true,
	SourceTypeFCE:     true,
	SourceTypeUdemy:   true,
	SourceTypeCatalog: true,
}

// SourceEntry describes one data source. Only the fields of its type are read.
type SourceEntry struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Enabled bool   `yaml:"enabled"`

	// example
	Seed int64 `yaml:"seed,omitempty"`

	// csv: directory holding courses.csv and ratings.csv
	Dir string `yaml:"dir,omitempty"`

	// fce, udemy, catalog
	BaseURL string `yaml:"base_url,omitempty"`

	// fce
	Years []int `yaml:"years,omitempty"`

	// udemy
	Keyword        string `yaml:"keyword,omitempty"`
	Language       string `yaml:"language,omitempty"`
	PageSize       int    `yaml:"page_size,omitempty"`
	ReviewPageSize int    `yaml:"review_page_size,omitempty"`
	Year           int    `yaml:"year,omitempty"`
	AccessTokenEnv string `yaml:"access_token_env,omitempty"`

	// catalog
	Catalog *CatalogSelectors `yaml:"catalog,omitempty"`
}

// CatalogSelectors locates course fields on an HTML catalog page.
type CatalogSelectors struct {
	Item         string `yaml:"item"`
	Name         string `yaml:"name"`
	Instructor   string `yaml:"instructor"`
	Category     string `yaml:"category,omitempty"`
	Level        string `yaml:"level,omitempty"`
	Rate         string `yaml:"rate,omitempty"`
	Price        string `yaml:"price,omitempty"`
	Organization string `yaml:"organization,omitempty"`
	Year         int    `yaml:"year,omitempty"`
}

// AccessToken resolves the token from the environment variable named by
// AccessTokenEnv. It returns "" when unset.
func (e SourceEntry) AccessToken() string {
	if e.AccessTokenEnv == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(e.AccessTokenEnv))
}

// SourcesConfig is the ordered source registry.
type SourcesConfig struct {
	Sources []SourceEntry `yaml:"sources"`
}

// EnabledSources returns the enabled entries in configuration order.
func (c *SourcesConfig) EnabledSources() []SourceEntry {
	var out []SourceEntry
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// DefaultSourcesConfig returns the built-in registry.
func DefaultSourcesConfig() (*SourcesConfig, error) {
	data, err := defaultSourcesFS.ReadFile("default_sources.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded sources config: %w", err)
	}
	return ParseSourcesConfig(data)
}

// LoadSourcesConfig loads the registry from path. An empty path yields the
// built-in registry. The path comes from trusted configuration.
func LoadSourcesConfig(path string) (*SourcesConfig, error) {
	if path == "" {
		return DefaultSourcesConfig()
	}
	// #nosec G304 -- path is provided by the operator, not request input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources config: %w", err)
	}
	cfg, err := ParseSourcesConfig(data)
	if err != nil {
		return nil, fmt.Errorf("sources config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseSourcesConfig decodes and validates a YAML registry.
func ParseSourcesConfig(data []byte) (*SourcesConfig, error) {
	var cfg SourcesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validateSourcesConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func validateSourcesConfig(cfg *SourcesConfig) error {
	seen := make(map[string]bool, len(cfg.Sources))
	for i, s := range cfg.Sources {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("source %q: duplicate name", s.Name)
		}
		seen[s.Name] = true

		if !validSourceTypes[s.Type] {
			return fmt.Errorf("source %q: unknown type %q (valid: example, csv, fce, udemy, catalog)", s.Name, s.Type)
		}

		switch s.Type {
		case SourceTypeCSV:
			if s.Dir == "" {
				return fmt.Errorf("source %q: dir is required", s.Name)
			}
		case SourceTypeFCE, SourceTypeUdemy, SourceTypeCatalog:
			if err := entity.ValidateURL("base_url", s.BaseURL); err != nil {
				return fmt.Errorf("source %q: %w", s.Name, err)
			}
		}

		if s.Type == SourceTypeCatalog {
			if s.Catalog == nil || s.Catalog.Item == "" || s.Catalog.Name == "" {
				return fmt.Errorf("source %q: catalog.item and catalog.name selectors are required", s.Name)
			}
		}
	}
	return nil
}
