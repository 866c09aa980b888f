package source

import (
	"fmt"
	"net/http"

	"course-analyzer/internal/config"
	"course-analyzer/internal/infra/fetcher"
	"course-analyzer/internal/usecase/analysis"
)

// Factory builds sources from the registry configuration. Every network
// source gets its own fetcher.Client, so retries, circuit breaker state and
// pacing are tracked per source.
type Factory struct {
	fetchConfig fetcher.SourceFetchConfig
	httpClient  *http.Client
	clients     []*fetcher.Client
}

// NewFactory creates a Factory. httpClient may be nil.
func NewFactory(fetchConfig fetcher.SourceFetchConfig, httpClient *http.Client) *Factory {
	return &Factory{fetchConfig: fetchConfig, httpClient: httpClient}
}

// Build returns the enabled sources in configuration order.
func (f *Factory) Build(cfg *config.SourcesConfig) ([]analysis.Source, error) {
	enabled := cfg.EnabledSources()
	sources := make([]analysis.Source, 0, len(enabled))
	for _, entry := range enabled {
		src, err := f.build(entry)
		if err != nil {
			return nil, fmt.Errorf("build source %q: %w", entry.Name, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func (f *Factory) build(e config.SourceEntry) (analysis.Source, error) {
	switch e.Type {
	case config.SourceTypeExample:
		return NewExample(e.Name, e.Seed), nil
	case config.SourceTypeCSV:
		return NewCSV(e.Name, e.Dir), nil
	case config.SourceTypeFCE:
		return NewFCE(e.Name, e.BaseURL, e.Years, f.client(e.Name)), nil
	case config.SourceTypeUdemy:
		return NewUdemy(e.Name, UdemyOptions{
			BaseURL:        e.BaseURL,
			Keyword:        e.Keyword,
			Language:       e.Language,
			PageSize:       e.PageSize,
			ReviewPageSize: e.ReviewPageSize,
			Year:           e.Year,
			AccessToken:    e.AccessToken(),
		}, f.client(e.Name)), nil
	case config.SourceTypeCatalog:
		if e.Catalog == nil {
			return nil, fmt.Errorf("catalog selectors are required")
		}
		return NewCatalog(e.Name, e.BaseURL, *e.Catalog, f.client(e.Name)), nil
	default:
		return nil, fmt.Errorf("unknown source type %q", e.Type)
	}
}

func (f *Factory) client(name string) *fetcher.Client {
	c := fetcher.New(name, f.fetchConfig, f.httpClient)
	f.clients = append(f.clients, c)
	return c
}

// Clients returns the HTTP clients created by Build, for health reporting.
func (f *Factory) Clients() []*fetcher.Client {
	return f.clients
}
