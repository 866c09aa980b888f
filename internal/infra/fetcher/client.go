package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"course-analyzer/internal/observability/metrics"
	"course-analyzer/internal/resilience/circuitbreaker"
	"course-analyzer/internal/resilience/retry"

	"golang.org/x/time/rate"
)

// ErrBodyTooLarge is returned when a response exceeds MaxBodySize.
var ErrBodyTooLarge = errors.New("response body exceeds size limit")

// Client performs GET requests on behalf of one data source.
type Client struct {
	source         string
	cfg            SourceFetchConfig
	http           *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	limiter        *rate.Limiter
}

// New creates a Client for the named source. A nil httpClient gets a client
// honoring cfg.MaxRedirects; per-attempt timeouts come from cfg.Timeout.
func New(source string, cfg SourceFetchConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > cfg.MaxRedirects {
					return fmt.Errorf("stopped after %d redirects", cfg.MaxRedirects)
				}
				return nil
			},
		}
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.Burst, 1))
	}
	return &Client{
		source:         source,
		cfg:            cfg,
		http:           httpClient,
		circuitBreaker: circuitbreaker.New(circuitbreaker.SourceConfig(source)),
		retryConfig:    retry.SourceFetchConfig(source, cfg.MaxAttempts),
		limiter:        limiter,
	}
}

// Config returns the configuration the client was built with.
func (c *Client) Config() SourceFetchConfig {
	return c.cfg
}

// Source returns the name of the source the client fetches for.
func (c *Client) Source() string {
	return c.source
}

// CircuitState reports the breaker state: "closed", "half-open" or "open".
func (c *Client) CircuitState() string {
	return c.circuitBreaker.State().String()
}

// Get fetches url and returns the response body. header may be nil.
// Non-2xx responses yield *retry.HTTPError; transient failures are retried.
func (c *Client) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	var body []byte
	err := retry.WithBackoff(ctx, c.retryConfig, func() error {
		b, err := circuitbreaker.Do(c.circuitBreaker, func() ([]byte, error) {
			return c.doGet(ctx, url, header)
		})
		if err != nil {
			if errors.Is(err, circuitbreaker.ErrOpen) {
				metrics.RecordSourceHTTPRequest(c.source, "circuit_open", 0)
				slog.Warn("source circuit breaker open, request rejected",
					slog.String("source", c.source),
					slog.String("url", url),
					slog.String("state", c.circuitBreaker.State().String()))
			}
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	return body, nil
}

// GetJSON fetches url and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, header http.Header, out any) error {
	body, err := c.Get(ctx, url, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// doGet performs a single attempt without retry or circuit breaker.
func (c *Client) doGet(ctx context.Context, url string, header http.Header) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("User-Agent") == "" && c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordSourceHTTPRequest(c.source, "failure", 0)
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodySize+1))
	if err != nil {
		metrics.RecordSourceHTTPRequest(c.source, "failure", 0)
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordSourceHTTPRequest(c.source, "failure", len(body))
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
			RetryAfter: retry.ParseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	if int64(len(body)) > c.cfg.MaxBodySize {
		metrics.RecordSourceHTTPRequest(c.source, "failure", len(body))
		return nil, fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, c.cfg.MaxBodySize)
	}

	metrics.RecordSourceHTTPRequest(c.source, "success", len(body))
	slog.Debug("source request completed",
		slog.String("source", c.source),
		slog.String("url", url),
		slog.Int("bytes", len(body)),
		slog.Duration("duration", time.Since(start)))
	return body, nil
}
