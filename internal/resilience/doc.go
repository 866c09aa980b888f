// Package resilience provides fault tolerance patterns for outbound calls
// made by data sources.
//
// The subpackages supply:
//   - circuitbreaker: per-endpoint circuit breakers built on sony/gobreaker
//   - retry: bounded retries with exponential backoff, jitter and Retry-After
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.SourceConfig("fce"))
//	err := retry.WithBackoff(ctx, retry.SourceFetchConfig("fce", 3), func() error {
//	    body, err := circuitbreaker.Do(cb, func() ([]byte, error) {
//	        return get(ctx, url)
//	    })
//	    ...
//	})
package resilience
