// Package analysis implements the aggregation and filter engine.
// It ingests courses from registered data sources, derives missing course
// metrics, merges per-instructor statistics and answers filter queries over
// the aggregated state.
package analysis

import (
	"errors"
	"fmt"
)

// Sentinel errors for analysis use case operations.
var (
	// ErrSourceFetch indicates that a data source could not deliver its courses.
	// Every SourceFetchError matches it with errors.Is.
	ErrSourceFetch = errors.New("source fetch failed")
)

// SourceFetchError wraps a network, file or parse failure reported by a
// data source. The analysis that triggered it was aborted; courses ingested
// earlier in the process stay in place.
type SourceFetchError struct {
	Source string
	Err    error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("fetch courses from %q: %v", e.Source, e.Err)
}

func (e *SourceFetchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrSourceFetch.
func (e *SourceFetchError) Is(target error) bool {
	return target == ErrSourceFetch
}
