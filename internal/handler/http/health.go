// Package http wires the HTTP surface of the course analyzer: health and
// liveness endpoints, Prometheus metrics and the shared middleware.
package http

import (
	"net/http"
	"time"

	"course-analyzer/internal/handler/http/respond"
	"course-analyzer/internal/usecase/analysis"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "degraded"
	Timestamp string                 `json:"timestamp"` // RFC 3339, UTC
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// StatsProvider exposes aggregate state counters.
type StatsProvider interface {
	Stats() analysis.Stats
}

// CircuitReporter exposes the circuit breaker state of one source client.
type CircuitReporter interface {
	Source() string
	CircuitState() string
}

// HealthHandler reports engine statistics and source circuit states.
// An open circuit marks the service degraded but still answers 200, since
// queries over already analyzed data keep working.
type HealthHandler struct {
	Engine   StatsProvider
	Circuits []CircuitReporter
	Version  string
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := map[string]CheckStatus{
		"engine": h.checkEngine(),
	}
	status := "healthy"
	if len(h.Circuits) > 0 {
		c := h.checkCircuits()
		checks["sources"] = c
		if c.Status != "healthy" {
			status = "degraded"
		}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) checkEngine() CheckStatus {
	if h.Engine == nil {
		return CheckStatus{Status: "healthy", Message: "not configured"}
	}
	s := h.Engine.Stats()
	return CheckStatus{
		Status: "healthy",
		Details: map[string]any{
			"registered_sources": s.RegisteredSources,
			"analyzed_sources":   s.AnalyzedSources,
			"courses":            s.Courses,
			"instructors":        s.Instructors,
		},
	}
}

func (h *HealthHandler) checkCircuits() CheckStatus {
	details := make(map[string]any, len(h.Circuits))
	open := 0
	for _, c := range h.Circuits {
		state := c.CircuitState()
		details[c.Source()] = state
		if state != "closed" {
			open++
		}
	}
	if open > 0 {
		return CheckStatus{Status: "degraded", Message: "source circuit breaker not closed", Details: details}
	}
	return CheckStatus{Status: "healthy", Details: details}
}

// LiveHandler answers liveness probes.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
