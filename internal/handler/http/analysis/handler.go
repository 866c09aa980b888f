// Package analysis exposes the aggregation engine over HTTP.
package analysis

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"course-analyzer/internal/domain/entity"
	"course-analyzer/internal/handler/http/respond"
	"course-analyzer/internal/observability/logging"
	analysisUC "course-analyzer/internal/usecase/analysis"
)

// Service is the part of the engine the handlers use.
type Service interface {
	RunAnalysisAt(ctx context.Context, index int) (bool, error)
	Snapshot() analysisUC.Result
	Configuration() analysisUC.Result
	CourseResult(f entity.CourseFilter) analysisUC.Result
	InstructorResult(f entity.InstructorFilter) analysisUC.Result
}

// PluginHandler runs the analysis of the source at index i and returns all
// analyzed courses and instructors. An index without a source leaves the
// state untouched and returns the configuration.
type PluginHandler struct {
	Svc    Service
	Logger *slog.Logger
}

func (h PluginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.Logger)
	ctx := logging.WithLogger(r.Context(), logger)

	index, err := ParseSourceIndex(r.URL.Query())
	if err != nil {
		logger.Warn("invalid source index", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	found, err := h.Svc.RunAnalysisAt(ctx, index)
	if err != nil {
		logger.Error("analysis failed", slog.Int("index", index), slog.Any("error", err))
		writeError(w, err)
		return
	}
	if !found {
		respond.JSON(w, http.StatusOK, NewResultDTO(h.Svc.Configuration()))
		return
	}
	respond.JSON(w, http.StatusOK, NewResultDTO(h.Svc.Snapshot()))
}

// CoursesHandler filters analyzed courses.
type CoursesHandler struct {
	Svc    Service
	Logger *slog.Logger
}

func (h CoursesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f, err := ParseCourseFilter(r.URL.Query())
	if err != nil {
		logging.WithRequestID(r.Context(), h.Logger).Warn("invalid course filter",
			slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, NewResultDTO(h.Svc.CourseResult(f)))
}

// InstructorsHandler filters aggregated instructors.
type InstructorsHandler struct {
	Svc    Service
	Logger *slog.Logger
}

func (h InstructorsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f, err := ParseInstructorFilter(r.URL.Query())
	if err != nil {
		logging.WithRequestID(r.Context(), h.Logger).Warn("invalid instructor filter",
			slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, NewResultDTO(h.Svc.InstructorResult(f)))
}

// ConfigurationHandler returns the engine name, footer and registered sources.
type ConfigurationHandler struct {
	Svc Service
}

func (h ConfigurationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, NewResultDTO(h.Svc.Configuration()))
}

// writeError maps engine and query errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		respond.SafeError(w, http.StatusBadRequest, err)
	case errors.Is(err, analysisUC.ErrSourceFetch):
		respond.SafeErrorV2(w, http.StatusBadGateway,
			respond.NewAppError(http.StatusBadGateway, "source fetch failed", err))
	case errors.Is(err, entity.ErrMalformedRecord):
		respond.SafeErrorV2(w, http.StatusBadGateway,
			respond.NewAppError(http.StatusBadGateway, "source returned a malformed record", err))
	case errors.Is(err, context.DeadlineExceeded):
		respond.SafeErrorV2(w, http.StatusGatewayTimeout,
			respond.NewAppError(http.StatusGatewayTimeout, "analysis timed out", err))
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
