package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"course-analyzer/internal/domain/entity"
	"course-analyzer/internal/observability/logging"
	"course-analyzer/internal/observability/metrics"
	"course-analyzer/internal/observability/tracing"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// DefaultName is reported as the engine name until a source has been analyzed.
	DefaultName = "A course analysis framework"
	// DefaultFooter is the footer text until SetFooter is called.
	DefaultFooter = "Default footer"
)

// Source supplies course records to the engine.
// FetchCourses may block on I/O and should honor ctx cancellation.
type Source interface {
	Name() string
	FetchCourses(ctx context.Context) ([]*entity.Course, error)
}

// Config controls engine behavior.
type Config struct {
	// Footer is the initial footer text. Empty means DefaultFooter.
	Footer string
	// StrictAlignment rejects courses with reviews that carry fewer
	// instructor ratings than the course has instructors.
	StrictAlignment bool
}

// Stats summarizes the aggregate state.
type Stats struct {
	RegisteredSources int
	AnalyzedSources   int
	Courses           int
	Instructors       int
}

// Engine owns the aggregate state: registered sources, analyzed source names,
// analyzed courses and aggregated instructors. All methods are safe for
// concurrent use. Mutations take the write lock; queries take the read lock.
type Engine struct {
	mu sync.RWMutex

	sources     []Source
	analyzed    map[string]struct{}
	current     string
	started     bool
	courses     []*entity.Course
	instructors map[string]*entity.Instructor
	// instructorOrder preserves first-seen order for filtering.
	instructorOrder []*entity.Instructor
	footer          string

	strictAlignment bool
}

// NewEngine creates an empty engine.
func NewEngine(cfg Config) *Engine {
	footer := cfg.Footer
	if footer == "" {
		footer = DefaultFooter
	}
	return &Engine{
		analyzed:        make(map[string]struct{}),
		instructors:     make(map[string]*entity.Instructor),
		footer:          footer,
		strictAlignment: cfg.StrictAlignment,
	}
}

// RegisterSource appends src to the registry. Sources sharing a name may be
// registered; only the first one analyzed contributes data.
func (e *Engine) RegisterSource(src Source) {
	if src == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sources = append(e.sources, src)
}

// RunAnalysisAt runs the analysis of the registered source at index.
// An index outside the registry is a no-op and reports found == false.
func (e *Engine) RunAnalysisAt(ctx context.Context, index int) (found bool, err error) {
	e.mu.RLock()
	if index < 0 || index >= len(e.sources) {
		e.mu.RUnlock()
		logging.FromContext(ctx).Debug("source index not registered, nothing to analyze",
			slog.Int("index", index))
		return false, nil
	}
	src := e.sources[index]
	e.mu.RUnlock()

	return true, e.RunAnalysis(ctx, src)
}

// RunAnalysis fetches the courses of src and merges them into the aggregate
// state. A source whose name was analyzed before is skipped without fetching.
//
// The name is claimed and set as current before the fetch so that concurrent
// calls for the same name fetch at most once. The fetch runs without holding
// the lock; the merge holds the write lock for its whole duration.
//
// A fetch failure returns a *SourceFetchError. A malformed course stops the
// merge with an error matching entity.ErrMalformedRecord. In both cases the
// name stays claimed and courses merged before the failure are kept. When
// the fetch ends because ctx was canceled or expired, the claim is released
// so a later call can analyze the source. A nil src is a no-op.
func (e *Engine) RunAnalysis(ctx context.Context, src Source) (err error) {
	if src == nil {
		return nil
	}
	name := src.Name()
	logger := logging.WithSource(logging.FromContext(ctx), name)
	ctx = logging.WithLogger(ctx, logger)

	ctx, span := tracing.StartSpan(ctx, "analysis.run", attribute.String("source.name", name))
	defer func() { tracing.EndSpan(span, err) }()

	if !e.claim(name) {
		metrics.RecordAnalysisRun(name, metrics.StatusSkipped)
		span.SetAttributes(attribute.Bool("analysis.skipped", true))
		logger.Debug("source already analyzed, skipping")
		return nil
	}

	logger.Info("source analysis started")
	start := time.Now()

	courses, err := src.FetchCourses(ctx)
	fetchDuration := time.Since(start)
	metrics.RecordSourceFetch(name, fetchDuration)
	if err != nil {
		metrics.RecordAnalysisRun(name, metrics.StatusFetchFailed)
		// 呼び出し側の中断はソースの失敗ではない
		if ctx.Err() != nil {
			e.release(name)
			logger.Warn("source fetch interrupted by caller, claim released",
				slog.Duration("duration", fetchDuration),
				slog.Any("error", err))
			return &SourceFetchError{Source: name, Err: err}
		}
		logger.Warn("source fetch failed, analysis aborted",
			slog.Duration("duration", fetchDuration),
			slog.Any("error", err))
		return &SourceFetchError{Source: name, Err: err}
	}

	ingested, stats, err := e.merge(logger, name, courses)
	metrics.RecordCoursesIngested(name, ingested)
	metrics.UpdateAggregateSize(stats.Courses, stats.Instructors)
	span.SetAttributes(
		attribute.Int("analysis.courses_fetched", len(courses)),
		attribute.Int("analysis.courses_ingested", ingested),
	)
	if err != nil {
		metrics.RecordAnalysisRun(name, metrics.StatusMalformed)
		logger.Warn("malformed course, analysis aborted",
			slog.Int("ingested", ingested),
			slog.Int("fetched", len(courses)),
			slog.Any("error", err))
		return fmt.Errorf("analyze source %q: %w", name, err)
	}

	metrics.RecordAnalysisRun(name, metrics.StatusSuccess)
	logger.Info("source analysis completed",
		slog.Int("courses", ingested),
		slog.Int("total_courses", stats.Courses),
		slog.Int("total_instructors", stats.Instructors),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// claim marks name as analyzed and current. It reports false when the name
// was already claimed.
func (e *Engine) claim(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, done := e.analyzed[name]; done {
		return false
	}
	e.analyzed[name] = struct{}{}
	e.current = name
	e.started = true
	return true
}

// release drops the claim on name so it can be analyzed again.
func (e *Engine) release(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.analyzed, name)
}

// merge appends courses to the aggregate state and folds them into the
// instructor statistics. It stops at the first malformed course.
func (e *Engine) merge(logger *slog.Logger, source string, courses []*entity.Course) (int, Stats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ingested := 0
	for i, in := range courses {
		if err := in.Validate(); err != nil {
			var mre *entity.MalformedRecordError
			if errors.As(err, &mre) {
				mre.Index = i
			}
			return ingested, e.statsLocked(), err
		}

		c := in.Clone()
		if bad := c.MisalignedReviews(); len(bad) > 0 {
			metrics.RecordMisalignedReviews(source, len(bad))
			if e.strictAlignment {
				return ingested, e.statsLocked(), &entity.MalformedRecordError{
					Index:   i,
					Field:   "reviews",
					Message: fmt.Sprintf("%d review(s) rate fewer instructors than the course lists", len(bad)),
				}
			}
			logger.Warn("reviews shorter than instructor list",
				slog.String("course", c.Name),
				slog.Any("reviews", bad))
		}

		c.DeriveMetrics()
		e.courses = append(e.courses, c)
		for _, name := range c.InstructorNames {
			e.instructorLocked(name).Absorb(c)
		}
		ingested++
	}
	return ingested, e.statsLocked(), nil
}

// instructorLocked returns the instructor called name, creating it on first use.
func (e *Engine) instructorLocked(name string) *entity.Instructor {
	if inst, ok := e.instructors[name]; ok {
		return inst
	}
	inst := entity.NewInstructor(name)
	e.instructors[name] = inst
	e.instructorOrder = append(e.instructorOrder, inst)
	return inst
}

func (e *Engine) statsLocked() Stats {
	return Stats{
		RegisteredSources: len(e.sources),
		AnalyzedSources:   len(e.analyzed),
		Courses:           len(e.courses),
		Instructors:       len(e.instructorOrder),
	}
}

// SetFooter replaces the footer text.
func (e *Engine) SetFooter(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.footer = text
}

// Footer returns the footer text.
func (e *Engine) Footer() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.footer
}

// Name returns the name of the source analyzed most recently, or DefaultName
// before any analysis has started.
func (e *Engine) Name() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.nameLocked()
}

func (e *Engine) nameLocked() string {
	if !e.started {
		return DefaultName
	}
	return e.current
}

// HasStarted reports whether any analysis has been started.
func (e *Engine) HasStarted() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.started
}

// Sources returns the registered source names in registration order.
func (e *Engine) Sources() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sourceNamesLocked()
}

func (e *Engine) sourceNamesLocked() []string {
	names := make([]string, len(e.sources))
	for i, s := range e.sources {
		names[i] = s.Name()
	}
	return names
}

// Analyzed reports whether a source called name has been analyzed.
func (e *Engine) Analyzed(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.analyzed[name]
	return ok
}

// Courses returns copies of every analyzed course in ingestion order.
func (e *Engine) Courses() []*entity.Course {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneCourses(e.courses)
}

// Instructors returns copies of every aggregated instructor in first-seen order.
func (e *Engine) Instructors() []*entity.Instructor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneInstructors(e.instructorOrder)
}

// Instructor returns a copy of the instructor called name.
func (e *Engine) Instructor(name string) (*entity.Instructor, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	inst, ok := e.instructors[name]
	if !ok {
		return nil, false
	}
	return inst.Clone(), true
}

// Stats returns counters describing the aggregate state.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.statsLocked()
}

func cloneCourses(in []*entity.Course) []*entity.Course {
	out := make([]*entity.Course, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

func cloneInstructors(in []*entity.Instructor) []*entity.Instructor {
	out := make([]*entity.Instructor, len(in))
	for i, inst := range in {
		out[i] = inst.Clone()
	}
	return out
}
