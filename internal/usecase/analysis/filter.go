package analysis

import (
	"course-analyzer/internal/domain/entity"
	"course-analyzer/internal/observability/metrics"
)

// Result is the engine state as presented to clients: the current name and
// footer, the registered source names, and the course and instructor lists a
// query produced.
type Result struct {
	Name        string
	Footer      string
	Sources     []string
	Courses     []*entity.Course
	Instructors []*entity.Instructor
}

// FilterCourses returns up to f.Size analyzed courses matching f, in
// ingestion order. Size <= 0 yields an empty result.
func (e *Engine) FilterCourses(f entity.CourseFilter) []*entity.Course {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.filterCoursesLocked(f)
}

func (e *Engine) filterCoursesLocked(f entity.CourseFilter) []*entity.Course {
	out := make([]*entity.Course, 0)
	for _, c := range e.courses {
		if len(out) >= f.Size {
			break
		}
		if f.Match(c) {
			out = append(out, c.Clone())
		}
	}
	metrics.RecordFilterQuery("course", len(out))
	return out
}

// FilterInstructors returns up to f.Size instructors matching f, in
// first-seen order. Size <= 0 yields an empty result.
func (e *Engine) FilterInstructors(f entity.InstructorFilter) []*entity.Instructor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.filterInstructorsLocked(f)
}

func (e *Engine) filterInstructorsLocked(f entity.InstructorFilter) []*entity.Instructor {
	out := make([]*entity.Instructor, 0)
	for _, inst := range e.instructorOrder {
		if len(out) >= f.Size {
			break
		}
		if f.Match(inst) {
			out = append(out, inst.Clone())
		}
	}
	metrics.RecordFilterQuery("instructor", len(out))
	return out
}

// Configuration returns the engine state with empty course and instructor lists.
func (e *Engine) Configuration() Result {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.resultLocked(nil, nil)
}

// Snapshot returns the engine state with every analyzed course and instructor.
func (e *Engine) Snapshot() Result {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.resultLocked(cloneCourses(e.courses), cloneInstructors(e.instructorOrder))
}

// CourseResult evaluates f and returns it together with the engine state,
// all under one read lock.
func (e *Engine) CourseResult(f entity.CourseFilter) Result {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.resultLocked(e.filterCoursesLocked(f), nil)
}

// InstructorResult evaluates f and returns it together with the engine state.
func (e *Engine) InstructorResult(f entity.InstructorFilter) Result {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.resultLocked(nil, e.filterInstructorsLocked(f))
}

func (e *Engine) resultLocked(courses []*entity.Course, instructors []*entity.Instructor) Result {
	if courses == nil {
		courses = []*entity.Course{}
	}
	if instructors == nil {
		instructors = []*entity.Instructor{}
	}
	return Result{
		Name:        e.nameLocked(),
		Footer:      e.footer,
		Sources:     e.sourceNamesLocked(),
		Courses:     courses,
		Instructors: instructors,
	}
}
