package entity

import (
	"fmt"
	"math"
)

// Unknown is the sentinel stored in derived numeric fields that have not been
// computed, or could not be computed from the available reviews.
const Unknown = -1.0

// Rating bounds shared by course and instructor ratings.
const (
	MinRate = 0.0
	MaxRate = 5.0
)

// Course is a single course offering as reported by a data source.
//
// InstructorNames is positionally aligned with every review's InstructorRates:
// the rating at index i belongs to the instructor at index i.
// EstimatedWorkload and Rate hold Unknown until they are derived at ingestion.
type Course struct {
	ID                int
	Year              int
	Name              string
	Description       string
	InstructorNames   []string
	OrganizationName  string
	Category          string
	Level             string
	TotalStudents     int
	TotalHours        float64
	TotalWeeks        int
	EstimatedWorkload float64
	Rate              float64
	Price             float64
	Reviews           []CourseReview
}

// CourseReview is one review of a course.
type CourseReview struct {
	CourseRate      float64
	InstructorRates []float64
	WorkloadPerWeek float64
}

// NewCourse returns a course with derived fields set to Unknown.
func NewCourse(name string) *Course {
	return &Course{
		Name:              name,
		EstimatedWorkload: Unknown,
		Rate:              Unknown,
	}
}

// ValidRate reports whether r lies within the rating domain.
func ValidRate(r float64) bool {
	return r >= MinRate && r <= MaxRate
}

// Validate checks the shape of a course handed over by a source.
// Negative derived values are treated as not yet computed.
func (c *Course) Validate() error {
	if c == nil {
		return &MalformedRecordError{Index: -1, Field: "course", Message: "course is nil"}
	}
	numbers := []struct {
		field string
		value float64
	}{
		{"total_hours", c.TotalHours},
		{"estimated_workload", c.EstimatedWorkload},
		{"rate", c.Rate},
		{"price", c.Price},
	}
	for _, n := range numbers {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
			return &MalformedRecordError{Index: -1, Field: n.field, Message: "must be a finite number"}
		}
	}
	if c.Rate > MaxRate {
		return &MalformedRecordError{
			Index:   -1,
			Field:   "rate",
			Message: fmt.Sprintf("must not exceed %.1f", MaxRate),
		}
	}
	for i, r := range c.Reviews {
		if math.IsNaN(r.CourseRate) || math.IsNaN(r.WorkloadPerWeek) ||
			math.IsInf(r.CourseRate, 0) || math.IsInf(r.WorkloadPerWeek, 0) {
			return &MalformedRecordError{
				Index:   -1,
				Field:   fmt.Sprintf("reviews[%d]", i),
				Message: "must contain finite numbers",
			}
		}
		for _, ir := range r.InstructorRates {
			if math.IsNaN(ir) || math.IsInf(ir, 0) {
				return &MalformedRecordError{
					Index:   -1,
					Field:   fmt.Sprintf("reviews[%d].instructor_rates", i),
					Message: "must contain finite numbers",
				}
			}
		}
	}
	return nil
}

// MisalignedReviews returns the indexes of reviews whose instructor rating
// list is shorter than the course's instructor list.
func (c *Course) MisalignedReviews() []int {
	var out []int
	for i, r := range c.Reviews {
		if len(r.InstructorRates) < len(c.InstructorNames) {
			out = append(out, i)
		}
	}
	return out
}

// DeriveMetrics fills EstimatedWorkload and Rate when they still hold a
// negative value. Already populated values are left untouched.
func (c *Course) DeriveMetrics() {
	if c.EstimatedWorkload < 0 {
		c.EstimatedWorkload = ComputeWorkload(c)
	}
	if c.Rate < 0 {
		c.Rate = ComputeCourseRate(c)
	}
}

// InstructorIndex returns the first position of name in InstructorNames, or -1.
func (c *Course) InstructorIndex(name string) int {
	for i, n := range c.InstructorNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers outside the engine cannot alter
// aggregated state.
func (c *Course) Clone() *Course {
	cp := *c
	cp.InstructorNames = append([]string(nil), c.InstructorNames...)
	if c.Reviews != nil {
		cp.Reviews = make([]CourseReview, len(c.Reviews))
		for i, r := range c.Reviews {
			cp.Reviews[i] = CourseReview{
				CourseRate:      r.CourseRate,
				InstructorRates: append([]float64(nil), r.InstructorRates...),
				WorkloadPerWeek: r.WorkloadPerWeek,
			}
		}
	}
	return &cp
}
