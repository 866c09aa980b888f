// Package source implements the data sources that feed the analysis engine:
// generated example data, local CSV files, the CMU FCE export, the Udemy
// API and generic HTML course catalogs.
package source

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"

	"course-analyzer/internal/domain/entity"
)

const exampleCourseCount = 10

// Example generates ten sample courses. With the same seed it returns the
// same courses.
type Example struct {
	name string

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewExample creates an Example source. A zero seed picks a random one.
func NewExample(name string, seed int64) *Example {
	if seed == 0 {
		seed = rand.Int64()
	}
	// #nosec G404 -- sample data, not security sensitive
	rnd := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1))
	return &Example{name: name, rnd: rnd}
}

// Name returns the source name.
func (e *Example) Name() string { return e.name }

// FetchCourses returns freshly generated courses.
func (e *Example) FetchCourses(ctx context.Context) ([]*entity.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	courses := make([]*entity.Course, 0, exampleCourseCount)
	for i := 0; i < exampleCourseCount; i++ {
		org := "CMU"
		if e.rnd.IntN(2) == 1 {
			org = "Udemy"
		}
		students := e.rnd.IntN(100)
		rate := math.Floor(e.rnd.Float64()*5*100) / 100
		price := float64(e.rnd.IntN(10000))
		courses = append(courses, exampleCourse(org, students, rate, price))
	}
	return courses, nil
}

func exampleCourse(org string, students int, rate, price float64) *entity.Course {
	return &entity.Course{
		ID:                123,
		Year:              2022,
		Name:              "An example course",
		Description:       "An example description",
		InstructorNames:   []string{"Instructor 1", "Instructor 2"},
		OrganizationName:  org,
		Category:          "Example category",
		Level:             "Example level",
		TotalStudents:     students,
		TotalHours:        256.5,
		TotalWeeks:        14,
		EstimatedWorkload: 9,
		Rate:              rate,
		Price:             price,
		Reviews: []entity.CourseReview{
			{CourseRate: 4.9, InstructorRates: []float64{1.0, 5.0}, WorkloadPerWeek: 19},
		},
	}
}
