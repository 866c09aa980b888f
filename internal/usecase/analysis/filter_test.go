package analysis

import (
	"context"
	"fmt"
	"testing"

	"course-analyzer/internal/domain/entity"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seededEngine returns an engine holding ten courses "Course 0".."Course 9".
// Even courses are CMU 2021 taught by "Even", odd ones Udemy 2022 taught by "Odd".
func seededEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(Config{})
	var courses []*entity.Course
	for i := 0; i < 10; i++ {
		c := course(fmt.Sprintf("Course %d", i), nil, "CMU",
			entity.CourseReview{CourseRate: 4, InstructorRates: []float64{4}})
		c.Year = 2021
		c.Category = "SCS"
		c.Level = "Undergraduate"
		c.InstructorNames = []string{"Even"}
		if i%2 == 1 {
			c.OrganizationName = "Udemy"
			c.Year = 2022
			c.Category = "Development"
			c.Level = "All Levels"
			c.InstructorNames = []string{"Odd"}
		}
		courses = append(courses, c)
	}
	require.NoError(t, e.RunAnalysis(context.Background(), &stubSource{name: "seed", courses: courses}))
	return e
}

func courseNames(cs []*entity.Course) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestEngine_FilterCourses(t *testing.T) {
	e := seededEngine(t)

	tests := []struct {
		name   string
		filter entity.CourseFilter
		want   []string
	}{
		{
			name:   "cap returns first matches in order",
			filter: entity.CourseFilter{Size: 3},
			want:   []string{"Course 0", "Course 1", "Course 2"},
		},
		{
			name:   "organization and cap",
			filter: entity.CourseFilter{OrganizationNameKeyword: "Udemy", Size: 2},
			want:   []string{"Course 1", "Course 3"},
		},
		{
			name:   "year",
			filter: entity.CourseFilter{Year: 2021, Size: 100},
			want:   []string{"Course 0", "Course 2", "Course 4", "Course 6", "Course 8"},
		},
		{
			name:   "instructor keyword",
			filter: entity.CourseFilter{InstructorNameKeyword: "Od", LevelKeyword: "All", Size: 100},
			want:   []string{"Course 1", "Course 3", "Course 5", "Course 7", "Course 9"},
		},
		{
			name:   "name keyword",
			filter: entity.CourseFilter{NameKeyword: "Course 7", Size: 100},
			want:   []string{"Course 7"},
		},
		{
			name:   "zero size",
			filter: entity.CourseFilter{Size: 0},
			want:   []string{},
		},
		{
			name:   "negative size",
			filter: entity.CourseFilter{Size: -5},
			want:   []string{},
		},
		{
			name:   "no match",
			filter: entity.CourseFilter{CategoryKeyword: "Business", Size: 10},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.FilterCourses(tt.filter)
			require.NotNil(t, got)
			assert.LessOrEqual(t, len(got), max(tt.filter.Size, 0))
			if diff := cmp.Diff(tt.want, courseNames(got)); diff != "" {
				t.Errorf("FilterCourses() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngine_FilterInstructors(t *testing.T) {
	e := seededEngine(t)
	require.NoError(t, e.RunAnalysis(context.Background(), &stubSource{
		name:    "more",
		courses: []*entity.Course{courseA(), courseB()},
	}))

	tests := []struct {
		name   string
		filter entity.InstructorFilter
		want   []string
	}{
		{name: "all in first seen order", filter: entity.InstructorFilter{Size: 10}, want: []string{"Even", "Odd", "X", "Y"}},
		{name: "cap", filter: entity.InstructorFilter{Size: 2}, want: []string{"Even", "Odd"}},
		{name: "organization", filter: entity.InstructorFilter{OrganizationNameKeyword: "Udemy", Size: 10}, want: []string{"Odd", "Y"}},
		{name: "course name", filter: entity.InstructorFilter{CourseNameKeyword: "B", Size: 10}, want: []string{"Y"}},
		{name: "name", filter: entity.InstructorFilter{NameKeyword: "X", Size: 10}, want: []string{"X"}},
		{name: "zero size", filter: entity.InstructorFilter{}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.FilterInstructors(tt.filter)
			names := make([]string, len(got))
			for i, inst := range got {
				names[i] = inst.Name
			}
			if diff := cmp.Diff(tt.want, names); diff != "" {
				t.Errorf("FilterInstructors() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngine_FilterDoesNotExposeState(t *testing.T) {
	e := seededEngine(t)

	got := e.FilterCourses(entity.CourseFilter{Size: 1})
	got[0].Name = "mutated"
	got[0].InstructorNames[0] = "mutated"

	insts := e.FilterInstructors(entity.InstructorFilter{Size: 1})
	insts[0].CourseNames[0] = "mutated"

	again := e.FilterCourses(entity.CourseFilter{Size: 1})
	assert.Equal(t, "Course 0", again[0].Name)
	assert.Equal(t, "Even", again[0].InstructorNames[0])
	inst, _ := e.Instructor("Even")
	assert.Equal(t, "Course 0", inst.CourseNames[0])
}

func TestEngine_Results(t *testing.T) {
	e := seededEngine(t)
	e.RegisterSource(&stubSource{name: "FCE"})
	e.SetFooter("footer")

	cfg := e.Configuration()
	assert.Equal(t, "seed", cfg.Name)
	assert.Equal(t, "footer", cfg.Footer)
	assert.Equal(t, []string{"FCE"}, cfg.Sources)
	assert.NotNil(t, cfg.Courses)
	assert.Empty(t, cfg.Courses)
	assert.NotNil(t, cfg.Instructors)
	assert.Empty(t, cfg.Instructors)

	all := e.Snapshot()
	assert.Len(t, all.Courses, 10)
	assert.Len(t, all.Instructors, 2)

	cr := e.CourseResult(entity.CourseFilter{NameKeyword: "Course 1", Size: 5})
	assert.Equal(t, []string{"Course 1"}, courseNames(cr.Courses))
	assert.Empty(t, cr.Instructors)

	ir := e.InstructorResult(entity.InstructorFilter{NameKeyword: "Odd", Size: 5})
	require.Len(t, ir.Instructors, 1)
	assert.Equal(t, 5, ir.Instructors[0].CourseNum)
	assert.Empty(t, ir.Courses)
}
