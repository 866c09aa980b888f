package analysis

import (
	"course-analyzer/internal/domain/entity"
	analysisUC "course-analyzer/internal/usecase/analysis"
)

// ResultDTO is the body of every analysis endpoint.
type ResultDTO struct {
	Name        string          `json:"name"`
	Footer      string          `json:"footer"`
	Plugins     []PluginDTO     `json:"plugins"`
	Courses     []CourseDTO     `json:"courses"`
	Instructors []InstructorDTO `json:"instructors"`
}

// PluginDTO names one registered data source.
type PluginDTO struct {
	Name string `json:"name"`
}

type CourseDTO struct {
	ID                int         `json:"id"`
	Year              int         `json:"year"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	InstructorNames   []string    `json:"instructorNames"`
	OrganizationName  string      `json:"organizationName"`
	Category          string      `json:"category"`
	Level             string      `json:"level"`
	TotalStudents     int         `json:"totalStudents"`
	TotalHours        float64     `json:"totalHours"`
	TotalWeeks        int         `json:"totalWeeks"`
	EstimatedWorkload float64     `json:"estimatedWorkload"`
	Rate              float64     `json:"rate"`
	Price             float64     `json:"price"`
	Reviews           []ReviewDTO `json:"reviews"`
}

type ReviewDTO struct {
	CourseRate      float64   `json:"courseRate"`
	InstructorRates []float64 `json:"instructorRates"`
	WorkloadPerWeek float64   `json:"workloadPerWeek"`
}

// InstructorDTO omits RateEntries, which only backs the running mean.
type InstructorDTO struct {
	Name              string   `json:"name"`
	CourseNum         int      `json:"courseNum"`
	CourseNames       []string `json:"courseNames"`
	OrganizationNum   int      `json:"organizationNum"`
	OrganizationNames []string `json:"organizationNames"`
	TotalStudents     int      `json:"totalStudents"`
	Rate              float64  `json:"rate"`
}

// NewResultDTO converts an engine result. Every list is non-nil so that
// clients always receive arrays.
func NewResultDTO(r analysisUC.Result) ResultDTO {
	dto := ResultDTO{
		Name:        r.Name,
		Footer:      r.Footer,
		Plugins:     make([]PluginDTO, 0, len(r.Sources)),
		Courses:     make([]CourseDTO, 0, len(r.Courses)),
		Instructors: make([]InstructorDTO, 0, len(r.Instructors)),
	}
	for _, s := range r.Sources {
		dto.Plugins = append(dto.Plugins, PluginDTO{Name: s})
	}
	for _, c := range r.Courses {
		dto.Courses = append(dto.Courses, newCourseDTO(c))
	}
	for _, i := range r.Instructors {
		dto.Instructors = append(dto.Instructors, newInstructorDTO(i))
	}
	return dto
}

func newCourseDTO(c *entity.Course) CourseDTO {
	reviews := make([]ReviewDTO, 0, len(c.Reviews))
	for _, r := range c.Reviews {
		reviews = append(reviews, ReviewDTO{
			CourseRate:      r.CourseRate,
			InstructorRates: nonNilFloats(r.InstructorRates),
			WorkloadPerWeek: r.WorkloadPerWeek,
		})
	}
	return CourseDTO{
		ID:                c.ID,
		Year:              c.Year,
		Name:              c.Name,
		Description:       c.Description,
		InstructorNames:   nonNilStrings(c.InstructorNames),
		OrganizationName:  c.OrganizationName,
		Category:          c.Category,
		Level:             c.Level,
		TotalStudents:     c.TotalStudents,
		TotalHours:        c.TotalHours,
		TotalWeeks:        c.TotalWeeks,
		EstimatedWorkload: c.EstimatedWorkload,
		Rate:              c.Rate,
		Price:             c.Price,
		Reviews:           reviews,
	}
}

func newInstructorDTO(i *entity.Instructor) InstructorDTO {
	return InstructorDTO{
		Name:              i.Name,
		CourseNum:         i.CourseNum,
		CourseNames:       nonNilStrings(i.CourseNames),
		OrganizationNum:   i.OrganizationNum,
		OrganizationNames: nonNilStrings(i.OrganizationNames),
		TotalStudents:     i.TotalStudents,
		Rate:              i.Rate,
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilFloats(f []float64) []float64 {
	if f == nil {
		return []float64{}
	}
	return f
}
