package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"course-analyzer/internal/domain/entity"
	"course-analyzer/internal/infra/fetcher"
)

// FCE export columns.
const (
	fceYear = iota
	fceSemester
	fceCollege
	fceDept
	fceNumber
	fceSection
	fceInstructor
	fceCourseName
	fceLevel
	fceStudents
	fceResponses
	fceResponseRate
	fceHoursPerWeek
	fceInterest
	fceRequirements
	fceObjectives
	fceFeedback
	fceImportance
	fceExplains
	fceRespect
	fceTeachingRate
	fceCourseRate

	fceFieldCount
)

const (
	fceOrganization = "CMU"

	miniCourseWeeks    = 7
	regularCourseWeeks = 14

	undergradTuitionPerYear = 59864.0
	masterTuitionPerYear    = 52100.0
	summerTuitionPerUnit    = 480.0
	miniCourseUnits         = 6.0
	regularCourseUnits      = 12.0
	unitsPerYear            = 72.0
)

var miniCourseSection = regexp.MustCompile(`^[A-Z][1-4]$`)

// DefaultFCEYears are the exported years.
var DefaultFCEYears = []int{2018, 2019, 2020, 2021, 2022}

// FCE loads Faculty Course Evaluation exports, one CSV file per year at
// <baseURL>/<year>.csv. Each row is one section taught by one instructor;
// rows of the same section are merged into a single course with one review
// per row.
type FCE struct {
	name    string
	baseURL string
	years   []int
	client  *fetcher.Client
}

// NewFCE creates an FCE source. Empty years means DefaultFCEYears.
func NewFCE(name, baseURL string, years []int, client *fetcher.Client) *FCE {
	if len(years) == 0 {
		years = DefaultFCEYears
	}
	return &FCE{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		years:   append([]int(nil), years...),
		client:  client,
	}
}

// Name returns the source name.
func (f *FCE) Name() string { return f.name }

// FetchCourses downloads every configured year. Any failed download fails
// the whole fetch.
func (f *FCE) FetchCourses(ctx context.Context) ([]*entity.Course, error) {
	header := http.Header{
		"Accept":          []string{"text/csv, text/plain"},
		"Accept-Language": []string{"en-US,en;q=0.5"},
	}

	var courses []*entity.Course
	for _, year := range f.years {
		url := fmt.Sprintf("%s/%d.csv", f.baseURL, year)
		body, err := f.client.Get(ctx, url, header)
		if err != nil {
			return nil, fmt.Errorf("fetch FCE %d: %w", year, err)
		}
		parsed, err := parseFCE(body)
		if err != nil {
			return nil, fmt.Errorf("parse FCE %d: %w", year, err)
		}
		slog.Debug("FCE year loaded",
			slog.String("source", f.name),
			slog.Int("year", year),
			slog.Int("courses", len(parsed)))
		courses = append(courses, parsed...)
	}
	return courses, nil
}

// parseFCE converts one export into courses, preserving first-seen order.
// Rows with a wrong field count or an empty field are skipped.
func parseFCE(data []byte) ([]*entity.Course, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var courses []*entity.Course
	byKey := make(map[string]*entity.Course)
	for i := 0; ; i++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &entity.MalformedRecordError{Index: i, Field: "row", Message: err.Error()}
		}
		if !validFCERecord(record) {
			continue
		}

		key := record[fceYear] + record[fceSemester] + record[fceNumber] + record[fceSection]
		course, ok := byKey[key]
		if !ok {
			course, err = newFCECourse(i, key, record)
			if err != nil {
				return nil, err
			}
			byKey[key] = course
			courses = append(courses, course)
		}

		p := positional{index: i, record: record}
		students := p.intField(fceStudents)
		review := entity.CourseReview{
			CourseRate:      p.floatField(fceCourseRate),
			InstructorRates: []float64{p.floatField(fceTeachingRate)},
			WorkloadPerWeek: p.floatField(fceHoursPerWeek),
		}
		if p.err != nil {
			return nil, p.err
		}
		course.InstructorNames = append(course.InstructorNames, record[fceInstructor])
		course.TotalStudents += students
		course.Reviews = append(course.Reviews, review)
	}

	alignFCEInstructorRates(courses)
	return courses, nil
}

func newFCECourse(i int, key string, record []string) (*entity.Course, error) {
	year, err := strconv.Atoi(record[fceYear])
	if err != nil {
		return nil, &entity.MalformedRecordError{Index: i, Field: "Year", Message: fmt.Sprintf("invalid integer %q", record[fceYear])}
	}
	return &entity.Course{
		ID:                fceCourseID(key),
		Year:              year,
		Name:              record[fceCourseName],
		Description:       "N/A",
		OrganizationName:  fceOrganization,
		Category:          strings.TrimSpace(record[fceCollege]),
		Level:             record[fceLevel],
		TotalHours:        entity.Unknown,
		TotalWeeks:        fceTotalWeeks(record),
		EstimatedWorkload: entity.Unknown,
		Rate:              entity.Unknown,
		Price:             fcePrice(record),
	}, nil
}

// alignFCEInstructorRates gives every review of a section the teaching
// rates of all its rows, so the rating at index i belongs to the instructor
// of row i.
func alignFCEInstructorRates(courses []*entity.Course) {
	for _, c := range courses {
		rates := make([]float64, len(c.Reviews))
		for i, r := range c.Reviews {
			rates[i] = r.InstructorRates[0]
		}
		for i := range c.Reviews {
			c.Reviews[i].InstructorRates = append([]float64(nil), rates...)
		}
	}
}

func validFCERecord(record []string) bool {
	if len(record) != fceFieldCount {
		return false
	}
	for _, s := range record {
		if s == "" {
			return false
		}
	}
	return true
}

func isMiniCourse(record []string) bool {
	return miniCourseSection.MatchString(record[fceSection])
}

func fceTotalWeeks(record []string) int {
	if isMiniCourse(record) {
		return miniCourseWeeks
	}
	return regularCourseWeeks
}

// fcePrice derives a course price from tuition.
func fcePrice(record []string) float64 {
	units := regularCourseUnits
	if isMiniCourse(record) {
		units = miniCourseUnits
	}
	if record[fceSemester] == "Summer" {
		return summerTuitionPerUnit * units
	}
	tuition := masterTuitionPerYear
	if record[fceLevel] == "Undergraduate" {
		tuition = undergradTuitionPerYear
	}
	return tuition * units / unitsPerYear
}

func fceCourseID(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32())
}

// positional converts columns of one positional record and keeps the first error.
type positional struct {
	index  int
	record []string
	err    error
}

func (p *positional) intField(col int) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(p.record[col]))
	if err != nil {
		p.err = &entity.MalformedRecordError{Index: p.index, Field: strconv.Itoa(col), Message: fmt.Sprintf("invalid integer %q", p.record[col])}
	}
	return v
}

func (p *positional) floatField(col int) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(p.record[col]), 64)
	if err != nil {
		p.err = &entity.MalformedRecordError{Index: p.index, Field: strconv.Itoa(col), Message: fmt.Sprintf("invalid number %q", p.record[col])}
	}
	return v
}
