package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"course-analyzer/internal/domain/entity"
)

// File names read from a CSV source directory.
const (
	CoursesFile = "courses.csv"
	RatingsFile = "ratings.csv"
)

var courseColumns = []string{
	"ID", "Year", "Name", "Description",
	"Instructor 1", "Instructor 2", "Instructor 3",
	"Organization", "Category", "Level",
	"Students", "Hours", "Weeks", "Workload", "Rate", "Price",
}

var ratingColumns = []string{
	"Name", "Course Rating",
	"Instructor Rating 1", "Instructor Rating 2", "Instructor Rating 3",
	"Workload",
}

// CSV reads courses.csv and ratings.csv from a directory. Ratings are
// attached to the course with the same name, after which the course rate
// and workload are recomputed from the attached reviews.
type CSV struct {
	name string
	fsys fs.FS
}

// NewCSV creates a CSV source reading from dir.
func NewCSV(name, dir string) *CSV {
	return NewCSVFS(name, os.DirFS(dir))
}

// NewCSVFS creates a CSV source reading from fsys.
func NewCSVFS(name string, fsys fs.FS) *CSV {
	return &CSV{name: name, fsys: fsys}
}

// Name returns the source name.
func (c *CSV) Name() string { return c.name }

// FetchCourses parses both files. A missing or unreadable file is a fetch
// failure; a bad value is reported as *entity.MalformedRecordError.
func (c *CSV) FetchCourses(ctx context.Context) ([]*entity.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	courseRows, err := c.readTable(CoursesFile, courseColumns)
	if err != nil {
		return nil, err
	}
	courses := make([]*entity.Course, 0, len(courseRows))
	byName := make(map[string]*entity.Course, len(courseRows))
	for i, row := range courseRows {
		course, err := parseCourseRow(i, row)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
		byName[course.Name] = course
	}

	ratingRows, err := c.readTable(RatingsFile, ratingColumns)
	if err != nil {
		return nil, err
	}
	touched := make(map[*entity.Course]bool)
	for i, row := range ratingRows {
		course, ok := byName[row["Name"]]
		if !ok {
			return nil, &entity.MalformedRecordError{
				Index:   i,
				Field:   "Name",
				Message: fmt.Sprintf("%s: no course named %q", RatingsFile, row["Name"]),
			}
		}
		review, err := parseRatingRow(i, row)
		if err != nil {
			return nil, err
		}
		course.Reviews = append(course.Reviews, review)
		touched[course] = true
	}

	for _, course := range courses {
		if touched[course] {
			course.Rate = entity.ComputeCourseRate(course)
			course.EstimatedWorkload = entity.ComputeWorkload(course)
		}
	}
	return courses, nil
}

// readTable reads file and returns its data rows keyed by header name.
func (c *CSV) readTable(file string, required []string) ([]map[string]string, error) {
	f, err := c.fsys.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &entity.MalformedRecordError{Index: -1, Field: "header", Message: file + " is empty"}
		}
		return nil, fmt.Errorf("read %s header: %w", file, err)
	}
	if err := validateHeader(file, header, required); err != nil {
		return nil, err
	}

	var rows []map[string]string
	for i := 0; ; i++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &entity.MalformedRecordError{Index: i, Field: "row", Message: fmt.Sprintf("%s: %v", file, err)}
		}
		if len(record) < len(header) {
			return nil, &entity.MalformedRecordError{
				Index:   i,
				Field:   "row",
				Message: fmt.Sprintf("%s: expected %d fields, got %d", file, len(header), len(record)),
			}
		}
		row := make(map[string]string, len(header))
		for j, h := range header {
			row[h] = strings.TrimSpace(record[j])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func validateHeader(file string, header, required []string) error {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		header[i] = h
		if h == "" {
			return &entity.MalformedRecordError{Index: -1, Field: "header", Message: fmt.Sprintf("%s: empty column name at %d", file, i)}
		}
		if prev, ok := pos[h]; ok {
			return &entity.MalformedRecordError{Index: -1, Field: "header", Message: fmt.Sprintf("%s: %s appeared at both %d and %d", file, h, prev, i)}
		}
		pos[h] = i
	}
	for _, r := range required {
		if _, ok := pos[r]; !ok {
			return &entity.MalformedRecordError{Index: -1, Field: "header", Message: fmt.Sprintf("%s: missing column %q", file, r)}
		}
	}
	return nil
}

func parseCourseRow(i int, row map[string]string) (*entity.Course, error) {
	p := rowParser{index: i, row: row}
	course := &entity.Course{
		ID:                p.intField("ID"),
		Year:              p.intField("Year"),
		Name:              row["Name"],
		Description:       row["Description"],
		InstructorNames:   nonEmpty(row["Instructor 1"], row["Instructor 2"], row["Instructor 3"]),
		OrganizationName:  row["Organization"],
		Category:          row["Category"],
		Level:             row["Level"],
		TotalStudents:     p.intField("Students"),
		TotalHours:        p.floatField("Hours"),
		TotalWeeks:        p.intField("Weeks"),
		EstimatedWorkload: p.floatField("Workload"),
		Rate:              p.floatField("Rate"),
		Price:             p.floatField("Price"),
	}
	if p.err != nil {
		return nil, p.err
	}
	return course, nil
}

func parseRatingRow(i int, row map[string]string) (entity.CourseReview, error) {
	p := rowParser{index: i, row: row}
	review := entity.CourseReview{
		CourseRate:      p.floatField("Course Rating"),
		WorkloadPerWeek: entity.Unknown,
	}
	if row["Workload"] != "" {
		review.WorkloadPerWeek = p.floatField("Workload")
	}
	for _, col := range []string{"Instructor Rating 1", "Instructor Rating 2", "Instructor Rating 3"} {
		if row[col] != "" {
			review.InstructorRates = append(review.InstructorRates, p.floatField(col))
		}
	}
	if p.err != nil {
		return entity.CourseReview{}, p.err
	}
	return review, nil
}

// rowParser converts columns of one row and keeps the first error.
type rowParser struct {
	index int
	row   map[string]string
	err   error
}

func (p *rowParser) intField(col string) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(p.row[col])
	if err != nil {
		p.err = &entity.MalformedRecordError{Index: p.index, Field: col, Message: fmt.Sprintf("invalid integer %q", p.row[col])}
	}
	return v
}

func (p *rowParser) floatField(col string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(p.row[col], 64)
	if err != nil {
		p.err = &entity.MalformedRecordError{Index: p.index, Field: col, Message: fmt.Sprintf("invalid number %q", p.row[col])}
	}
	return v
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
