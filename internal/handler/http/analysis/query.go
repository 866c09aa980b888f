package analysis

import (
	"math"
	"net/url"
	"strconv"

	"course-analyzer/internal/domain/entity"
)

// anyYear matches courses of every year.
const anyYear = -1

// ParseCourseFilter reads /courses query parameters. Absent keywords match
// everything, an absent year matches any year and an absent size is
// unbounded. Non-integer year or size values are rejected.
func ParseCourseFilter(q url.Values) (entity.CourseFilter, error) {
	year, err := intParam(q, "year", anyYear)
	if err != nil {
		return entity.CourseFilter{}, err
	}
	size, err := intParam(q, "size", math.MaxInt)
	if err != nil {
		return entity.CourseFilter{}, err
	}
	return entity.CourseFilter{
		NameKeyword:             q.Get("name"),
		CategoryKeyword:         q.Get("category"),
		LevelKeyword:            q.Get("level"),
		InstructorNameKeyword:   q.Get("instructor"),
		OrganizationNameKeyword: q.Get("organization"),
		Year:                    year,
		Size:                    size,
	}, nil
}

// ParseInstructorFilter reads /instructors query parameters.
func ParseInstructorFilter(q url.Values) (entity.InstructorFilter, error) {
	size, err := intParam(q, "size", math.MaxInt)
	if err != nil {
		return entity.InstructorFilter{}, err
	}
	return entity.InstructorFilter{
		NameKeyword:             q.Get("name"),
		CourseNameKeyword:       q.Get("course"),
		OrganizationNameKeyword: q.Get("organization"),
		Size:                    size,
	}, nil
}

// ParseSourceIndex reads the required i parameter of /plugin.
func ParseSourceIndex(q url.Values) (int, error) {
	if !q.Has("i") {
		return 0, &entity.ValidationError{Field: "i", Message: "source index is required"}
	}
	return intParam(q, "i", 0)
}

func intParam(q url.Values, key string, def int) (int, error) {
	if !q.Has(key) {
		return def, nil
	}
	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return 0, &entity.ValidationError{Field: key, Message: "must be an integer"}
	}
	return n, nil
}
