package entity

import "strings"

// CourseFilter selects courses by keyword and year. Empty keywords match
// everything. Year <= 0 matches any year. Matching is case-sensitive.
type CourseFilter struct {
	NameKeyword             string
	CategoryKeyword         string
	LevelKeyword            string
	InstructorNameKeyword   string
	OrganizationNameKeyword string
	Year                    int
	Size                    int
}

// Match reports whether c satisfies every condition of the filter.
func (f CourseFilter) Match(c *Course) bool {
	if !strings.Contains(c.Name, f.NameKeyword) ||
		!strings.Contains(c.Category, f.CategoryKeyword) ||
		!strings.Contains(c.Level, f.LevelKeyword) ||
		!strings.Contains(c.OrganizationName, f.OrganizationNameKeyword) {
		return false
	}
	if !anyContains(c.InstructorNames, f.InstructorNameKeyword) {
		return false
	}
	return f.Year <= 0 || c.Year == f.Year
}

// InstructorFilter selects instructors by keyword.
type InstructorFilter struct {
	NameKeyword             string
	CourseNameKeyword       string
	OrganizationNameKeyword string
	Size                    int
}

// Match reports whether i satisfies every condition of the filter.
func (f InstructorFilter) Match(i *Instructor) bool {
	return strings.Contains(i.Name, f.NameKeyword) &&
		anyContains(i.CourseNames, f.CourseNameKeyword) &&
		anyContains(i.OrganizationNames, f.OrganizationNameKeyword)
}

// anyContains reports whether some element of list contains keyword.
// An empty list never matches, even for an empty keyword.
func anyContains(list []string, keyword string) bool {
	for _, s := range list {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
