package entity

// Instructor aggregates everything known about one instructor across all
// analyzed sources. Identity is the exact Name.
type Instructor struct {
	Name              string
	CourseNum         int
	CourseNames       []string
	OrganizationNum   int
	OrganizationNames []string
	TotalStudents     int
	Rate              float64
	RateEntries       int
}

// NewInstructor returns an instructor with no course associations.
func NewInstructor(name string) *Instructor {
	return &Instructor{Name: name}
}

// AddCourse records one association event with a course. Repeated names are
// kept, so CourseNum always equals len(CourseNames).
func (i *Instructor) AddCourse(courseName string) {
	i.CourseNum++
	i.CourseNames = append(i.CourseNames, courseName)
}

// AddOrganization adds org if it has not been seen yet.
func (i *Instructor) AddOrganization(org string) {
	for _, o := range i.OrganizationNames {
		if o == org {
			return
		}
	}
	i.OrganizationNames = append(i.OrganizationNames, org)
	i.OrganizationNum++
}

// AddStudents adds n to the student total when n is positive.
func (i *Instructor) AddStudents(n int) {
	if n > 0 {
		i.TotalStudents += n
	}
}

// MergeRate folds a batch of count ratings averaging mean into the running rate.
func (i *Instructor) MergeRate(mean float64, count int) {
	i.Rate, i.RateEntries = MergeWeighted(i.Rate, i.RateEntries, mean, count)
}

// Absorb applies one course association to the instructor: course count,
// course name, organization, students and rating.
func (i *Instructor) Absorb(c *Course) {
	i.AddCourse(c.Name)
	i.AddOrganization(c.OrganizationName)
	i.AddStudents(c.TotalStudents)
	ComputeInstructorRate(c, i)
}

// Clone returns a deep copy of the instructor.
func (i *Instructor) Clone() *Instructor {
	cp := *i
	cp.CourseNames = append([]string(nil), i.CourseNames...)
	cp.OrganizationNames = append([]string(nil), i.OrganizationNames...)
	return &cp
}
