package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstructor_AddCourse(t *testing.T) {
	inst := NewInstructor("Vincent")
	inst.AddCourse("Principles of Software Construction")
	inst.AddCourse("Applied Deep Learning")
	inst.AddCourse("Principles of Software Construction")

	assert.Equal(t, 3, inst.CourseNum)
	assert.Equal(t, []string{
		"Principles of Software Construction",
		"Applied Deep Learning",
		"Principles of Software Construction",
	}, inst.CourseNames)
}

func TestInstructor_AddOrganization(t *testing.T) {
	inst := NewInstructor("Vincent")
	for _, org := range []string{"CMU", "Udemy", "CMU", "CMU", "MIT"} {
		inst.AddOrganization(org)
	}

	assert.Equal(t, 3, inst.OrganizationNum)
	assert.Equal(t, []string{"CMU", "Udemy", "MIT"}, inst.OrganizationNames)
}

func TestInstructor_AddStudents(t *testing.T) {
	inst := NewInstructor("Vincent")
	inst.AddStudents(100)
	inst.AddStudents(0)
	inst.AddStudents(-5)
	inst.AddStudents(20)

	assert.Equal(t, 120, inst.TotalStudents)
}

func TestInstructor_MergeRate(t *testing.T) {
	inst := NewInstructor("Vincent")

	inst.MergeRate(4.75, 2)
	assert.InDelta(t, 4.75, inst.Rate, 1e-9)
	assert.Equal(t, 2, inst.RateEntries)

	inst.MergeRate(1.0, 0)
	assert.InDelta(t, 4.75, inst.Rate, 1e-9)
	assert.Equal(t, 2, inst.RateEntries)

	inst.MergeRate(4.0, 1)
	assert.InDelta(t, 4.5, inst.Rate, 1e-9)
	assert.Equal(t, 3, inst.RateEntries)
}

func TestInstructor_Absorb(t *testing.T) {
	c := softwareConstruction()
	inst := NewInstructor("Vincent Hellendoorn")

	inst.Absorb(c)

	assert.Equal(t, 1, inst.CourseNum)
	assert.Equal(t, []string{c.Name}, inst.CourseNames)
	assert.Equal(t, []string{"CMU"}, inst.OrganizationNames)
	assert.Equal(t, 100, inst.TotalStudents)
	assert.InDelta(t, 4.75, inst.Rate, 1e-9)
	assert.Equal(t, 2, inst.RateEntries)
}

func TestInstructor_Clone(t *testing.T) {
	inst := NewInstructor("Vincent")
	inst.AddCourse("A")
	inst.AddOrganization("CMU")

	cp := inst.Clone()
	cp.CourseNames[0] = "B"
	cp.OrganizationNames[0] = "MIT"

	assert.Equal(t, "A", inst.CourseNames[0])
	assert.Equal(t, "CMU", inst.OrganizationNames[0])
}
