package source

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"course-analyzer/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coursesCSV = `ID,Year,Name,Description,Instructor 1,Instructor 2,Instructor 3,Organization,Category,Level,Students,Hours,Weeks,Workload,Rate,Price
1,2022,Principles of Software Construction,Design and build,Alice,Bob,,CMU,Computer Science,Undergraduate,120,90,14,-1,-1,9977
2,2022,Distributed Systems,Consensus and more,Carol,,,CMU,Computer Science,Graduate,60,80,14,140,4.1,8683
`

const ratingsCSV = `Name,Course Rating,Instructor Rating 1,Instructor Rating 2,Instructor Rating 3,Workload
Principles of Software Construction,4.5,4.0,5.0,,10
Principles of Software Construction,3.5,3.0,4.0,,12
`

func csvFS(courses, ratings string) fs.FS {
	return fstest.MapFS{
		CoursesFile: &fstest.MapFile{Data: []byte(courses)},
		RatingsFile: &fstest.MapFile{Data: []byte(ratings)},
	}
}

func TestCSV_FetchCourses(t *testing.T) {
	src := NewCSVFS("CSV Plugin", csvFS(coursesCSV, ratingsCSV))

	courses, err := src.FetchCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)

	psc := courses[0]
	assert.Equal(t, 1, psc.ID)
	assert.Equal(t, []string{"Alice", "Bob"}, psc.InstructorNames)
	assert.Equal(t, 120, psc.TotalStudents)
	require.Len(t, psc.Reviews, 2)
	assert.Equal(t, []float64{4.0, 5.0}, psc.Reviews[0].InstructorRates)
	// recomputed from the two reviews
	assert.InDelta(t, 4.0, psc.Rate, 1e-9)
	assert.InDelta(t, 11*14, psc.EstimatedWorkload, 1e-9)

	ds := courses[1]
	assert.Empty(t, ds.Reviews)
	assert.Equal(t, []string{"Carol"}, ds.InstructorNames)
	assert.InDelta(t, 4.1, ds.Rate, 1e-9)
	assert.InDelta(t, 140, ds.EstimatedWorkload, 1e-9)
}

func TestCSV_Errors(t *testing.T) {
	tests := []struct {
		name      string
		fsys      fs.FS
		malformed bool
		field     string
	}{
		{
			name: "missing ratings file",
			fsys: fstest.MapFS{CoursesFile: &fstest.MapFile{Data: []byte(coursesCSV)}},
		},
		{
			name:      "missing column",
			fsys:      csvFS("ID,Year,Name\n1,2022,X\n", ratingsCSV),
			malformed: true,
			field:     "header",
		},
		{
			name:      "duplicate column",
			fsys:      csvFS("ID,ID\n", ratingsCSV),
			malformed: true,
			field:     "header",
		},
		{
			name:      "empty file",
			fsys:      csvFS("", ratingsCSV),
			malformed: true,
			field:     "header",
		},
		{
			name: "bad number",
			fsys: csvFS(`ID,Year,Name,Description,Instructor 1,Instructor 2,Instructor 3,Organization,Category,Level,Students,Hours,Weeks,Workload,Rate,Price
1,twenty,X,,,,,CMU,,,1,1,1,1,1,1
`, ratingsCSV),
			malformed: true,
			field:     "Year",
		},
		{
			name: "review for unknown course",
			fsys: csvFS(coursesCSV, `Name,Course Rating,Instructor Rating 1,Instructor Rating 2,Instructor Rating 3,Workload
Nonexistent,4,4,,,1
`),
			malformed: true,
			field:     "Name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCSVFS("csv", tt.fsys).FetchCourses(context.Background())
			require.Error(t, err)

			var mre *entity.MalformedRecordError
			assert.Equal(t, tt.malformed, errors.As(err, &mre), "error: %v", err)
			if tt.malformed {
				assert.Equal(t, tt.field, mre.Field)
				assert.ErrorIs(t, err, entity.ErrMalformedRecord)
			}
		})
	}
}

func TestCSV_BOMHeader(t *testing.T) {
	src := NewCSVFS("csv", csvFS("\ufeff"+coursesCSV, ratingsCSV))
	courses, err := src.FetchCourses(context.Background())
	require.NoError(t, err)
	assert.Len(t, courses, 2)
}

func TestNewCSV_ReadsDirectory(t *testing.T) {
	_, err := NewCSV("csv", t.TempDir()).FetchCourses(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
