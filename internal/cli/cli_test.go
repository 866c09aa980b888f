package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"course-analyzer/internal/domain/entity"
	hanalysis "course-analyzer/internal/handler/http/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeRegistry writes a source registry with a seeded example source, the
// repository CSV data and a disabled FCE source.
func writeRegistry(t *testing.T) string {
	t.Helper()
	csvDir, err := filepath.Abs(filepath.Join("..", "..", "data", "csv"))
	require.NoError(t, err)

	yaml := `sources:
  - name: Example
    type: example
    enabled: true
    seed: 7
  - name: CSV Plugin
    type: csv
    enabled: true
    dir: ` + csvDir + `
  - name: FCE
    type: fce
    enabled: false
    base_url: https://fce.example.com
`
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand("test")
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSources(t *testing.T) {
	path := writeRegistry(t)

	out, err := run(t, "sources", "--sources-config", path, "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Example")
	assert.Contains(t, out, "CSV Plugin")
	assert.Contains(t, out, "https://fce.example.com")
	assert.Contains(t, out, "false")
}

func TestSources_JSON(t *testing.T) {
	path := writeRegistry(t)

	out, err := run(t, "sources", "--sources-config", path, "--json")
	require.NoError(t, err)

	var views []sourceView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 3)
	assert.Equal(t, sourceView{Name: "Example", Type: "example", Enabled: true}, views[0])
	assert.Equal(t, "csv", views[1].Type)
	assert.False(t, views[2].Enabled)
}

func TestCourses_JSON(t *testing.T) {
	path := writeRegistry(t)

	out, err := run(t, "courses", "--sources-config", path, "--source", "CSV Plugin", "--name", "Software", "--json")
	require.NoError(t, err)

	var result hanalysis.ResultDTO
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "CSV Plugin", result.Name)
	assert.Len(t, result.Plugins, 2)
	require.Len(t, result.Courses, 2)
	assert.Empty(t, result.Instructors)

	psc := result.Courses[0]
	assert.Equal(t, "Principles of Software Construction", psc.Name)
	assert.InDelta(t, 4.25, psc.Rate, 1e-9)
	assert.InDelta(t, 182.0, psc.EstimatedWorkload, 1e-9)
	assert.Equal(t, "Foundations of Software Engineering", result.Courses[1].Name)
}

func TestCourses_Table(t *testing.T) {
	path := writeRegistry(t)

	out, err := run(t, "courses", "--sources-config", path, "--source", "CSV Plugin", "--year", "2021", "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "Introduction to Computer Systems")
	assert.NotContains(t, out, "Large Language Models")
	assert.Contains(t, out, "1 course\n")
	assert.Contains(t, out, "Default footer")
}

func TestCourses_SizeFromEnv(t *testing.T) {
	path := writeRegistry(t)
	t.Setenv("COURSECTL_SIZE", "1")
	t.Setenv("COURSECTL_SOURCES_CONFIG", path)

	out, err := run(t, "courses", "--source", "CSV Plugin", "--json")
	require.NoError(t, err)

	var result hanalysis.ResultDTO
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Courses, 1)
}

func TestInstructors_JSON(t *testing.T) {
	path := writeRegistry(t)

	out, err := run(t, "instructors", "--sources-config", path, "--source", "CSV Plugin", "--name", "Charlie", "--json")
	require.NoError(t, err)

	var result hanalysis.ResultDTO
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Instructors, 1)
	garrod := result.Instructors[0]
	assert.Equal(t, "Charlie Garrod", garrod.Name)
	assert.Equal(t, 1, garrod.CourseNum)
	assert.Equal(t, []string{"CMU"}, garrod.OrganizationNames)
	assert.InDelta(t, 4.5, garrod.Rate, 1e-9)
}

func TestInstructors_AllSources(t *testing.T) {
	path := writeRegistry(t)

	out, err := run(t, "instructors", "--sources-config", path, "--name", "Instructor", "--json")
	require.NoError(t, err)

	var result hanalysis.ResultDTO
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Instructors, 2)
	assert.Equal(t, "Instructor 1", result.Instructors[0].Name)
	assert.Equal(t, 10, result.Instructors[0].CourseNum)
	assert.InDelta(t, 1.0, result.Instructors[0].Rate, 1e-9)
	assert.InDelta(t, 5.0, result.Instructors[1].Rate, 1e-9)
}

func TestCourses_Errors(t *testing.T) {
	path := writeRegistry(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown source", []string{"courses", "--sources-config", path, "--source", "Nope"}, `unknown or disabled source "Nope"`},
		{"disabled source", []string{"courses", "--sources-config", path, "--source", "FCE"}, `unknown or disabled source "FCE"`},
		{"missing registry", []string{"courses", "--sources-config", filepath.Join(t.TempDir(), "none.yaml")}, "loading sources"},
		{"positional args", []string{"courses", "extra"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCourses_InvalidIntegerOverrides(t *testing.T) {
	path := writeRegistry(t)

	tests := []struct {
		name  string
		env   map[string]string
		args  []string
		field string
	}{
		{"size from env", map[string]string{"COURSECTL_SIZE": "ten"}, []string{"courses"}, "size"},
		{"year from env", map[string]string{"COURSECTL_YEAR": "twenty"}, []string{"courses"}, "year"},
		{"instructor size from env", map[string]string{"COURSECTL_SIZE": "ten"}, []string{"instructors"}, "size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, val := range tt.env {
				t.Setenv(k, val)
			}
			args := append(tt.args, "--sources-config", path, "--source", "Example", "--json")

			out, err := run(t, args...)
			require.Error(t, err)
			assert.Empty(t, out)

			var verr *entity.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, entity.ErrInvalidInput)
		})
	}
}

func TestCourses_FlagOverridesInvalidEnv(t *testing.T) {
	path := writeRegistry(t)
	t.Setenv("COURSECTL_SIZE", "ten")

	out, err := run(t, "courses", "--sources-config", path, "--source", "Example", "--size", "2", "--json")
	require.NoError(t, err)

	var result hanalysis.ResultDTO
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Courses, 2)
}

func TestSelectSources_KeepsRegistryOrder(t *testing.T) {
	path := writeRegistry(t)

	out, err := run(t, "courses", "--sources-config", path, "--source", "CSV Plugin", "--source", "Example", "--json")
	require.NoError(t, err)

	var result hanalysis.ResultDTO
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Courses, 15)
	assert.Equal(t, "An example course", result.Courses[0].Name)
	assert.Equal(t, "CSV Plugin", result.Name)
}

func TestIsTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, isTerminal(&buf))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f))
}
