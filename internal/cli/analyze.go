package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"course-analyzer/internal/config"
	"course-analyzer/internal/domain/entity"
	hanalysis "course-analyzer/internal/handler/http/analysis"
	"course-analyzer/internal/infra/fetcher"
	"course-analyzer/internal/infra/source"
	"course-analyzer/internal/observability/logging"
	"course-analyzer/internal/usecase/analysis"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCoursesCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "Analyze sources and print matching courses",
		Example: `  coursectl courses --source "CSV Plugin" --name Software
  coursectl courses --organization CMU --year 2022 --size 5 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := intSetting(v, "year")
			if err != nil {
				return err
			}
			size, err := intSetting(v, "size")
			if err != nil {
				return err
			}
			engine, err := analyze(cmd, v)
			if err != nil {
				return err
			}
			result := engine.CourseResult(entity.CourseFilter{
				NameKeyword:             v.GetString("name"),
				CategoryKeyword:         v.GetString("category"),
				LevelKeyword:            v.GetString("level"),
				InstructorNameKeyword:   v.GetString("instructor"),
				OrganizationNameKeyword: v.GetString("organization"),
				Year:                    year,
				Size:                    sizeLimit(size),
			})
			if v.GetBool("json") {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return writeCourses(cmd.OutOrStdout(), result)
		},
	}

	f := cmd.Flags()
	addAnalysisFlags(cmd)
	f.String("name", "", "Course name keyword")
	f.String("category", "", "Category keyword")
	f.String("level", "", "Level keyword")
	f.String("instructor", "", "Instructor name keyword")
	f.String("organization", "", "Organization name keyword")
	f.Int("year", -1, "Course year, -1 for any")
	f.Int("size", 0, "Maximum number of results, 0 for no limit")
	return cmd
}

func newInstructorsCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instructors",
		Short: "Analyze sources and print matching instructors",
		Example: `  coursectl instructors --course "Software" --organization CMU
  coursectl instructors --source Example --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := intSetting(v, "size")
			if err != nil {
				return err
			}
			engine, err := analyze(cmd, v)
			if err != nil {
				return err
			}
			result := engine.InstructorResult(entity.InstructorFilter{
				NameKeyword:             v.GetString("name"),
				CourseNameKeyword:       v.GetString("course"),
				OrganizationNameKeyword: v.GetString("organization"),
				Size:                    sizeLimit(size),
			})
			if v.GetBool("json") {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return writeInstructors(cmd.OutOrStdout(), result)
		},
	}

	f := cmd.Flags()
	addAnalysisFlags(cmd)
	f.String("name", "", "Instructor name keyword")
	f.String("course", "", "Course name keyword")
	f.String("organization", "", "Organization name keyword")
	f.Int("size", 0, "Maximum number of results, 0 for no limit")
	return cmd
}

func addAnalysisFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSlice("source", nil, "Source to analyze, repeatable (default: every enabled source)")
	f.String("footer", analysis.DefaultFooter, "Footer text of the result")
	f.Bool("strict-alignment", false, "Reject courses whose reviews rate fewer instructors than listed")
}

// analyze builds the configured sources and runs the analysis of the
// selected ones in registry order. The first failing source aborts.
func analyze(cmd *cobra.Command, v *viper.Viper) (*analysis.Engine, error) {
	logger := logging.New(cmd.ErrOrStderr(), true, logging.ParseLevel(v.GetString("log-level")))
	ctx := logging.WithLogger(cmd.Context(), logger)

	cfg, err := config.LoadSourcesConfig(v.GetString("sources-config"))
	if err != nil {
		return nil, fmt.Errorf("loading sources: %w", err)
	}
	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("loading fetch config: %w", err)
	}
	sources, err := source.NewFactory(fetchCfg, nil).Build(cfg)
	if err != nil {
		return nil, err
	}

	engine := analysis.NewEngine(analysis.Config{
		Footer:          v.GetString("footer"),
		StrictAlignment: v.GetBool("strict-alignment"),
	})
	for _, s := range sources {
		engine.RegisterSource(s)
	}

	selected, err := selectSources(sources, v.GetStringSlice("source"))
	if err != nil {
		return nil, err
	}
	for _, s := range selected {
		if err := engine.RunAnalysis(ctx, s); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

// selectSources returns the sources named in names, in registry order.
// No names selects every source.
func selectSources(sources []analysis.Source, names []string) ([]analysis.Source, error) {
	if len(names) == 0 {
		return sources, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[strings.TrimSpace(n)] = true
	}
	var out []analysis.Source
	for _, s := range sources {
		if want[s.Name()] {
			out = append(out, s)
			delete(want, s.Name())
		}
	}
	if len(want) > 0 {
		missing := make([]string, 0, len(want))
		for n := range want {
			missing = append(missing, strconv.Quote(n))
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("unknown or disabled source %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// intSetting reads an integer flag or its COURSECTL_ override. Unlike
// viper's GetInt, a non-numeric value is an error instead of 0.
func intSetting(v *viper.Viper, key string) (int, error) {
	n, err := cast.ToIntE(v.Get(key))
	if err != nil {
		return 0, &entity.ValidationError{Field: key, Message: fmt.Sprintf("must be an integer, got %q", v.GetString(key))}
	}
	return n, nil
}

func sizeLimit(n int) int {
	if n <= 0 {
		return math.MaxInt
	}
	return n
}

func writeJSON(w io.Writer, r analysis.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(hanalysis.NewResultDTO(r))
}

func writeCourses(w io.Writer, r analysis.Result) error {
	t := newTable("NAME", "YEAR", "ORGANIZATION", "INSTRUCTORS", "RATE", "WORKLOAD", "PRICE")
	for _, c := range r.Courses {
		t.AddRow(
			c.Name,
			strconv.Itoa(c.Year),
			c.OrganizationName,
			strings.Join(c.InstructorNames, ", "),
			metric(c.Rate),
			metric(c.EstimatedWorkload),
			strconv.FormatFloat(c.Price, 'f', 2, 64),
		)
	}
	_, err := fmt.Fprint(w, header(r), t.Render(), summary(len(r.Courses), "course"), footer(r))
	return err
}

func writeInstructors(w io.Writer, r analysis.Result) error {
	t := newTable("NAME", "COURSES", "ORGANIZATIONS", "STUDENTS", "RATE")
	for _, i := range r.Instructors {
		t.AddRow(
			i.Name,
			strconv.Itoa(i.CourseNum),
			strings.Join(i.OrganizationNames, ", "),
			strconv.Itoa(i.TotalStudents),
			strconv.FormatFloat(i.Rate, 'f', 2, 64),
		)
	}
	_, err := fmt.Fprint(w, header(r), t.Render(), summary(len(r.Instructors), "instructor"), footer(r))
	return err
}

// metric formats a derived course metric; the -1 sentinel prints as n/a.
func metric(v float64) string {
	if v < 0 {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func header(r analysis.Result) string {
	return styleHeader.Render(r.Name) + "\n\n"
}

func summary(n int, noun string) string {
	if n != 1 {
		noun += "s"
	}
	return "\n" + styleMuted.Render(fmt.Sprintf("%d %s", n, noun)) + "\n"
}

func footer(r analysis.Result) string {
	return styleMuted.Render(r.Footer) + "\n"
}
