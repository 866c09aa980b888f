// Package cli contains the Cobra command tree for coursectl.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override flags, for
// example COURSECTL_SOURCES_CONFIG or COURSECTL_JSON.
const EnvPrefix = "COURSECTL"

// NewRootCommand builds the coursectl command tree. Every flag can also be
// set through a COURSECTL_ environment variable; flags win.
func NewRootCommand(version string) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "coursectl",
		Short: "Analyze courses and instructors from configured data sources",
		Long: `coursectl loads the data source registry, runs the analysis for the
selected sources and prints the matching courses or instructors.

Sources come from the YAML file given by --sources-config, or the built-in
registry when none is given. HTTP fetch settings are read from the
SOURCE_FETCH_* environment variables, as for the API server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("bind flags: %w", err)
			}
			if v.GetBool("no-color") || !isTerminal(cmd.OutOrStdout()) {
				disableColor()
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.String("sources-config", "", "Source registry YAML file (default: built-in sources)")
	pf.Bool("json", false, "Output as JSON, in the same shape as the HTTP API")
	pf.Bool("no-color", false, "Disable colored output")
	pf.String("log-level", "warn", "Log level: debug, info, warn or error")

	root.AddCommand(
		newSourcesCommand(v),
		newCoursesCommand(v),
		newInstructorsCommand(v),
	)
	return root
}

// Execute runs coursectl and returns the process exit code. An interrupt
// cancels in-flight source fetches.
func Execute(version string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

// isTerminal reports whether w is a terminal. Piped or captured output gets
// no ANSI styling.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
