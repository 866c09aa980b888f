package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"course-analyzer/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type sourceView struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Enabled  bool   `json:"enabled"`
	Location string `json:"location,omitempty"`
}

func newSourcesCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List configured data sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadSourcesConfig(v.GetString("sources-config"))
			if err != nil {
				return fmt.Errorf("loading sources: %w", err)
			}

			views := make([]sourceView, 0, len(cfg.Sources))
			for _, s := range cfg.Sources {
				loc := s.BaseURL
				if s.Type == config.SourceTypeCSV {
					loc = s.Dir
				}
				views = append(views, sourceView{Name: s.Name, Type: s.Type, Enabled: s.Enabled, Location: loc})
			}

			out := cmd.OutOrStdout()
			if v.GetBool("json") {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(views)
			}

			t := newTable("#", "NAME", "TYPE", "ENABLED", "LOCATION")
			index := 0
			for _, s := range views {
				// Only enabled sources are registered, so only they get an index.
				idx := "-"
				if s.Enabled {
					idx = strconv.Itoa(index)
					index++
				}
				t.AddRow(idx, s.Name, s.Type, strconv.FormatBool(s.Enabled), s.Location)
			}
			_, err = fmt.Fprint(out, t.Render())
			return err
		},
	}
}
