package app

import (
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func newPathsCommand(client func() *apiClient) *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "List recommended upgrade paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := client().paths()
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				cmd.Println("No upgrade paths recommended; the cluster is up to date.")
				return nil
			}

			if !detailed {
				table := uitable.New()
				table.MaxColWidth = 80
				table.AddRow("ID", "CONFIDENCE", "STEPS", "DURATION", "SUPPORTED UNTIL", "DESCRIPTION")
				for _, p := range paths {
					table.AddRow(p.ID, string(p.Confidence), len(p.Steps), p.TotalDuration,
						p.SupportedUntil.Format("2006-01-02"), p.Description)
				}
				cmd.Println(table.String())
				return nil
			}

			for i, p := range paths {
				if i > 0 {
					cmd.Println()
				}
				cmd.Printf("%s (%s confidence, %s)\n", p.ID, p.Confidence, p.TotalDuration)
				cmd.Printf("  %s\n", p.Description)

				table := uitable.New()
				table.MaxColWidth = 60
				table.AddRow("  #", "KIND", "TARGET", "VERSION", "DURATION")
				for _, s := range p.Steps {
					version := s.ToVersion
					if s.FromVersion != "" {
						version = fmt.Sprintf("%s -> %s", s.FromVersion, s.ToVersion)
					}
					table.AddRow(fmt.Sprintf("  %d", s.Order), string(s.Kind), s.Target, version, s.EstimatedDuration)
				}
				cmd.Println(table.String())

				if len(p.Risks) > 0 {
					cmd.Printf("  Risks: %s\n", strings.Join(p.Risks, "; "))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "Show every step of each path.")
	return cmd
}
