package app

import (
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func newWindowsCommand(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "windows",
		Short: "List suggested maintenance windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			windows, err := client().windows()
			if err != nil {
				return err
			}
			if len(windows) == 0 {
				cmd.Println("No maintenance windows suggested.")
				return nil
			}

			table := uitable.New()
			table.MaxColWidth = 60
			table.AddRow("ID", "DATE", "PRIORITY", "DURATION", "COMPONENTS", "REASON")
			for _, w := range windows {
				table.AddRow(
					w.ID,
					w.RecommendedDate.Format("2006-01-02"),
					string(w.Priority),
					w.EstimatedDuration,
					strings.Join(w.Components, ","),
					w.Reason,
				)
			}

			cmd.Println(table.String())
			return nil
		},
	}
}
