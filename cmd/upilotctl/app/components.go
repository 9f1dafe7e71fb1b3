package app

import (
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func newComponentsCommand(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "List installed components, their versions and health",
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := client().components()
			if err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("NAME", "NAMESPACE", "VERSION", "CHANNEL", "PHASE", "HEALTH", "ISSUES")
			for _, c := range components {
				table.AddRow(
					c.Installation.Name,
					c.Installation.Namespace,
					c.Installation.CurrentVersion,
					c.Installation.CurrentChannel,
					string(c.Lifecycle.Phase),
					string(c.Health),
					len(c.Issues),
				)
			}

			cmd.Println(table.String())
			return nil
		},
	}
}

func newIssuesCommand(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "issues",
		Short: "List detected issues across all components",
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := client().components()
			if err != nil {
				return err
			}

			table := uitable.New()
			table.MaxColWidth = 80
			table.Wrap = true
			table.AddRow("ID", "SEVERITY", "COMPONENT", "TITLE", "RECOMMENDATION")
			total := 0
			for _, c := range components {
				for _, issue := range c.Issues {
					table.AddRow(issue.ID, strings.ToUpper(string(issue.Severity)), issue.Component, issue.Title, issue.Recommendation)
					total++
				}
			}

			if total == 0 {
				cmd.Println("No issues detected.")
				return nil
			}
			cmd.Println(table.String())
			return nil
		},
	}
}
