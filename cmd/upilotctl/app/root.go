// Package app implements the upilotctl command tree: a thin CLI over
// the advisor's read-only API.
package app

import (
	"github.com/spf13/cobra"
)

const rootDesc = `upilotctl inspects the upgrade recommendations served by a running
UpgradePilot advisor: installed components and their issues, candidate
upgrade paths and suggested maintenance windows.`

// NewRootCommand builds the upilotctl command tree.
func NewRootCommand() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:           "upilotctl",
		Short:         "Inspect UpgradePilot upgrade recommendations",
		Long:          rootDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&server, "server", "s", "http://localhost:8480",
		"Base URL of the advisor API server.")

	client := func() *apiClient { return newAPIClient(server) }

	cmd.AddCommand(
		newComponentsCommand(client),
		newIssuesCommand(client),
		newPathsCommand(client),
		newWindowsCommand(client),
	)

	return cmd
}
