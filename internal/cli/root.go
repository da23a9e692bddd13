// Package cli holds the gotabular command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree. Running the root without a
// subcommand starts the HTTP server.
func NewRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "gotabular",
		Short:         "Ingest messy delimited text and spreadsheets into typed datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path (defaults to CONFIG_PATH, then LOCAL)")

	root.AddCommand(newServeCommand(&configPath))
	root.AddCommand(newInspectCommand())

	return root
}
