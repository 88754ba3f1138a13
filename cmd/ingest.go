package cmd

import (
	"github.com/spf13/cobra"
)

// ingestCmd represents the ingest command.
var ingestCmd = newIngestCmd()

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [runs...]",
		Short: "Load run manifests and report what was indexed",
		Long: `Load run manifests and report how many runs were applied, how many
manifests could not be read, and which patterns are still waiting for a
second report before their files are indexed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ingest := ingestArgs()
			ingest.Runs = append(ingest.Runs, parsePaths(args)...)

			return workflow.Ingest(cmd.Context(), ingest)
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
