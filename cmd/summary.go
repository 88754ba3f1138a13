package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/suspect/internal/domain"
	m "github.com/mouse-blink/suspect/internal/model"
)

// summaryCmd represents the summary command.
var summaryCmd = newSummaryCmd()

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <source-file>",
		Short: "Count passing and failing test patterns that touched a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Summary(cmd.Context(), domain.SummaryArgs{
				IngestArgs: ingestArgs(),
				File:       m.Path(args[0]),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
