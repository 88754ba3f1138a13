package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/suspect/internal/domain"
	m "github.com/mouse-blink/suspect/internal/model"
)

// linesCmd represents the lines command.
var linesCmd = newLinesCmd()

func newLinesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lines <source-file>",
		Short: "Show per-line pass/fail tallies and suspiciousness for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Lines(cmd.Context(), domain.LinesArgs{
				IngestArgs: ingestArgs(),
				File:       m.Path(args[0]),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(linesCmd)
}
