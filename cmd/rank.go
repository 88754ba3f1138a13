package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/suspect/internal/domain"
	m "github.com/mouse-blink/suspect/internal/model"
)

var rankTopFlag int
var rankOutFlag string

// rankCmd represents the rank command.
var rankCmd = newRankCmd()

func newRankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank [source-files...]",
		Short: "Rank covered lines from most to least suspicious",
		Long: `Rank covered lines from most to least suspicious. Without source files
every indexed file is ranked. Lowest scores come first: a score of 0 means
only failing runs covered the line.

Lines can opt out with a "suspect:ignore" comment, either trailing the line
or on the line above it. "suspect:ignore-file" excludes a whole file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Rank(cmd.Context(), domain.RankArgs{
				IngestArgs: ingestArgs(),
				Files:      parsePaths(args),
				Top:        topLimit(cmd, rankTopFlag),
				Out:        m.Path(rankOutFlag),
			})
		},
	}
	cmd.Flags().IntVarP(&rankTopFlag, "top", "n", 0, "number of lines to show, 0 for all (default from config)")
	cmd.Flags().StringVarP(&rankOutFlag, "out", "o", "", "export the ranking as YAML to this file")

	return cmd
}

func init() {
	rootCmd.AddCommand(rankCmd)
}
