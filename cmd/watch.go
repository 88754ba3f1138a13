package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/suspect/internal/domain"
	m "github.com/mouse-blink/suspect/internal/model"
)

var watchTopFlag int

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir> [source-files...]",
		Short: "Re-rank whenever new run manifests appear",
		Long: `Ingest every manifest below dir, then keep watching it. Each manifest
written afterwards is ingested and the summaries and ranking of the given
source files (or every indexed file) are printed again.

Send SIGHUP (kill -HUP <pid>) to clear the session and start over. Stop with
Ctrl+C.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resets, stop := resetRequests(cmd.Context(), syscall.SIGHUP)
			defer stop()

			return workflow.Watch(cmd.Context(), domain.WatchArgs{
				Dir:     m.Path(args[0]),
				Files:   parsePaths(args[1:]),
				Top:     topLimit(cmd, watchTopFlag),
				Threads: settings.Ingest.Parallel,
				Resets:  resets,
			})
		},
	}
	cmd.Flags().IntVarP(&watchTopFlag, "top", "n", 0, "number of lines to show, 0 for all (default from config)")

	return cmd
}

// resetRequests turns the given signals into session reset requests. Requests
// arriving while one is pending are coalesced.
func resetRequests(ctx context.Context, sigs ...os.Signal) (<-chan struct{}, func()) {
	incoming := make(chan os.Signal, 1)
	signal.Notify(incoming, sigs...)

	resets := make(chan struct{}, 1)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-incoming:
				select {
				case resets <- struct{}{}:
				default:
				}
			}
		}
	}()

	return resets, func() {
		signal.Stop(incoming)
		close(done)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
