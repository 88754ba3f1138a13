// Package cmd provides the root command and CLI setup for suspect.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/suspect/internal/adapter"
	"github.com/mouse-blink/suspect/internal/config"
	"github.com/mouse-blink/suspect/internal/controller"
	"github.com/mouse-blink/suspect/internal/domain"
	m "github.com/mouse-blink/suspect/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var coverageReader adapter.CoverageReader
var rankingStore adapter.RankingStore
var watcher adapter.Watcher

// workflow is wired on first use once the configuration is known. Tests
// replace it before executing a command.
var workflow domain.Workflow
var settings = config.DefaultConfig()

func init() {
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	coverageReader = adapter.NewLocalCoverageReader(fsAdapter)
	rankingStore = adapter.NewRankingStore()
	watcher = adapter.NewFSNotifyWatcher()
}

var configFlag string
var verboseFlag bool
var formatFlag string
var parallelFlag int
var runsFlag []string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suspect",
		Short: "Coverage-based fault localization",
		Long: `Suspect ranks source lines by how strongly their coverage correlates with
failing tests. It reads run manifests, each naming a test pattern, its verdict
and a coverage file, and scores every covered line with the Tarantula formula.

Runs are given as manifest files or directories:
  - runs/             manifests directly inside runs
  - runs/...          manifests anywhere below runs
  - a.run.yaml        a single manifest`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file (default: .suspect/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging on stderr")
	cmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "output format: table, json or heatmap")
	cmd.PersistentFlags().IntVarP(&parallelFlag, "parallel", "p", 0, "number of parallel manifest readers")
	cmd.PersistentFlags().StringArrayVarP(&runsFlag, "runs", "r", nil, "run manifest, directory or dir/... pattern (can be repeated)")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if formatFlag != "" {
		cfg.Output.Format = formatFlag
	}

	if parallelFlag > 0 {
		cfg.Ingest.Parallel = parallelFlag
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	settings = cfg

	if workflow != nil {
		return nil
	}

	workflow, err = wireWorkflow(cmd, cfg, newLogger(cmd.ErrOrStderr(), verboseFlag))

	return err
}

func loadConfig() (*config.Config, error) {
	if configFlag != "" {
		return config.LoadFromPath(configFlag)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	return config.Load(wd)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func wireWorkflow(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (domain.Workflow, error) {
	formula, err := domain.NewFormula(domain.FormulaKind(cfg.Scoring.Formula), domain.ZeroPolicy(cfg.Scoring.ZeroDenominator))
	if err != nil {
		return nil, err
	}

	noInfo, err := m.ParseCoverageStatus(cfg.Scoring.NoCoverageInfo)
	if err != nil {
		return nil, err
	}

	policy, err := domain.ParseRegistrationPolicy(cfg.Scoring.Registration)
	if err != nil {
		return nil, err
	}

	formatKind := controller.FormatKind(cfg.Output.Format)

	formatter, err := controller.NewFormatter(formatKind)
	if err != nil {
		return nil, err
	}

	sourceMaps, err := adapter.NewLocalSourceMapStore(fsAdapter, cfg.Ingest.SourceMapCache, logger)
	if err != nil {
		return nil, err
	}

	store := domain.NewCoverageStore(sourceMaps,
		domain.WithRegistrationPolicy(policy),
		domain.WithStoreLogger(logger),
	)
	engine := domain.NewEngine(store, domain.WithFormula(formula), domain.WithNoInfoStatus(noInfo))

	// watch redraws after every manifest, so it never takes over the terminal.
	useTTY := formatKind != controller.FormatJSON && cmd.Name() != "watch" && controller.IsTTY(os.Stdout)
	ui := controller.NewUI(cmd, useTTY, formatter)

	return domain.NewWorkflow(fsAdapter, coverageReader, rankingStore, watcher, store, engine, ui, logger), nil
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

func ingestArgs() domain.IngestArgs {
	return domain.IngestArgs{
		Runs:    parsePaths(runsFlag),
		Threads: settings.Ingest.Parallel,
	}
}

func topLimit(cmd *cobra.Command, flag int) int {
	if cmd.Flags().Changed("top") {
		return flag
	}

	return settings.Output.Top
}
