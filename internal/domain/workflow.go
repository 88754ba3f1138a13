package domain

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/suspect/internal/adapter"
	"github.com/mouse-blink/suspect/internal/controller"
	m "github.com/mouse-blink/suspect/internal/model"
)

// IngestArgs selects the run manifests to load.
type IngestArgs struct {
	// Runs holds manifest files, directories or "dir/..." patterns.
	Runs    []m.Path
	Threads int
}

// LinesArgs selects the file whose per-line records are shown.
type LinesArgs struct {
	IngestArgs
	File m.Path
}

// RankArgs configures a suspiciousness ranking.
type RankArgs struct {
	IngestArgs
	// Files limits the ranking; empty means every indexed file.
	Files []m.Path
	Top   int
	// Out, when set, receives a YAML export of the ranking.
	Out m.Path
}

// SummaryArgs selects the file whose summary is shown.
type SummaryArgs struct {
	IngestArgs
	File m.Path
}

// WatchArgs configures watch mode.
type WatchArgs struct {
	Dir     m.Path
	Files   []m.Path
	Top     int
	Threads int
	// Resets, when set, clears the session each time it receives. Manifests
	// written afterwards start from an empty store.
	Resets <-chan struct{}
}

// Workflow defines the fault localization operations exposed to the CLI.
type Workflow interface {
	Ingest(ctx context.Context, args IngestArgs) error
	Lines(ctx context.Context, args LinesArgs) error
	Rank(ctx context.Context, args RankArgs) error
	Summary(ctx context.Context, args SummaryArgs) error
	Watch(ctx context.Context, args WatchArgs) error
	Reset()
}

type workflow struct {
	fsAdapter adapter.SourceFSAdapter
	reader    adapter.CoverageReader
	rankings  adapter.RankingStore
	watcher   adapter.Watcher
	store     *CoverageStore
	engine    *Engine
	ui        controller.UI
	logger    *slog.Logger
}

// NewWorkflow creates a new Workflow instance with the provided adapters.
// A nil logger discards output.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reader adapter.CoverageReader,
	rankings adapter.RankingStore,
	watcher adapter.Watcher,
	store *CoverageStore,
	engine *Engine,
	ui controller.UI,
	logger *slog.Logger,
) Workflow {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &workflow{
		fsAdapter: fsAdapter,
		reader:    reader,
		rankings:  rankings,
		watcher:   watcher,
		store:     store,
		engine:    engine,
		ui:        ui,
		logger:    logger,
	}
}

// Ingest loads the manifests and reports the outcome through the UI.
func (w *workflow) Ingest(ctx context.Context, args IngestArgs) error {
	report, err := w.ingest(ctx, args)

	return w.ui.DisplayIngest(report, err)
}

// Lines shows the per-line records of a single file.
func (w *workflow) Lines(ctx context.Context, args LinesArgs) error {
	if err := w.preload(ctx, args.IngestArgs); err != nil {
		return err
	}

	report, err := w.fileReport(args.File)
	if err != nil {
		return err
	}

	return w.ui.DisplayLines(report)
}

// Rank scores every requested file and displays the merged ranking.
func (w *workflow) Rank(ctx context.Context, args RankArgs) error {
	if err := w.preload(ctx, args.IngestArgs); err != nil {
		return err
	}

	report, err := w.ranking(args.Files, args.Top)
	if err != nil {
		return err
	}

	if args.Out != "" {
		if err := w.rankings.SaveRanking(args.Out, report); err != nil {
			return fmt.Errorf("failed to export ranking: %w", err)
		}

		w.logger.Info("ranking exported", "file", args.Out, "lines", len(report.Lines))
	}

	return w.ui.DisplayRanking(report)
}

// Summary shows the passing and failing pattern counts for a file.
func (w *workflow) Summary(ctx context.Context, args SummaryArgs) error {
	if err := w.preload(ctx, args.IngestArgs); err != nil {
		return err
	}

	path, err := w.fsAdapter.Abs(args.File)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", args.File, err)
	}

	return w.ui.DisplaySummary(w.store.Summary(path))
}

// Watch ingests existing manifests under Dir, then re-ingests each manifest
// written there until ctx is done, redisplaying the watched files each time.
// A receive on Resets clears the session and redisplays the empty state.
func (w *workflow) Watch(ctx context.Context, args WatchArgs) error {
	root := strings.TrimSuffix(string(args.Dir), "/...")
	initial := IngestArgs{Runs: []m.Path{m.Path(root + "/...")}, Threads: args.Threads}

	if err := w.Ingest(ctx, initial); err != nil {
		return err
	}

	if err := w.refresh(args); err != nil {
		return err
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	defer wg.Wait()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if args.Resets != nil {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-args.Resets:
					if !ok {
						return
					}

					mu.Lock()
					w.Reset()
					w.logger.Info("session reset")

					if err := w.refresh(args); err != nil {
						w.logger.Warn("refresh failed", "err", err)
					}
					mu.Unlock()
				}
			}
		}()
	}

	return w.watcher.Watch(ctx, m.Path(root), func(path m.Path) {
		mu.Lock()
		defer mu.Unlock()

		w.logger.Debug("manifest changed", "file", path)

		if err := w.Ingest(ctx, IngestArgs{Runs: []m.Path{path}, Threads: 1}); err != nil {
			w.logger.Warn("re-ingest failed", "file", path, "err", err)
			return
		}

		if err := w.refresh(args); err != nil {
			w.logger.Warn("refresh failed", "err", err)
		}
	})
}

// Reset clears the session.
func (w *workflow) Reset() {
	w.store.Reset()
}

func (w *workflow) refresh(args WatchArgs) error {
	files, err := w.absPaths(args.Files)
	if err != nil {
		return err
	}

	for _, path := range files {
		if err := w.ui.DisplaySummary(w.store.Summary(path)); err != nil {
			return err
		}
	}

	report, err := w.ranking(args.Files, args.Top)
	if err != nil {
		return err
	}

	return w.ui.DisplayRanking(report)
}

// preload ingests runs for commands that display something else, logging
// the ingest outcome instead of printing it.
func (w *workflow) preload(ctx context.Context, args IngestArgs) error {
	if len(args.Runs) == 0 {
		return nil
	}

	report, err := w.ingest(ctx, args)
	if err != nil {
		return err
	}

	w.logger.Info("runs ingested",
		"applied", report.Applied,
		"failed", report.Failed,
		"patterns", report.Patterns,
		"files", report.Files)

	return nil
}

type loadedRun struct {
	run m.TestRun
	err error
}

func (w *workflow) ingest(ctx context.Context, args IngestArgs) (m.IngestReport, error) {
	manifests, err := w.reader.FindManifests(args.Runs)
	if err != nil {
		return m.IngestReport{}, fmt.Errorf("failed to find run manifests: %w", err)
	}

	threads := args.Threads
	if threads <= 0 {
		threads = 1
	}

	loaded := make([]loadedRun, len(manifests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	for i, path := range manifests {
		i, path := i, path

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			loaded[i] = w.loadRun(path)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return m.IngestReport{}, err
	}

	var report m.IngestReport

	for i, l := range loaded {
		if l.err != nil {
			report.Failed++
			w.logger.Warn("skipping run manifest", "file", manifests[i], "err", l.err)

			continue
		}

		if err := w.store.Update(ctx, l.run.Pattern, l.run.Passed, l.run.Coverage); err != nil {
			return report, err
		}

		report.Applied++
		w.logger.Debug("run applied", "pattern", l.run.Pattern, "passed", l.run.Passed, "files", len(l.run.Coverage))
	}

	report.Patterns = w.store.Patterns()
	report.Files = len(w.store.Files())
	report.Pending = w.store.Pending()

	if len(report.Pending) > 0 {
		w.logger.Warn("patterns reported once are not indexed yet", "patterns", report.Pending)
	}

	return report, nil
}

func (w *workflow) loadRun(path m.Path) loadedRun {
	manifest, err := w.reader.ReadManifest(path)
	if err != nil {
		return loadedRun{err: err}
	}

	run := m.TestRun{
		Pattern: manifest.Pattern,
		Passed:  manifest.Passed,
		Source:  manifest.Source,
	}

	if manifest.Coverage == "" {
		return loadedRun{run: run}
	}

	coverage, err := w.reader.ReadCoverage(manifest.Coverage)
	if err != nil {
		return loadedRun{err: err}
	}

	run.Coverage = coverage

	return loadedRun{run: run}
}

func (w *workflow) fileReport(file m.Path) (m.FileReport, error) {
	path, err := w.fsAdapter.Abs(file)
	if err != nil {
		return m.FileReport{}, fmt.Errorf("failed to resolve %s: %w", file, err)
	}

	source, err := w.fsAdapter.ReadLines(path)
	lineCount := len(source)

	if err != nil {
		w.logger.Debug("source unreadable, using covered extent", "file", path, "err", err)

		source = nil
		lineCount = w.engine.MaxLine(path)
	}

	return m.FileReport{
		Path:    path,
		Source:  source,
		Records: w.engine.Score(path, lineCount),
		Summary: w.store.Summary(path),
	}, nil
}

func (w *workflow) ranking(files []m.Path, top int) (m.RankingReport, error) {
	paths, err := w.absPaths(files)
	if err != nil {
		return m.RankingReport{}, err
	}

	if len(paths) == 0 {
		paths = w.store.Files()
	}

	report := m.RankingReport{Formula: w.engine.Formula().Name()}
	perFile := make([][]m.RankedLine, 0, len(paths))

	for _, path := range paths {
		fr, err := w.fileReport(path)
		if err != nil {
			return m.RankingReport{}, err
		}

		ranked := Rank(path, fr.Records)
		if fr.Source != nil {
			ranked = filterIgnored(ranked, buildIgnoreIndex(fr.Source))
		}

		perFile = append(perFile, ranked)
		report.Summaries = append(report.Summaries, fr.Summary)
	}

	report.Lines = Top(MergeRankings(perFile...), top)

	return report, nil
}

func (w *workflow) absPaths(files []m.Path) ([]m.Path, error) {
	paths := make([]m.Path, 0, len(files))

	for _, file := range files {
		path, err := w.fsAdapter.Abs(file)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", file, err)
		}

		paths = append(paths, path)
	}

	return paths, nil
}
