package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lexidx/lexidx/internal/errors"
	"github.com/lexidx/lexidx/internal/index"
	"github.com/lexidx/lexidx/internal/store"
	"github.com/lexidx/lexidx/internal/ui"
	"github.com/lexidx/lexidx/internal/watcher"
)

type indexOptions struct {
	output string
	format string
	noTUI  bool
	watch  bool
}

func newIndexCmd(a *app) *cobra.Command {
	var opts indexOptions

	cmd := &cobra.Command{
		Use:   "index <folder>",
		Short: "Index every document under a folder",
		Long: `Walk a folder recursively, count the terms of every XML document and
save the per-document term frequencies to the index file.

Documents that cannot be parsed are reported and skipped. If the folder
itself cannot be read, nothing is written.

The store format is chosen by --format, or by the file extension
(.db, .sqlite, .sqlite3 use SQLite; anything else uses JSON).`,
		Example: `  lexidx index ./docs
  lexidx index ./docs -o docs.db
  lexidx index ./docs --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runIndex(ctx, cmd, a, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Index file to write (default from config: index.path)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Store format: json or sqlite (default: by extension)")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "Plain line-per-event output")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-index whenever the folder changes")

	return cmd
}

// indexRun builds and saves the index for one folder.
type indexRun struct {
	dir       string
	indexPath string
	store     store.Store
	renderer  ui.Renderer
	logger    *slog.Logger
}

func runIndex(ctx context.Context, cmd *cobra.Command, a *app, dir string, opts indexOptions) error {
	indexPath := opts.output
	if indexPath == "" {
		indexPath = a.cfg.Index.Path
	}
	format := opts.format
	if format == "" {
		format = a.cfg.Index.Format
	}

	st, err := store.ForPath(indexPath, format)
	if err != nil {
		return err
	}

	renderer := ui.NewRenderer(ui.NewConfig(cmd.OutOrStdout(),
		ui.WithForcePlain(opts.noTUI),
		ui.WithCorpusDir(dir),
	))
	if err := renderer.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = renderer.Stop() }()

	run := &indexRun{
		dir:       dir,
		indexPath: indexPath,
		store:     st,
		renderer:  renderer,
		logger:    a.logger,
	}

	if err := run.build(); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}
	return run.watch(ctx, a.cfg.Watch.Debounce)
}

// build indexes the folder from scratch and saves the result. The index
// file is left untouched when the walk fails.
func (r *indexRun) build() error {
	r.logger.Info("index_started",
		slog.String("dir", r.dir),
		slog.String("index", r.indexPath))

	visited := 0
	observer := index.ObserverFunc(func(ev index.DocumentEvent) {
		visited++
		if ev.Err != nil {
			r.renderer.AddError(ui.ErrorEvent{File: ev.Path, Err: ev.Err, IsWarn: true})
			r.logger.Warn("document_skipped",
				append([]any{slog.String("path", ev.Path)}, errors.FormatForLog(ev.Err)...)...)
			return
		}
		r.renderer.UpdateProgress(ui.ProgressEvent{
			Stage:       ui.StageWalking,
			Current:     visited,
			CurrentFile: ev.Path,
		})
		r.logger.Debug("document_indexed",
			slog.String("path", ev.Path),
			slog.Int("terms", ev.Terms))
	})

	idx := make(index.TermFrequencyIndex)
	report, err := index.NewIndexer(nil, index.WithObserver(observer)).Index(r.dir, idx)
	if err != nil {
		r.logger.Error("index_failed", errors.FormatForLog(err)...)
		return err
	}

	r.renderer.UpdateProgress(ui.ProgressEvent{
		Stage:   ui.StageSaving,
		Message: r.indexPath,
	})
	if err := r.store.Save(idx, r.indexPath); err != nil {
		r.logger.Error("index_save_failed", errors.FormatForLog(err)...)
		return err
	}

	r.renderer.Complete(ui.CompletionStats{
		Documents: report.Indexed,
		Skipped:   len(report.Skipped),
		Terms:     idx.Terms(),
		IndexPath: r.indexPath,
		Duration:  report.Duration,
	})
	r.logger.Info("index_saved",
		slog.String("index", r.indexPath),
		slog.Int("documents", report.Indexed),
		slog.Int("skipped", len(report.Skipped)),
		slog.Int("terms", idx.Terms()),
		slog.Duration("duration", report.Duration))
	return nil
}

// watch rebuilds the index after every debounced batch of changes until ctx
// is cancelled. Rebuilds run one at a time; a failed rebuild keeps the
// previous index file.
func (r *indexRun) watch(ctx context.Context, debounce time.Duration) error {
	w, err := watcher.New(watcher.Options{
		DebounceWindow: debounce,
		Ignore:         []string{r.indexPath},
		Logger:         r.logger,
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	abs, _ := filepath.Abs(r.dir)
	r.renderer.UpdateProgress(ui.ProgressEvent{
		Stage:   ui.StageWatching,
		Message: abs + " (Ctrl+C to stop)",
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := w.Start(gctx, r.dir)
		if stderrors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		errs := w.Errors()
		for {
			select {
			case <-gctx.Done():
				return nil
			case batch, ok := <-w.Events():
				if !ok {
					return nil
				}
				r.logger.Info("watch_changes", slog.Int("events", len(batch)))
				r.renderer.UpdateProgress(ui.ProgressEvent{
					Stage:   ui.StageWatching,
					Message: fmt.Sprintf("%d change(s), re-indexing", len(batch)),
				})
				if err := r.build(); err != nil {
					r.renderer.AddError(ui.ErrorEvent{Err: err})
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				r.logger.Warn("watch_error", slog.String("error", err.Error()))
			}
		}
	})

	return g.Wait()
}
