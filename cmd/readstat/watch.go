package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/readstat/internal/logger"
	"github.com/verte-zerg/readstat/internal/model"
	"github.com/verte-zerg/readstat/internal/readability"
	"github.com/verte-zerg/readstat/internal/source"
	"github.com/verte-zerg/readstat/internal/store"
	"github.com/verte-zerg/readstat/internal/watch"
)

var (
	watchDebounce string
	watchMaxBatch int
	watchSave     bool
	watchMarkdown bool
	watchLabel    string
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch paths|globs...",
		Short: "Re-analyze files whenever they change",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runWatchCmd,
	}
	cmd.Flags().StringVar(&watchDebounce, "debounce", watch.DefaultDebounce.String(), "quiet period before re-analyzing")
	cmd.Flags().IntVar(&watchMaxBatch, "max-batch", watch.DefaultMaxBatch, "changed files that force an early re-analysis")
	cmd.Flags().BoolVar(&watchSave, "save", false, "record every re-analysis in history")
	cmd.Flags().BoolVar(&watchMarkdown, "markdown", false, "treat input as Markdown (automatic for .md files)")
	cmd.Flags().StringVar(&watchLabel, "label", "", "label stored with saved results")
	return cmd
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	applyStringConfig(cmd, "debounce", &watchDebounce, fileCfg.Watch.Debounce)
	applyIntConfig(cmd, "max-batch", &watchMaxBatch, fileCfg.Watch.MaxBatch)
	applyBoolConfig(cmd, "save", &watchSave, fileCfg.Watch.Save)

	debounce, err := time.ParseDuration(watchDebounce)
	if err != nil {
		return fmt.Errorf("invalid --debounce value: %w", err)
	}
	cfg := model.WatchConfig{
		Debounce: debounce,
		MaxBatch: watchMaxBatch,
		Save:     watchSave,
		Markdown: watchMarkdown,
	}
	if err := validateWatchConfig(cfg); err != nil {
		return err
	}

	paths, err := source.Expand(args)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if p == source.Stdin {
			return fmt.Errorf("cannot watch stdin")
		}
	}

	var st *store.Store
	if cfg.Save {
		st, err = openStore()
		if err != nil {
			return err
		}
		defer closeStore(st)
	}

	r := newReanalyzer(cmd.OutOrStdout(), st, watchLabel, cfg.Markdown)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(paths, cfg.Debounce, cfg.MaxBatch, func(changed []string) {
		r.analyze(ctx, changed)
	})
	if err != nil {
		return fmt.Errorf("failed to watch: %w", err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			logErrf("failed to close watcher: %v\n", cerr)
		}
	}()

	r.analyze(ctx, w.Targets())
	r.log.Info().Int("paths", len(paths)).Dur("debounce", cfg.Debounce).Msg("watching")
	return w.Run(ctx)
}

func validateWatchConfig(cfg model.WatchConfig) error {
	if cfg.Debounce <= 0 {
		return fmt.Errorf("--debounce must be > 0")
	}
	if cfg.MaxBatch <= 0 {
		return fmt.Errorf("--max-batch must be > 0")
	}
	return nil
}

// reanalyzer prints one line per analyzed file with the grade change since
// the previous run.
type reanalyzer struct {
	mu       sync.Mutex
	out      io.Writer
	analyzer *readability.Analyzer
	store    *store.Store
	label    string
	markdown bool
	last     map[string]readability.Stats
	log      zerolog.Logger
}

func newReanalyzer(out io.Writer, st *store.Store, label string, markdown bool) *reanalyzer {
	return &reanalyzer{
		out:      out,
		analyzer: readability.NewAnalyzer(nil),
		store:    st,
		label:    label,
		markdown: markdown,
		last:     map[string]readability.Stats{},
		log:      logger.ForComponent("watch"),
	}
}

func (r *reanalyzer) analyze(ctx context.Context, paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range paths {
		doc, err := source.ReadFile(p, r.markdown)
		if err != nil {
			r.log.Warn().Err(err).Str("path", p).Msg("failed to read")
			continue
		}
		a, words := model.NewAnalysis(r.analyzer, doc.Name, r.label, doc.Text)
		if _, err := fmt.Fprintln(r.out, formatChange(time.Now(), p, a.Stats, r.last[p], r.hasLast(p))); err != nil {
			r.log.Warn().Err(err).Msg("failed to write output")
		}
		r.last[p] = a.Stats
		if r.store == nil {
			continue
		}
		if _, err := r.store.InsertAnalysis(ctx, a, words); err != nil {
			r.log.Error().Err(err).Str("path", p).Msg("failed to save analysis")
		}
	}
}

func (r *reanalyzer) hasLast(path string) bool {
	_, ok := r.last[path]
	return ok
}

func formatChange(at time.Time, path string, s, prev readability.Stats, hasPrev bool) string {
	line := fmt.Sprintf("%s  %s  words=%d  ease=%.1f  grade=%.1f  fog=%.1f",
		at.Format(time.Kitchen), path, s.Words, s.FleschReadingEase, s.FleschKincaidGrade, s.GunningFog)
	if hasPrev {
		line += fmt.Sprintf("  (grade %+.1f)", s.FleschKincaidGrade-prev.FleschKincaidGrade)
	}
	return line
}
