package main

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/readstat/internal/historyui"
	"github.com/verte-zerg/readstat/internal/model"
	"github.com/verte-zerg/readstat/internal/stats"
)

var (
	historyPlain  bool
	historySource string
	historyLabel  string
	historySince  string
	historyLast   int
	historyWindow int
	historyWords  int
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved analyses",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a report instead of the interactive browser")
	cmd.Flags().StringVar(&historySource, "source", "", "only sources containing this text")
	cmd.Flags().StringVar(&historyLabel, "label", "", "only this label")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to the last N analyses")
	cmd.Flags().IntVar(&historyWindow, "window", defaultWindow, "moving average window for trends")
	cmd.Flags().IntVar(&historyWords, "words", defaultTopWords, "complex words to list in the report")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	applyIntConfig(cmd, "last", &historyLast, fileCfg.History.Last)
	applyIntConfig(cmd, "window", &historyWindow, fileCfg.History.Window)

	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	filter := model.HistoryFilter{
		Source: historySource,
		Label:  historyLabel,
		Since:  sinceTime,
		Last:   historyLast,
		Window: historyWindow,
	}
	if err := validateHistoryFilter(filter); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	out := cmd.OutOrStdout()
	if historyPlain || !isTerminal(out) {
		report, err := stats.BuildHistory(cmd.Context(), st, filter)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		return renderHistoryReport(out, report, filter.Window, historyWords)
	}

	program := tea.NewProgram(historyui.NewModel(st, filter), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func validateHistoryFilter(filter model.HistoryFilter) error {
	if filter.Last < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if filter.Window < 1 {
		return fmt.Errorf("--window must be >= 1")
	}
	return nil
}

func renderHistoryReport(w io.Writer, report stats.History, window, words int) error {
	if err := stats.RenderHistory(w, report.Analyses); err != nil {
		return err
	}
	if len(report.Analyses) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if err := stats.RenderSummary(w, report.Analyses); err != nil {
		return err
	}
	if len(report.Analyses) > 1 {
		if err := stats.RenderSparklines(w, report.Analyses); err != nil {
			return err
		}
		if err := stats.RenderTrends(w, report.Analyses, window, 0, 0, false); err != nil {
			return err
		}
	}
	if words > 0 {
		return stats.RenderWords(w, report.Words, words)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
