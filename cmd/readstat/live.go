package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/readstat/internal/live"
	"github.com/verte-zerg/readstat/internal/readability"
	"github.com/verte-zerg/readstat/internal/source"
)

var (
	liveLabel  string
	liveNoSave bool
)

func newLiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live [file]",
		Short: "Edit text and watch its scores update",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLiveCmd,
	}
	cmd.Flags().StringVar(&liveLabel, "label", "", "label stored with saved results")
	cmd.Flags().BoolVar(&liveNoSave, "no-save", false, "disable saving with ctrl+s")
	return cmd
}

func runLiveCmd(_ *cobra.Command, args []string) error {
	initial := ""
	if len(args) == 1 {
		doc, err := source.ReadFile(args[0], false)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		initial = doc.Text
	}

	var saver live.Saver
	if !liveNoSave {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(st)
		saver = st
	}

	m := live.NewModel(readability.NewAnalyzer(nil), saver, liveLabel, initial)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run live TUI: %w", err)
	}
	return nil
}
