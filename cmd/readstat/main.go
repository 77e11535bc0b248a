// Package main provides the CLI entrypoint for readstat.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/readstat/internal/config"
	"github.com/verte-zerg/readstat/internal/logger"
	"github.com/verte-zerg/readstat/internal/store"
)

const (
	defaultFormat   = "text"
	defaultWindow   = 5
	defaultTopWords = 15
	defaultShow     = 20
)

var (
	verbosity int
	logJSON   bool
	fileCfg   config.FileConfig
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "readstat [paths|globs...]",
		Short: "Readability statistics for English prose",
		Long: `Computes Flesch Reading Ease, Flesch-Kincaid Grade, Gunning Fog,
Coleman-Liau, SMOG and the Automated Readability Index.

Input comes from files and globs ("docs/**/*.md"), from --text, or from
stdin when no paths are given.`,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setup,
		RunE:              runAnalyzeCmd,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "log more (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON lines")
	addAnalyzeFlags(rootCmd)

	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newSyllablesCmd())
	rootCmd.AddCommand(newCalibrateCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newLiveCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// setup loads the config file and configures logging for every command.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg = cfg

	logCfg := logger.DefaultConfig()
	logCfg.Output = cmd.ErrOrStderr()
	if cfg.Log.Level != nil {
		logCfg.Level = logger.ParseLevel(*cfg.Log.Level)
	}
	switch {
	case verbosity == 1:
		logCfg.Level = zerolog.InfoLevel
	case verbosity > 1:
		logCfg.Level = zerolog.DebugLevel
	}
	logCfg.JSON = logJSON
	if cfg.Log.JSON != nil && !cmd.Flags().Changed("log-json") {
		logCfg.JSON = *cfg.Log.JSON
	}
	logger.Init(logCfg)
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if st == nil {
		return
	}
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func trimmedLines(s string) []string {
	var out []string
	for line := range strings.SplitSeq(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
