package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/readstat/internal/config"
	"github.com/verte-zerg/readstat/internal/generator"
	"github.com/verte-zerg/readstat/internal/readability"
	"github.com/verte-zerg/readstat/internal/reference"
	"github.com/verte-zerg/readstat/internal/stats"
)

var (
	cleanMarkdown bool

	calibrateShow int

	sampleSeed      int64
	sampleSentences int
	sampleMinWords  int
	sampleMaxWords  int
	sampleCaps      float64
	sampleWords     string
	sampleAnalyze   bool
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [paths|globs...]",
		Short: "Print text in the canonical form that is scored",
		RunE:  runCleanCmd,
	}
	cmd.Flags().BoolVar(&cleanMarkdown, "markdown", false, "treat input as Markdown (automatic for .md files)")
	return cmd
}

func runCleanCmd(cmd *cobra.Command, args []string) error {
	docs, err := readInputs(cmd, args, cleanMarkdown)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, doc := range docs {
		if _, err := fmt.Fprintln(out, readability.Clean(doc.Text)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newSyllablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "syllables [words...]",
		Short: "Explain syllable estimates word by word",
		Long:  "Explain syllable estimates. Without arguments, words are read one per line from stdin.",
		RunE:  runSyllablesCmd,
	}
}

func runSyllablesCmd(cmd *cobra.Command, args []string) error {
	words := args
	if len(words) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		words = trimmedLines(string(data))
	}
	if len(words) == 0 {
		return fmt.Errorf("no words given")
	}
	est := readability.DefaultEstimator()
	out := cmd.OutOrStdout()
	for _, word := range words {
		if err := stats.RenderBreakdown(out, est.Explain(word)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newCalibrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate [file]",
		Short: "Measure syllable estimates against a reference list",
		Long: `Measure syllable estimates against a reference list of "word<TAB>count"
lines. Without a file, the list is read from the config directory
(syllables.tsv).`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCalibrateCmd,
	}
	cmd.Flags().IntVar(&calibrateShow, "show", defaultShow, "mismatches to list (0 for all)")
	return cmd
}

func runCalibrateCmd(cmd *cobra.Command, args []string) error {
	path := config.DefaultReferencePath()
	if len(args) == 1 {
		path = args[0]
	}
	if calibrateShow < 0 {
		return fmt.Errorf("--show must be >= 0")
	}
	entries, err := reference.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load reference list: %w", err)
	}
	res := reference.Calibrate(readability.DefaultEstimator(), entries)
	return stats.RenderCalibration(cmd.OutOrStdout(), res, calibrateShow)
}

func newSampleCmd() *cobra.Command {
	defaults := generator.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print generated sample prose",
		Args:  cobra.NoArgs,
		RunE:  runSampleCmd,
	}
	cmd.Flags().Int64Var(&sampleSeed, "seed", 0, "random seed (0 for time based)")
	cmd.Flags().IntVar(&sampleSentences, "sentences", defaults.Sentences, "number of sentences")
	cmd.Flags().IntVar(&sampleMinWords, "min-words", defaults.MinWords, "minimum words per sentence")
	cmd.Flags().IntVar(&sampleMaxWords, "max-words", defaults.MaxWords, "maximum words per sentence")
	cmd.Flags().Float64Var(&sampleCaps, "caps", defaults.CapsPct, "probability of a capitalized word (0-1)")
	cmd.Flags().StringVar(&sampleWords, "words", "", "word list file, one word per line")
	cmd.Flags().BoolVar(&sampleAnalyze, "analyze", false, "print the statistics of the generated text")
	return cmd
}

func runSampleCmd(cmd *cobra.Command, _ []string) error {
	opts := generator.DefaultOptions()
	opts.Sentences = sampleSentences
	opts.MinWords = sampleMinWords
	opts.MaxWords = sampleMaxWords
	opts.CapsPct = sampleCaps
	if err := validateSampleOptions(opts); err != nil {
		return err
	}

	words := generator.DefaultWords
	if sampleWords != "" {
		loaded, err := reference.LoadWords(sampleWords)
		if err != nil {
			return fmt.Errorf("failed to load word list: %w", err)
		}
		words = loaded
	}

	text := generator.New(sampleSeed).Text(words, opts)
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !sampleAnalyze {
		return nil
	}
	if _, err := fmt.Fprintln(out, ""); err != nil {
		return err
	}
	return stats.RenderStats(out, readability.Analyze(text), false)
}

func validateSampleOptions(opts generator.Options) error {
	if opts.Sentences <= 0 {
		return fmt.Errorf("--sentences must be > 0")
	}
	if opts.MinWords <= 0 {
		return fmt.Errorf("--min-words must be > 0")
	}
	if opts.MaxWords < opts.MinWords {
		return fmt.Errorf("--max-words must be >= --min-words")
	}
	if opts.CapsPct < 0 || opts.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	return nil
}
