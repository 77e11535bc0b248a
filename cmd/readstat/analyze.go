package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/readstat/internal/logger"
	"github.com/verte-zerg/readstat/internal/model"
	"github.com/verte-zerg/readstat/internal/readability"
	"github.com/verte-zerg/readstat/internal/source"
	"github.com/verte-zerg/readstat/internal/stats"
)

var (
	analyzeText               string
	analyzeFormat             string
	analyzeMarkdown           bool
	analyzeSave               bool
	analyzeLabel              string
	analyzeExcludeProperNouns bool
	analyzeWorkers            int
)

type jsonResult struct {
	Source string            `json:"source"`
	Stats  readability.Stats `json:"stats"`
}

func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&analyzeText, "text", "", "analyze this text instead of files or stdin")
	cmd.Flags().StringVarP(&analyzeFormat, "format", "f", defaultFormat, "output format: text, json or table")
	cmd.Flags().BoolVar(&analyzeMarkdown, "markdown", false, "treat input as Markdown (automatic for .md files)")
	cmd.Flags().BoolVar(&analyzeSave, "save", false, "record results in history")
	cmd.Flags().StringVar(&analyzeLabel, "label", "", "label stored with saved results")
	cmd.Flags().BoolVar(&analyzeExcludeProperNouns, "exclude-proper-nouns", false, "count only common polysyllabic words in the text report")
	cmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "parallel workers for many inputs (default: CPU count)")
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	applyStringConfig(cmd, "format", &analyzeFormat, fileCfg.Analyze.Format)
	applyBoolConfig(cmd, "markdown", &analyzeMarkdown, fileCfg.Analyze.Markdown)
	applyBoolConfig(cmd, "save", &analyzeSave, fileCfg.Analyze.Save)
	applyBoolConfig(cmd, "exclude-proper-nouns", &analyzeExcludeProperNouns, fileCfg.Analyze.ExcludeProperNouns)
	applyIntConfig(cmd, "workers", &analyzeWorkers, fileCfg.Analyze.Workers)

	cfg := model.AnalyzeConfig{
		Format:             analyzeFormat,
		Markdown:           analyzeMarkdown,
		Save:               analyzeSave,
		Label:              analyzeLabel,
		ExcludeProperNouns: analyzeExcludeProperNouns,
		Workers:            analyzeWorkers,
	}
	if err := validateAnalyzeConfig(cfg); err != nil {
		return err
	}

	var docs []source.Document
	if cmd.Flags().Changed("text") {
		if len(args) > 0 {
			return fmt.Errorf("--text cannot be combined with paths")
		}
		docs = []source.Document{{Name: "text", Text: analyzeText}}
	} else {
		var err error
		docs, err = readInputs(cmd, args, cfg.Markdown)
		if err != nil {
			return err
		}
	}

	log := logger.ForComponent("analyze")
	an := readability.NewAnalyzer(nil)
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}
	results, err := an.AnalyzeAll(cmd.Context(), texts, cfg.Workers)
	if err != nil {
		return fmt.Errorf("failed to analyze: %w", err)
	}
	log.Debug().Int("inputs", len(docs)).Int("workers", cfg.Workers).Msg("analyzed")

	if cfg.Save {
		if err := saveAnalyses(cmd.Context(), an, docs, cfg.Label); err != nil {
			return err
		}
	}

	named := make([]stats.Named, len(docs))
	for i, doc := range docs {
		named[i] = stats.Named{Name: doc.Name, Stats: results[i]}
	}
	return renderResults(cmd.OutOrStdout(), named, cfg)
}

func validateAnalyzeConfig(cfg model.AnalyzeConfig) error {
	switch cfg.Format {
	case "text", "json", "table":
	default:
		return fmt.Errorf("--format must be text, json or table")
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("--workers must be >= 0")
	}
	return nil
}

// readInputs collects documents from paths, or from stdin when no paths
// are given. An interactive stdin is refused.
func readInputs(cmd *cobra.Command, args []string, markdown bool) ([]source.Document, error) {
	in := cmd.InOrStdin()
	if len(args) == 0 && in == os.Stdin && source.StdinIsTerminal() {
		return nil, fmt.Errorf("no input: pass files, --text, or pipe text on stdin")
	}
	docs, err := source.Collect(args, in, markdown)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return docs, nil
}

func saveAnalyses(ctx context.Context, an *readability.Analyzer, docs []source.Document, label string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	log := logger.ForComponent("analyze")
	for _, doc := range docs {
		a, words := model.NewAnalysis(an, doc.Name, label, doc.Text)
		id, err := st.InsertAnalysis(ctx, a, words)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", doc.Name, err)
		}
		log.Info().Int64("id", id).Str("source", doc.Name).Msg("saved analysis")
	}
	return nil
}

func renderResults(w io.Writer, named []stats.Named, cfg model.AnalyzeConfig) error {
	switch cfg.Format {
	case "json":
		out := make([]jsonResult, len(named))
		for i, n := range named {
			out[i] = jsonResult{Source: n.Name, Stats: n.Stats}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	case "table":
		return stats.RenderTable(w, named)
	}
	for i, n := range named {
		if len(named) > 1 {
			if i > 0 {
				if _, err := fmt.Fprintln(w, ""); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "== %s ==\n", n.Name); err != nil {
				return err
			}
		}
		if err := stats.RenderStats(w, n.Stats, cfg.ExcludeProperNouns); err != nil {
			return err
		}
	}
	return nil
}
