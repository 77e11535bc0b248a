package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/verte-zerg/readstat/internal/config"
	"github.com/verte-zerg/readstat/internal/logger"
	"github.com/verte-zerg/readstat/internal/model"
	"github.com/verte-zerg/readstat/internal/readability"
	"github.com/verte-zerg/readstat/internal/watch"
)

func isolate(t *testing.T) string {
	t.Helper()
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	return configHome
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, configHome, data string) {
	t.Helper()
	path := filepath.Join(configHome, "readstat", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestAnalyzeTextJSON(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "", "--text", "The cat sat on the mat.", "--format", "json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var results []jsonResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(results) != 1 || results[0].Source != "text" {
		t.Fatalf("unexpected results %+v", results)
	}
	if results[0].Stats.Words != 6 || results[0].Stats.Sentences != 1 {
		t.Fatalf("expected 6 words in 1 sentence, got %d in %d", results[0].Stats.Words, results[0].Stats.Sentences)
	}
	if !strings.Contains(out, `"flesch_kincaid_grade"`) {
		t.Fatalf("expected snake_case keys, got %s", out)
	}
}

func TestAnalyzeStdin(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "Cats sleep. Dogs run.")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, want := range []string{"Sentences", "Flesch Reading Ease", "very easy"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestAnalyzeGlobTable(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("Short words win."), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.md"), []byte("# Title\n\nA *small* note."), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Chdir(dir)

	out, err := runCLI(t, "", "*", "--format", "table", "--workers", "2")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, rule and 2 rows, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[2], "a.txt") || !strings.HasPrefix(lines[3], "b.md") {
		t.Fatalf("unexpected rows:\n%s", out)
	}
}

func TestAnalyzePlainPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(path, []byte("Dogs run."), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := runCLI(t, "", path, "--format", "json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var results []jsonResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(results) != 1 || results[0].Source != path {
		t.Fatalf("expected one result for %s, got %+v", path, results)
	}
	if results[0].Stats.Words != 2 || results[0].Stats.Sentences != 1 {
		t.Fatalf("expected 2 words in 1 sentence, got %d in %d", results[0].Stats.Words, results[0].Stats.Sentences)
	}

	t.Chdir(filepath.Dir(path))
	out, err = runCLI(t, "", "a.txt", "--format", "table")
	if err != nil {
		t.Fatalf("analyze relative path: %v", err)
	}
	if !strings.Contains(out, "a.txt") {
		t.Fatalf("expected a.txt row, got:\n%s", out)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	isolate(t)
	cases := map[string][]string{
		"bad format":       {"--text", "Hi.", "--format", "xml"},
		"text with paths":  {"--text", "Hi.", "a.txt"},
		"negative workers": {"--text", "Hi.", "--workers", "-1"},
		"no glob match":    {filepath.Join(t.TempDir(), "*.txt")},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := runCLI(t, "", args...); err == nil {
				t.Fatalf("expected error for %v", args)
			}
		})
	}
}

func TestSaveAndHistory(t *testing.T) {
	isolate(t)
	if _, err := runCLI(t, "", "--text", "Education is important. Education matters.", "--save", "--label", "draft"); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if _, err := runCLI(t, "The dog ran far away.", "--save"); err != nil {
		t.Fatalf("analyze stdin: %v", err)
	}

	out, err := runCLI(t, "", "history", "--plain")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	for _, want := range []string{"text", "draft", "stdin", "Summary", "Analyses: 2", "Grade Trends", "education"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in history:\n%s", want, out)
		}
	}

	out, err = runCLI(t, "", "history", "--plain", "--label", "draft", "--words", "0")
	if err != nil {
		t.Fatalf("history filtered: %v", err)
	}
	if strings.Contains(out, "stdin") || !strings.Contains(out, "Analyses: 1") {
		t.Fatalf("expected only the labeled analysis:\n%s", out)
	}

	if _, err := runCLI(t, "", "history", "--plain", "--since", "yesterday"); err == nil {
		t.Fatalf("expected invalid --since to fail")
	}
}

func TestClean(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "Hello   world!!  Bye", "clean")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if out != "Hello world. Bye.\n" {
		t.Fatalf("unexpected cleaned text %q", out)
	}
}

func TestSyllables(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "", "syllables", "table", "radio")
	if err != nil {
		t.Fatalf("syllables: %v", err)
	}
	if !strings.Contains(out, "table  2") || !strings.Contains(out, "radio  3") || !strings.Contains(out, "hiatus") {
		t.Fatalf("unexpected breakdown:\n%s", out)
	}

	out, err = runCLI(t, "cat\n\nbanana\n", "syllables")
	if err != nil {
		t.Fatalf("syllables stdin: %v", err)
	}
	if !strings.Contains(out, "cat  1") || !strings.Contains(out, "banana  3") {
		t.Fatalf("unexpected stdin breakdown:\n%s", out)
	}

	if _, err := runCLI(t, "", "syllables"); err == nil {
		t.Fatalf("expected error without words")
	}
}

func TestCalibrate(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "ref.tsv")
	if err := os.WriteFile(path, []byte("# reference\ntable\t2\nthe\t2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := runCLI(t, "", "calibrate", path)
	if err != nil {
		t.Fatalf("calibrate: %v", err)
	}
	if !strings.Contains(out, "Matched: 1 (50.0%)") || !strings.Contains(out, "the") {
		t.Fatalf("unexpected calibration:\n%s", out)
	}

	if _, err := runCLI(t, "", "calibrate"); err == nil {
		t.Fatalf("expected error when the default list is missing")
	}
}

func TestSampleIsDeterministic(t *testing.T) {
	isolate(t)
	first, err := runCLI(t, "", "sample", "--seed", "7", "--sentences", "3")
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	second, err := runCLI(t, "", "sample", "--seed", "7", "--sentences", "3")
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if first == "" || first != second {
		t.Fatalf("expected equal output for equal seeds, got %q and %q", first, second)
	}
	if got := readability.Analyze(first).Sentences; got != 3 {
		t.Fatalf("expected 3 sentences, got %d", got)
	}

	out, err := runCLI(t, "", "sample", "--seed", "7", "--analyze")
	if err != nil || !strings.Contains(out, "Flesch Reading Ease") {
		t.Fatalf("expected stats after sample, got %q (%v)", out, err)
	}

	if _, err := runCLI(t, "", "sample", "--min-words", "5", "--max-words", "2"); err == nil {
		t.Fatalf("expected error for inverted word range")
	}
}

func TestConfigFileDefaults(t *testing.T) {
	configHome := isolate(t)
	writeConfig(t, configHome, "[analyze]\nformat = \"json\"\n")
	out, err := runCLI(t, "", "--text", "Hi there.")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.HasPrefix(out, "[") {
		t.Fatalf("expected JSON from config default, got %q", out)
	}

	out, err = runCLI(t, "", "--text", "Hi there.", "--format", "table")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.HasPrefix(out, "Source") {
		t.Fatalf("expected flag to override config, got %q", out)
	}
}

func TestConfigUnknownKey(t *testing.T) {
	configHome := isolate(t)
	writeConfig(t, configHome, "[analyze]\nbogus = 1\n")
	if _, err := runCLI(t, "", "--text", "Hi."); err == nil {
		t.Fatalf("expected unknown config key to fail")
	}
}

func TestDefaultConfigTemplateParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg.Analyze.Format != nil || cfg.Watch.Debounce != nil {
		t.Fatalf("expected every template value to be commented out")
	}
}

func TestWatchValidation(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(file, []byte("Hi."), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cases := map[string][]string{
		"bad debounce":  {"watch", file, "--debounce", "soon"},
		"zero debounce": {"watch", file, "--debounce", "0s"},
		"zero batch":    {"watch", file, "--max-batch", "0"},
		"stdin":         {"watch", "-"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := runCLI(t, "", args...); err == nil {
				t.Fatalf("expected error for %v", args)
			}
		})
	}
	if err := validateWatchConfig(model.WatchConfig{Debounce: time.Second, MaxBatch: 1}); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestFormatChange(t *testing.T) {
	at := time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)
	s := readability.Stats{Counts: readability.Counts{Words: 12}, FleschReadingEase: 70, FleschKincaidGrade: 6.5, GunningFog: 8}
	line := formatChange(at, "a.txt", s, readability.Stats{}, false)
	if line != "3:04PM  a.txt  words=12  ease=70.0  grade=6.5  fog=8.0" {
		t.Fatalf("unexpected line %q", line)
	}
	prev := readability.Stats{FleschKincaidGrade: 7}
	if line := formatChange(at, "a.txt", s, prev, true); !strings.HasSuffix(line, "(grade -0.5)") {
		t.Fatalf("expected grade delta, got %q", line)
	}
}

func TestWatchInitialPassCoversDirectory(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	var logs bytes.Buffer
	logger.Init(logger.Config{Level: zerolog.WarnLevel, JSON: true, Output: &logs})

	dir := t.TempDir()
	for name, text := range map[string]string{
		"a.txt":      "Cats sleep.",
		"b.md":       "# Notes\n\nDogs run fast.",
		".a.txt.swp": "swap",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	w, err := watch.New([]string{dir}, time.Second, 1, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	var out bytes.Buffer
	r := newReanalyzer(&out, nil, "", false)
	r.analyze(context.Background(), w.Targets())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected one line per file, got:\n%s", out.String())
	}
	if !strings.Contains(lines[0], "a.txt  words=2") || !strings.Contains(lines[1], "b.md  words=4") {
		t.Fatalf("unexpected lines:\n%s", out.String())
	}
	if logs.Len() != 0 {
		t.Fatalf("expected no warnings, got %s", logs.String())
	}
}
