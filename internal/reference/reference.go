// Package reference loads word lists and syllable reference lists and
// measures the estimator against them.
package reference

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/verte-zerg/readstat/internal/readability"
)

// ErrEmpty is returned when a list holds no entries.
var ErrEmpty = errors.New("list is empty")

// Entry is one word with its known syllable count.
type Entry struct {
	Word      string
	Syllables int
	Line      int
}

// Load reads a reference list from path. See Parse for the format.
func Load(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only reference list.
			_ = cerr
		}
	}()
	entries, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Parse reads "word<TAB>count" lines. Blank lines and lines starting with
// '#' are skipped. Any run of whitespace may separate the two fields.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected word and syllable count, got %q", lineNo, line)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("line %d: invalid syllable count %q", lineNo, fields[1])
		}
		entries = append(entries, Entry{Word: fields[0], Syllables: n, Line: lineNo})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEmpty
	}
	return entries, nil
}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Reference lists carry a count column; keep only the word.
		word, _, _ := strings.Cut(line, "\t")
		if isWord(word) {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return words, nil
}

func isWord(s string) bool {
	return s != "" && readability.WordCount(s) == 1 && !strings.ContainsAny(s, " .")
}

// Mismatch is a word the estimator got wrong.
type Mismatch struct {
	Word     string
	Expected int
	Got      int
	Line     int
}

// Result summarizes a calibration run.
type Result struct {
	Total   int
	Matched int
	// Accuracy is Matched/Total in [0, 1].
	Accuracy float64
	// MeanAbsError is the mean of |expected - got| over every entry.
	MeanAbsError float64
	Over         int
	Under        int
	Mismatches   []Mismatch
}

// Calibrate runs est over entries and compares against the known counts.
func Calibrate(est *readability.Estimator, entries []Entry) Result {
	if est == nil {
		est = readability.DefaultEstimator()
	}
	res := Result{Total: len(entries)}
	if len(entries) == 0 {
		return res
	}
	absErr := 0
	for _, e := range entries {
		got := est.Syllables(e.Word)
		diff := got - e.Syllables
		switch {
		case diff == 0:
			res.Matched++
			continue
		case diff > 0:
			res.Over++
			absErr += diff
		default:
			res.Under++
			absErr -= diff
		}
		res.Mismatches = append(res.Mismatches, Mismatch{Word: e.Word, Expected: e.Syllables, Got: got, Line: e.Line})
	}
	res.Accuracy = float64(res.Matched) / float64(res.Total)
	res.MeanAbsError = float64(absErr) / float64(res.Total)
	return res
}
