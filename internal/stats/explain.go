package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/readstat/internal/readability"
	"github.com/verte-zerg/readstat/internal/reference"
)

// RenderBreakdown prints how a word's syllable count was reached: the
// vowel groups of each segment and every rule that changed them.
func RenderBreakdown(w io.Writer, b readability.Breakdown) error {
	if _, err := fmt.Fprintf(w, "%s  %d\n", b.Word, b.Total); err != nil {
		return err
	}
	for _, seg := range b.Segments {
		if _, err := fmt.Fprintf(w, "  %s  vowel groups %d -> %d\n", seg.Text, seg.Base, seg.Count); err != nil {
			return err
		}
		rows := make([][]string, 0, len(seg.Applied))
		for _, a := range seg.Applied {
			rows = append(rows, []string{"   ", a.Kind.String(), fmt.Sprintf("%+d", a.Delta), a.Pattern})
		}
		if err := writeLines(w, formatTable(nil, rows, map[int]bool{2: true})); err != nil {
			return err
		}
	}
	return nil
}

// RenderCalibration prints accuracy figures and up to limit mismatches.
// limit <= 0 prints every mismatch.
func RenderCalibration(w io.Writer, res reference.Result, limit int) error {
	lines := []string{
		fmt.Sprintf("Entries: %d", res.Total),
		fmt.Sprintf("Matched: %d (%.1f%%)", res.Matched, res.Accuracy*100),
		fmt.Sprintf("Over-estimated: %d", res.Over),
		fmt.Sprintf("Under-estimated: %d", res.Under),
		fmt.Sprintf("Mean abs error: %.3f", res.MeanAbsError),
	}
	if err := writeLines(w, lines); err != nil {
		return err
	}
	if len(res.Mismatches) == 0 {
		return nil
	}
	shown := res.Mismatches
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	rows := make([][]string, 0, len(shown))
	for _, m := range shown {
		rows = append(rows, []string{
			fmt.Sprintf("%d", m.Line),
			m.Word,
			fmt.Sprintf("%d", m.Expected),
			fmt.Sprintf("%d", m.Got),
		})
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if err := writeLines(w, formatTable([]string{"Line", "Word", "Expected", "Got"}, rows, map[int]bool{0: true, 2: true, 3: true})); err != nil {
		return err
	}
	if hidden := len(res.Mismatches) - len(shown); hidden > 0 {
		_, err := fmt.Fprintf(w, "... %d more\n", hidden)
		return err
	}
	return nil
}
