// Package stats renders readability results and history reports.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/readstat/internal/model"
	"github.com/verte-zerg/readstat/internal/readability"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[min(max(idx, 0), len(sparkChars)-1)])
	}
	return b.String()
}

// EaseBand describes a Flesch Reading Ease score.
func EaseBand(ease float64) string {
	switch {
	case ease >= 90:
		return "very easy"
	case ease >= 80:
		return "easy"
	case ease >= 70:
		return "fairly easy"
	case ease >= 60:
		return "standard"
	case ease >= 50:
		return "fairly difficult"
	case ease >= 30:
		return "difficult"
	default:
		return "very confusing"
	}
}

// GradeBand names the school level a grade score corresponds to.
func GradeBand(grade float64) string {
	switch {
	case grade < 6:
		return "elementary"
	case grade < 9:
		return "middle school"
	case grade < 13:
		return "high school"
	case grade < 17:
		return "college"
	default:
		return "graduate"
	}
}

// Named pairs a result with the source it came from.
type Named struct {
	Name  string
	Stats readability.Stats
}

// RenderStats prints the full report for one text. With
// excludeProperNouns the polysyllable line counts common words only.
func RenderStats(w io.Writer, s readability.Stats, excludeProperNouns bool) error {
	poly := s.Polysyllables
	polyLabel := "Polysyllabic words"
	if excludeProperNouns {
		poly = s.PolysyllablesExcludingProperNouns
		polyLabel = "Polysyllabic words (no proper nouns)"
	}
	counts := [][]string{
		{"Letters", fmt.Sprintf("%d", s.Letters)},
		{"Words", fmt.Sprintf("%d", s.Words)},
		{"Sentences", fmt.Sprintf("%d", s.Sentences)},
		{"Syllables", fmt.Sprintf("%d", s.Syllables)},
		{polyLabel, fmt.Sprintf("%d", poly)},
		{"Words per sentence", fmt.Sprintf("%.2f", s.AvgWordsPerSentence)},
		{"Syllables per word", fmt.Sprintf("%.2f", s.AvgSyllablesPerWord)},
		{"Polysyllable share", fmt.Sprintf("%.1f%%", s.PolysyllableShare(excludeProperNouns))},
	}
	scores := [][]string{
		{"Flesch Reading Ease", fmt.Sprintf("%.2f", s.FleschReadingEase), EaseBand(s.FleschReadingEase)},
		{"Flesch-Kincaid Grade", fmt.Sprintf("%.2f", s.FleschKincaidGrade), GradeBand(s.FleschKincaidGrade)},
		{"Gunning Fog", fmt.Sprintf("%.2f", s.GunningFog), GradeBand(s.GunningFog)},
		{"Coleman-Liau", fmt.Sprintf("%.2f", s.ColemanLiau), GradeBand(s.ColemanLiau)},
		{"SMOG", fmt.Sprintf("%.2f", s.SMOG), GradeBand(s.SMOG)},
		{"Automated Readability", fmt.Sprintf("%.2f", s.AutomatedReadabilityIndex), GradeBand(s.AutomatedReadabilityIndex)},
	}
	if s.Words == 0 {
		for i := range scores {
			scores[i][2] = "n/a"
		}
	}
	if err := writeLines(w, formatTable(nil, counts, map[int]bool{1: true})); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return writeLines(w, formatTable([]string{"Score", "Value", "Band"}, scores, map[int]bool{1: true}))
}

// RenderTable prints one row per result.
func RenderTable(w io.Writer, results []Named) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	headers := []string{"Source", "Words", "Sent", "Syl", "Ease", "FK", "Fog", "CLI", "SMOG", "ARI"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, append([]string{truncate(r.Name, 40)}, scoreCells(r.Stats)...))
	}
	return writeLines(w, formatTable(headers, rows, rightAligned(1, len(headers))))
}

func scoreCells(s readability.Stats) []string {
	return []string{
		fmt.Sprintf("%d", s.Words),
		fmt.Sprintf("%d", s.Sentences),
		fmt.Sprintf("%d", s.Syllables),
		fmt.Sprintf("%.1f", s.FleschReadingEase),
		fmt.Sprintf("%.1f", s.FleschKincaidGrade),
		fmt.Sprintf("%.1f", s.GunningFog),
		fmt.Sprintf("%.1f", s.ColemanLiau),
		fmt.Sprintf("%.1f", s.SMOG),
		fmt.Sprintf("%.1f", s.AutomatedReadabilityIndex),
	}
}

// RenderHistory prints one row per recorded analysis.
func RenderHistory(w io.Writer, analyses []model.Analysis) error {
	if len(analyses) == 0 {
		_, err := fmt.Fprintln(w, "No analyses found.")
		return err
	}
	headers := []string{"ID", "Date", "Source", "Label", "Words", "Sent", "Syl", "Ease", "FK", "Fog", "CLI", "SMOG", "ARI"}
	rows := make([][]string, 0, len(analyses))
	for _, a := range analyses {
		row := []string{
			fmt.Sprintf("%d", a.ID),
			a.CreatedAt.Local().Format("2006-01-02 15:04"),
			truncate(a.Source, 32),
			truncate(a.Label, 16),
		}
		rows = append(rows, append(row, scoreCells(a.Stats)...))
	}
	right := rightAligned(4, len(headers))
	right[0] = true
	return writeLines(w, formatTable(headers, rows, right))
}

// Summary aggregates a set of analyses.
type Summary struct {
	Count     int
	Words     int
	AvgEase   float64
	AvgGrade  float64
	AvgFog    float64
	AvgSMOG   float64
	Easiest   model.Analysis
	Hardest   model.Analysis
	GradeBand string
}

// Summarize averages scores across analyses. Easiest and hardest are by
// Flesch-Kincaid grade.
func Summarize(analyses []model.Analysis) Summary {
	var sum Summary
	if len(analyses) == 0 {
		return sum
	}
	sum.Count = len(analyses)
	sum.Easiest, sum.Hardest = analyses[0], analyses[0]
	for _, a := range analyses {
		sum.Words += a.Stats.Words
		sum.AvgEase += a.Stats.FleschReadingEase
		sum.AvgGrade += a.Stats.FleschKincaidGrade
		sum.AvgFog += a.Stats.GunningFog
		sum.AvgSMOG += a.Stats.SMOG
		if a.Stats.FleschKincaidGrade < sum.Easiest.Stats.FleschKincaidGrade {
			sum.Easiest = a
		}
		if a.Stats.FleschKincaidGrade > sum.Hardest.Stats.FleschKincaidGrade {
			sum.Hardest = a
		}
	}
	n := float64(sum.Count)
	sum.AvgEase /= n
	sum.AvgGrade /= n
	sum.AvgFog /= n
	sum.AvgSMOG /= n
	sum.GradeBand = GradeBand(sum.AvgGrade)
	return sum
}

// RenderSummary prints averages and the easiest and hardest analyses.
func RenderSummary(w io.Writer, analyses []model.Analysis) error {
	if len(analyses) == 0 {
		_, err := fmt.Fprintln(w, "No analyses found.")
		return err
	}
	sum := Summarize(analyses)
	lines := []string{
		"Summary",
		fmt.Sprintf("Analyses: %d", sum.Count),
		fmt.Sprintf("Words: %d", sum.Words),
		fmt.Sprintf("Avg Reading Ease: %.2f (%s)", sum.AvgEase, EaseBand(sum.AvgEase)),
		fmt.Sprintf("Avg FK Grade: %.2f (%s)", sum.AvgGrade, sum.GradeBand),
		fmt.Sprintf("Avg Fog: %.2f", sum.AvgFog),
		fmt.Sprintf("Avg SMOG: %.2f", sum.AvgSMOG),
		fmt.Sprintf("Easiest: #%d %s (grade %.2f)", sum.Easiest.ID, sum.Easiest.Source, sum.Easiest.Stats.FleschKincaidGrade),
		fmt.Sprintf("Hardest: #%d %s (grade %.2f)", sum.Hardest.ID, sum.Hardest.Source, sum.Hardest.Stats.FleschKincaidGrade),
		"",
	}
	return writeLines(w, lines)
}

// GradeSeries returns the grade-level scores of analyses as plot series,
// smoothed over window.
func GradeSeries(analyses []model.Analysis, window int) []Series {
	fk := make([]float64, len(analyses))
	fog := make([]float64, len(analyses))
	smog := make([]float64, len(analyses))
	ari := make([]float64, len(analyses))
	for i, a := range analyses {
		fk[i] = a.Stats.FleschKincaidGrade
		fog[i] = a.Stats.GunningFog
		smog[i] = a.Stats.SMOG
		ari[i] = a.Stats.AutomatedReadabilityIndex
	}
	return []Series{
		{Name: "FK Grade", Values: MovingAverage(fk, window)},
		{Name: "Fog", Values: MovingAverage(fog, window)},
		{Name: "SMOG", Values: MovingAverage(smog, window)},
		{Name: "ARI", Values: MovingAverage(ari, window)},
	}
}

// RenderTrends plots grade-level trends sized to totalWidth.
func RenderTrends(w io.Writer, analyses []model.Analysis, window, totalWidth, height int, useColor bool) error {
	if len(analyses) == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Grade Trends", GradeSeries(analyses, window), width, height, useColor)
}

// RenderSparklines prints one sparkline per score.
func RenderSparklines(w io.Writer, analyses []model.Analysis) error {
	if len(analyses) == 0 {
		return nil
	}
	ease := make([]float64, len(analyses))
	for i, a := range analyses {
		ease[i] = a.Stats.FleschReadingEase
	}
	lines := []string{fmt.Sprintf("%-9s %s", "Ease", Sparkline(ease))}
	for _, s := range GradeSeries(analyses, 1) {
		lines = append(lines, fmt.Sprintf("%-9s %s", s.Name, Sparkline(s.Values)))
	}
	return writeLines(w, append(lines, ""))
}

// RenderWords prints the most frequent polysyllabic words.
func RenderWords(w io.Writer, aggs []model.WordAggregate, n int) error {
	top := TopWords(aggs, n)
	if len(top) == 0 {
		_, err := fmt.Fprintln(w, "No complex words recorded.")
		return err
	}
	rows := make([][]string, 0, len(top))
	for _, agg := range top {
		rows = append(rows, []string{
			agg.Word,
			fmt.Sprintf("%d", agg.Syllables),
			fmt.Sprintf("%d", agg.Count),
			fmt.Sprintf("%d", agg.Analyses),
		})
	}
	if _, err := fmt.Fprintln(w, "Complex Words"); err != nil {
		return err
	}
	return writeLines(w, formatTable([]string{"Word", "Syllables", "Count", "Analyses"}, rows, rightAligned(1, 4)))
}

func rightAligned(from, to int) map[int]bool {
	out := map[int]bool{}
	for i := from; i < to; i++ {
		out[i] = true
	}
	return out
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
