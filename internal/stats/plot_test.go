package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, 12, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes for a buffer")
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 1+4+1 {
		t.Fatalf("expected title, 4 rows and legend, got %d lines", len(lines))
	}
	if lines[0] != "Test Plot" {
		t.Fatalf("expected title first, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "   4.0 │ ") {
		t.Fatalf("expected shared max label, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[4], "   1.0 │ ") {
		t.Fatalf("expected shared min label, got %q", lines[4])
	}
	if !strings.Contains(lines[5], "A") || !strings.Contains(lines[5], "B") {
		t.Fatalf("expected legend with both series, got %q", lines[5])
	}
	for _, row := range lines[1:5] {
		cells := []rune(strings.SplitN(row, "│ ", 2)[1])
		if len(cells) != 12 {
			t.Fatalf("expected 12 plot cells, got %d", len(cells))
		}
	}
}

func TestPlotSeriesSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Empty", []Series{{Name: "A"}}, 10, 3); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotSeriesNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	if err := PlotSeriesWithColor(&buf, "", []Series{{Name: "A", Values: []float64{1, 2}}}, 10, 2, true); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected NO_COLOR to win over forced color")
	}
}

func TestPlotWidthFor(t *testing.T) {
	axisWidth := axisLabelWidth + runewidth.StringWidth(axisSeparator)
	if got := PlotWidthFor(80); got != 80-axisWidth {
		t.Fatalf("expected width %d, got %d", 80-axisWidth, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
	if got := PlotWidthFor(12); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestResample(t *testing.T) {
	if got := resample([]float64{1, 3}, 3); got[1] != 2 {
		t.Fatalf("expected interpolation, got %v", got)
	}
	if got := resample([]float64{1, 3, 5, 7}, 2); got[0] != 2 || got[1] != 6 {
		t.Fatalf("expected bucket averages, got %v", got)
	}
	if got := resample([]float64{4}, 3); got[2] != 4 {
		t.Fatalf("expected repeated value, got %v", got)
	}
}
