// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/readstat/internal/readability"
)

// AnalyzeConfig defines analyze command settings.
type AnalyzeConfig struct {
	Format             string
	Markdown           bool
	Save               bool
	Label              string
	ExcludeProperNouns bool
	Workers            int
}

// HistoryFilter defines filters and options for history output.
type HistoryFilter struct {
	// Source matches analyses whose source contains it.
	Source string
	Label  string
	Since  *time.Time
	Last   int
	// Window is the moving-average width for trend lines.
	Window int
}

// WatchConfig defines watch command settings.
type WatchConfig struct {
	Debounce time.Duration
	MaxBatch int
	Save     bool
	Markdown bool
}

// Analysis is one recorded readability analysis.
type Analysis struct {
	ID        int64
	CreatedAt time.Time
	Source    string
	Label     string
	// Hash is the hex sha256 of the analyzed text.
	Hash  string
	Stats readability.Stats
}

// WordStat records how often a polysyllabic word appeared in one analysis.
type WordStat struct {
	Word      string
	Syllables int
	Count     int
}

// WordAggregate sums word stats across analyses.
type WordAggregate struct {
	Word      string
	Syllables int
	Count     int
	Analyses  int
}
