package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/verte-zerg/readstat/internal/readability"
)

// NewAnalysis scores text and returns a record ready to be stored along
// with its polysyllabic word counts.
func NewAnalysis(an *readability.Analyzer, source, label, text string) (Analysis, []WordStat) {
	if an == nil {
		an = readability.NewAnalyzer(nil)
	}
	sum := sha256.Sum256([]byte(text))
	a := Analysis{
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Label:     label,
		Hash:      hex.EncodeToString(sum[:]),
		Stats:     an.Analyze(text),
	}
	cws := an.ComplexWords(text)
	words := make([]WordStat, len(cws))
	for i, cw := range cws {
		words[i] = WordStat{Word: cw.Word, Syllables: cw.Syllables, Count: cw.Count}
	}
	return a, words
}
