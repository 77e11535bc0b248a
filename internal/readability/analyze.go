// Package readability computes readability scores for natural-language
// text. Text is cleaned into a canonical form, tokenized into words and
// sentences, syllables are estimated per word and the standard formulas are
// evaluated over the resulting counts.
package readability

import (
	"slices"
	"strings"
)

// Stats is the full statistics record for one text.
type Stats struct {
	Counts

	AvgWordsPerSentence float64 `json:"avg_words_per_sentence"`
	AvgSyllablesPerWord float64 `json:"avg_syllables_per_word"`
	// PolysyllablePercent is the share of words, proper nouns included,
	// with three or more syllables, in percent.
	PolysyllablePercent float64 `json:"polysyllable_percent"`

	// PolysyllablePercentExcludingProperNouns leaves proper nouns out of
	// the numerator; the denominator is still every word.
	PolysyllablePercentExcludingProperNouns float64 `json:"polysyllable_percent_excluding_proper_nouns"`

	FleschReadingEase         float64 `json:"flesch_reading_ease"`
	FleschKincaidGrade        float64 `json:"flesch_kincaid_grade"`
	GunningFog                float64 `json:"gunning_fog"`
	ColemanLiau               float64 `json:"coleman_liau"`
	SMOG                      float64 `json:"smog"`
	AutomatedReadabilityIndex float64 `json:"automated_readability_index"`
}

// Analyzer evaluates text with a specific syllable estimator.
type Analyzer struct {
	est *Estimator
}

// NewAnalyzer returns an analyzer using est, or the default estimator when
// est is nil.
func NewAnalyzer(est *Estimator) *Analyzer {
	if est == nil {
		est = defaultEstimator
	}
	return &Analyzer{est: est}
}

// Analyze cleans text and computes its statistics. It never fails: text
// without words yields zero counts and Sentinel scores.
func (a *Analyzer) Analyze(text string) Stats {
	return Score(a.Count(Clean(text)))
}

// Count tallies cleaned text.
func (a *Analyzer) Count(cleaned string) Counts {
	c := Counts{
		Letters:   LetterCount(cleaned),
		Sentences: SentenceCount(cleaned),
	}
	for w := range Words(cleaned) {
		syl := a.est.Syllables(w.Text)
		c.Words++
		c.Syllables += syl
		if syl >= 3 {
			c.Polysyllables++
			if !w.ProperNoun {
				c.PolysyllablesExcludingProperNouns++
			}
		}
	}
	return c
}

// Score evaluates every formula over c.
func Score(c Counts) Stats {
	s := Stats{
		Counts:                    c,
		FleschReadingEase:         FleschReadingEase(c),
		FleschKincaidGrade:        FleschKincaidGrade(c),
		GunningFog:                GunningFog(c),
		ColemanLiau:               ColemanLiau(c),
		SMOG:                      SMOG(c),
		AutomatedReadabilityIndex: AutomatedReadabilityIndex(c),
	}
	if c.Sentences > 0 {
		s.AvgWordsPerSentence = ratio(c.Words, c.Sentences)
	}
	if c.Words > 0 {
		s.AvgSyllablesPerWord = ratio(c.Syllables, c.Words)
		s.PolysyllablePercent = 100 * ratio(c.Polysyllables, c.Words)
		s.PolysyllablePercentExcludingProperNouns = 100 * ratio(c.PolysyllablesExcludingProperNouns, c.Words)
	}
	return s
}

// PolysyllableShare returns the polysyllabic share in percent, with or
// without proper nouns.
func (s Stats) PolysyllableShare(excludeProperNouns bool) float64 {
	if excludeProperNouns {
		return s.PolysyllablePercentExcludingProperNouns
	}
	return s.PolysyllablePercent
}

// ComplexWord is a polysyllabic word and how often it occurs.
type ComplexWord struct {
	Word      string
	Syllables int
	Count     int
}

// ComplexWords lists the distinct polysyllabic words of text, lower-cased,
// most frequent first and then alphabetically.
func (a *Analyzer) ComplexWords(text string) []ComplexWord {
	index := map[string]int{}
	var out []ComplexWord
	for w := range Words(Clean(text)) {
		syl := a.est.Syllables(w.Text)
		if syl < 3 {
			continue
		}
		key := strings.ToLower(w.Text)
		if i, ok := index[key]; ok {
			out[i].Count++
			continue
		}
		index[key] = len(out)
		out = append(out, ComplexWord{Word: key, Syllables: syl, Count: 1})
	}
	slices.SortFunc(out, func(x, y ComplexWord) int {
		if x.Count != y.Count {
			return y.Count - x.Count
		}
		return strings.Compare(x.Word, y.Word)
	})
	return out
}

var defaultAnalyzer = NewAnalyzer(nil)

// ComplexWords lists polysyllabic words with the default rules.
func ComplexWords(text string) []ComplexWord {
	return defaultAnalyzer.ComplexWords(text)
}

// Analyze computes the statistics of text with the default rules.
func Analyze(text string) Stats {
	return defaultAnalyzer.Analyze(text)
}
