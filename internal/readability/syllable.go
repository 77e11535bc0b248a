package readability

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/verte-zerg/readstat/internal/pattern"
)

var (
	vowelGroup   = pattern.MustCompile(`[aeiouy]+`, pattern.Options{})
	nonASCIIWord = pattern.MustCompile(`[^a-z]+`, pattern.Options{})
)

// Transformers keep state between calls, so each goroutine takes its own.
var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	},
}

// Estimator counts syllables with a vowel-group heuristic adjusted by an
// ordered rule table.
type Estimator struct {
	rules []Rule
}

// NewEstimator returns an estimator that applies rules in order.
func NewEstimator(rules []Rule) *Estimator {
	copied := make([]Rule, len(rules))
	copy(copied, rules)
	return &Estimator{rules: copied}
}

var defaultEstimator = NewEstimator(DefaultRules)

// DefaultEstimator returns the shared estimator built from DefaultRules.
func DefaultEstimator() *Estimator {
	return defaultEstimator
}

// Rules returns a copy of the estimator's rule table.
func (e *Estimator) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Applied records one rule that changed a segment's count.
type Applied struct {
	Kind    RuleKind
	Pattern string
	Delta   int
}

// Segment is one hyphen-separated piece of a word with its base vowel
// groups and the rules that adjusted them.
type Segment struct {
	Text    string
	Base    int
	Applied []Applied
	Count   int
}

// Breakdown explains how a word's syllable count was reached.
type Breakdown struct {
	Word     string
	Segments []Segment
	Total    int
}

// Syllables estimates the syllables in word. Any non-empty word has at
// least one.
func (e *Estimator) Syllables(word string) int {
	if word == "" {
		return 0
	}
	total := 0
	for _, seg := range segments(word) {
		total += e.segmentCount(seg, nil)
	}
	return max(total, 1)
}

// Explain returns the per-segment trace behind Syllables(word).
func (e *Estimator) Explain(word string) Breakdown {
	b := Breakdown{Word: word}
	if word == "" {
		return b
	}
	for _, text := range segments(word) {
		seg := Segment{Text: text, Base: vowelGroup.Count(text)}
		seg.Count = e.segmentCount(text, func(r Rule, delta int) {
			seg.Applied = append(seg.Applied, Applied{Kind: r.Kind, Pattern: r.Pattern.String(), Delta: delta})
		})
		b.Segments = append(b.Segments, seg)
		b.Total += seg.Count
	}
	b.Total = max(b.Total, 1)
	return b
}

func (e *Estimator) segmentCount(seg string, trace func(Rule, int)) int {
	count := vowelGroup.Count(seg)
	for _, r := range e.rules {
		delta := r.Apply(seg)
		if delta == 0 {
			continue
		}
		count += delta
		if trace != nil {
			trace(r, delta)
		}
	}
	return max(count, 1)
}

// segments lower-cases and folds word, splits it on hyphens and keeps only
// a-z in each piece. Pieces left empty are dropped.
func segments(word string) []string {
	folded := fold(strings.ToLower(word))
	var out []string
	for part := range strings.SplitSeq(folded, "-") {
		part, _ = nonASCIIWord.Replace(part, "")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func fold(s string) string {
	t := foldPool.Get().(transform.Transformer)
	defer foldPool.Put(t)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Syllables estimates the syllables in word with the default rules.
func Syllables(word string) int {
	return defaultEstimator.Syllables(word)
}

// TotalSyllables sums the syllables of every word in cleaned text.
func TotalSyllables(cleaned string) int {
	total := 0
	for w := range Words(cleaned) {
		total += defaultEstimator.Syllables(w.Text)
	}
	return total
}

// PolysyllabicWordCount counts words of three or more syllables, skipping
// proper nouns when excludeProperNouns is set.
func PolysyllabicWordCount(cleaned string, excludeProperNouns bool) int {
	n := 0
	for w := range Words(cleaned) {
		if excludeProperNouns && w.ProperNoun {
			continue
		}
		if defaultEstimator.Syllables(w.Text) >= 3 {
			n++
		}
	}
	return n
}
