// Package generator builds sample prose from a word list.
package generator

import (
	"math/rand"
	"strings"
	"time"
	"unicode"
)

// Options shapes the generated text.
type Options struct {
	Sentences int
	MinWords  int
	MaxWords  int
	// CapsPct is the chance that a word after the first is capitalized.
	CapsPct float64
	// CommaPct is the chance that a word inside a sentence is followed by
	// a comma.
	CommaPct float64
	// Terminators closes sentences; '.' when empty.
	Terminators []rune
	// Weight biases word choice; uniform when nil.
	Weight func(word string) float64
}

// DefaultOptions returns five sentences of eight to fourteen words.
func DefaultOptions() Options {
	return Options{
		Sentences:   5,
		MinWords:    8,
		MaxWords:    14,
		CapsPct:     0.05,
		CommaPct:    0.08,
		Terminators: []rune{'.', '.', '.', '?', '!'},
	}
}

// Generator produces randomized sentences.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator for seed. A zero seed uses the current time.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Text returns opts.Sentences sentences separated by single spaces.
func (g *Generator) Text(words []string, opts Options) string {
	sentences := g.Sentences(words, opts)
	return strings.Join(sentences, " ")
}

// Sentences returns each generated sentence separately.
func (g *Generator) Sentences(words []string, opts Options) []string {
	if len(words) == 0 || opts.Sentences <= 0 {
		return nil
	}
	picker := g.picker(words, opts.Weight)
	out := make([]string, 0, opts.Sentences)
	for i := 0; i < opts.Sentences; i++ {
		out = append(out, g.sentence(picker, g.length(opts), opts))
	}
	return out
}

// Sentence builds one sentence of exactly n words.
func (g *Generator) Sentence(words []string, n int, opts Options) string {
	if len(words) == 0 || n <= 0 {
		return ""
	}
	return g.sentence(g.picker(words, opts.Weight), n, opts)
}

func (g *Generator) length(opts Options) int {
	lo, hi := opts.MinWords, opts.MaxWords
	if lo <= 0 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	return lo + g.rnd.Intn(hi-lo+1)
}

func (g *Generator) sentence(pick func() string, n int, opts Options) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		word := pick()
		if i == 0 {
			word = capitalize(word)
		} else {
			b.WriteByte(' ')
			word = applyCaps(g.rnd, word, opts.CapsPct)
		}
		b.WriteString(word)
		if i < n-1 && opts.CommaPct > 0 && g.rnd.Float64() < opts.CommaPct {
			b.WriteByte(',')
		}
	}
	b.WriteRune(g.terminator(opts.Terminators))
	return b.String()
}

func (g *Generator) terminator(set []rune) rune {
	if len(set) == 0 {
		return '.'
	}
	return set[g.rnd.Intn(len(set))]
}

// picker selects words uniformly, or proportionally to weight.
func (g *Generator) picker(words []string, weight func(string) float64) func() string {
	if weight == nil {
		return func() string { return words[g.rnd.Intn(len(words))] }
	}
	weights := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		w := weight(word)
		if w < 0 {
			w = 0
		}
		weights[i] = w
		total += w
	}
	if total == 0 {
		return func() string { return words[g.rnd.Intn(len(words))] }
	}
	return func() string {
		r := g.rnd.Float64() * total
		acc := 0.0
		for j, w := range weights {
			acc += w
			if r < acc {
				return words[j]
			}
		}
		return words[len(words)-1]
	}
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 || rnd.Float64() > capsPct {
		return word
	}
	return capitalize(word)
}

func capitalize(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
