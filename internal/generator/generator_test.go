package generator

import (
	"strings"
	"testing"
	"unicode"
)

func TestSeededOutputIsReproducible(t *testing.T) {
	opts := DefaultOptions()
	a := New(42).Text(DefaultWords, opts)
	b := New(42).Text(DefaultWords, opts)
	if a != b {
		t.Fatalf("expected identical text for the same seed")
	}
	if a == "" {
		t.Fatalf("expected non-empty text")
	}
}

func TestSentenceShape(t *testing.T) {
	opts := Options{Sentences: 3, MinWords: 4, MaxWords: 4, Terminators: []rune{'!'}}
	sentences := New(7).Sentences([]string{"cat", "dog"}, opts)
	if len(sentences) != 3 {
		t.Fatalf("expected 3 sentences, got %d", len(sentences))
	}
	for _, s := range sentences {
		if got := len(strings.Fields(s)); got != 4 {
			t.Fatalf("expected 4 words in %q, got %d", s, got)
		}
		if !strings.HasSuffix(s, "!") {
			t.Fatalf("expected terminator in %q", s)
		}
		if !unicode.IsUpper([]rune(s)[0]) {
			t.Fatalf("expected capitalized first word in %q", s)
		}
	}
}

func TestSentenceExactLength(t *testing.T) {
	s := New(1).Sentence([]string{"banana"}, 5, Options{})
	if s != "Banana banana banana banana banana." {
		t.Fatalf("unexpected sentence: %q", s)
	}
}

func TestWeightSelectsOnlyPositive(t *testing.T) {
	opts := Options{
		Sentences: 10,
		MinWords:  5,
		MaxWords:  5,
		Weight: func(word string) float64 {
			if word == "heavy" {
				return 1
			}
			return 0
		},
	}
	text := New(3).Text([]string{"light", "heavy"}, opts)
	if strings.Contains(strings.ToLower(text), "light") {
		t.Fatalf("expected only weighted words, got %q", text)
	}
}

func TestEmptyInputs(t *testing.T) {
	g := New(1)
	if got := g.Text(nil, DefaultOptions()); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
	if got := g.Sentence([]string{"a"}, 0, Options{}); got != "" {
		t.Fatalf("expected empty sentence, got %q", got)
	}
}

func TestCapsAlways(t *testing.T) {
	s := New(5).Sentence([]string{"word"}, 3, Options{CapsPct: 1})
	if s != "Word Word Word." {
		t.Fatalf("unexpected sentence: %q", s)
	}
}
