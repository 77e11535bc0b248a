package readability

import (
	"slices"
	"testing"
)

func TestCounts(t *testing.T) {
	cases := []struct {
		in        string
		letters   int
		words     int
		sentences int
	}{
		{in: "", letters: 0, words: 0, sentences: 0},
		{in: "Cats sleep.", letters: 9, words: 2, sentences: 1},
		{in: "don't well-known 42.", letters: 13, words: 3, sentences: 1},
		{in: "Wait. what.", letters: 8, words: 2, sentences: 2},
		{in: "no terminator here", letters: 16, words: 3, sentences: 1},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := LetterCount(tc.in); got != tc.letters {
				t.Fatalf("expected %d letters, got %d", tc.letters, got)
			}
			if got := WordCount(tc.in); got != tc.words {
				t.Fatalf("expected %d words, got %d", tc.words, got)
			}
			if got := SentenceCount(tc.in); got != tc.sentences {
				t.Fatalf("expected %d sentences, got %d", tc.sentences, got)
			}
		})
	}
}

func TestSentenceCountIgnoresEmptyTerminators(t *testing.T) {
	if got := SentenceCount("a.. b."); got != 2 {
		t.Fatalf("expected 2 sentences, got %d", got)
	}
}

func TestWords(t *testing.T) {
	seq := Words("Alice met bob. Then Paris.")
	got := slices.Collect(seq)
	want := []Word{
		{Text: "Alice", ProperNoun: true},
		{Text: "met"},
		{Text: "bob"},
		{Text: "Then", ProperNoun: true},
		{Text: "Paris", ProperNoun: true},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if again := slices.Collect(seq); !slices.Equal(again, got) {
		t.Fatalf("expected restartable sequence, got %v", again)
	}
}

func TestWordsStopsEarly(t *testing.T) {
	n := 0
	for range Words("one two three four.") {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("expected to stop after 2 words, got %d", n)
	}
}

func TestWordsMatchesWordCount(t *testing.T) {
	cleaned := Clean("It's a well-known fact, isn't it? Yes - 100 percent.")
	n := 0
	for range Words(cleaned) {
		n++
	}
	if n != WordCount(cleaned) {
		t.Fatalf("expected %d words from the sequence, got %d", WordCount(cleaned), n)
	}
}
