package readability

import (
	"iter"
	"unicode"
	"unicode/utf8"

	"github.com/verte-zerg/readstat/internal/pattern"
)

var (
	wordPattern     = pattern.MustCompile(`[\p{L}\p{N}]+(?:['\-]+[\p{L}\p{N}]+)*`, pattern.Options{})
	sentencePattern = pattern.MustCompile(`[\p{L}\p{N}][^.]*\.`, pattern.Options{})
)

// Word is one token of cleaned text.
type Word struct {
	Text string
	// ProperNoun is set when the word starts with an upper-case letter.
	ProperNoun bool
}

// LetterCount counts the letters in cleaned text. Digits, apostrophes and
// hyphens are not letters.
func LetterCount(cleaned string) int {
	n := 0
	for _, r := range cleaned {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

// WordCount counts runs of letters and digits; internal apostrophes and
// hyphens do not split a word.
func WordCount(cleaned string) int {
	return wordPattern.Count(cleaned)
}

// SentenceCount counts terminators that close at least one word. Text with
// words but no terminator is one sentence.
func SentenceCount(cleaned string) int {
	n := sentencePattern.Count(cleaned)
	if n == 0 && WordCount(cleaned) > 0 {
		return 1
	}
	return n
}

// Words yields the words of cleaned text from left to right. The sequence
// is computed on each iteration, so it can be ranged over more than once.
func Words(cleaned string) iter.Seq[Word] {
	return func(yield func(Word) bool) {
		for _, text := range wordPattern.FindAll(cleaned) {
			if !yield(Word{Text: text, ProperNoun: startsUpper(text)}) {
				return
			}
		}
	}
}

func startsUpper(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}
