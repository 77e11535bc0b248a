package readability

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/verte-zerg/readstat/internal/pattern"
)

// terminatorMark stands in for a sentence terminator while the rest of the
// punctuation is stripped. It is a private-use rune; occurrences in the
// input are dropped before marking.
const terminatorMark = "\uE000"

var (
	typographicApostrophe = pattern.MustCompile(`[\x{2018}\x{2019}\x{02BC}]`, pattern.Options{})
	privateMark           = pattern.MustCompile(`\x{E000}`, pattern.Options{})
	whitespaceRun         = pattern.MustCompile(`[\s\v\p{Z}\x{0085}]+`, pattern.Options{})
	terminatorRun         = pattern.MustCompile(`[.!?]+["'\x{201C}\x{201D}\x{00BB})\]]*(?: |$)`, pattern.Options{})
	separatorPunct        = pattern.MustCompile(`[,;:/\\()\[\]{}<>|&+=*~"\x{201C}\x{201D}\x{00AB}\x{00BB}\x{2013}\x{2014}\x{2026}]`, pattern.Options{})
	nonWordChar           = pattern.MustCompile(`[^\p{L}\p{N}' \-\x{E000}]`, pattern.Options{})
	leadingJoiner         = pattern.MustCompile(`(^|[ \x{E000}])['\-]+`, pattern.Options{})
	trailingJoiner        = pattern.MustCompile(`['\-]+([ \x{E000}]|$)`, pattern.Options{})
	spaceRun              = pattern.MustCompile(` {2,}`, pattern.Options{})
	terminatorSpacing     = pattern.MustCompile(` *\x{E000}[ \x{E000}]*`, pattern.Options{})
	leadingNoise          = pattern.MustCompile(`^[ \x{E000}]+`, pattern.Options{})
)

// Clean normalizes raw text into the canonical form the counters work on:
// words of letters and digits (with internal apostrophes and hyphens)
// separated by single spaces, and every sentence closed by a single '.'.
// It returns "" when the text has no word characters. Clean is idempotent.
func Clean(text string) string {
	s := norm.NFKC.String(text)
	s, _ = privateMark.Replace(s, "")
	s, _ = typographicApostrophe.Replace(s, "'")
	s, _ = whitespaceRun.Replace(s, " ")

	s, _ = terminatorRun.Replace(s, terminatorMark+" ")

	s, _ = separatorPunct.Replace(s, " ")
	s, _ = nonWordChar.Replace(s, "")
	s, _ = leadingJoiner.Replace(s, "$1")
	s, _ = trailingJoiner.Replace(s, "$1")

	s, _ = spaceRun.Replace(s, " ")
	s, _ = terminatorSpacing.Replace(s, terminatorMark+" ")
	s, _ = leadingNoise.Replace(s, "")
	s = strings.TrimRight(s, " ")
	// Stripping can bring composable runes together (Hangul jamo).
	s = norm.NFKC.String(s)

	if !strings.ContainsFunc(s, isWordRune) {
		return ""
	}
	if !strings.HasSuffix(s, terminatorMark) {
		s += terminatorMark
	}
	return strings.ReplaceAll(s, terminatorMark, ".")
}

// CleanText is Clean under the name used by the text statistics API.
func CleanText(text string) string {
	return Clean(text)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
