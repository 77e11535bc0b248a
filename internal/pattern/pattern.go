// Package pattern wraps compiled regular expressions with the counting
// search and replace operations the text cleaner and the syllable rules
// are built from.
package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// Options selects the flags a pattern is compiled with.
type Options struct {
	CaseInsensitive bool
	Multiline       bool
}

// Pattern is a compiled expression. It is immutable and safe for
// concurrent use.
type Pattern struct {
	expr string
	re   *regexp.Regexp
}

// Compile parses expr with the given options.
func Compile(expr string, opts Options) (*Pattern, error) {
	flags := ""
	if opts.CaseInsensitive {
		flags += "i"
	}
	if opts.Multiline {
		flags += "m"
	}
	src := expr
	if flags != "" {
		src = "(?" + flags + ")" + expr
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", expr, err)
	}
	return &Pattern{expr: expr, re: re}, nil
}

// MustCompile is like Compile but panics on invalid syntax. Use it only for
// fixed package-level tables.
func MustCompile(expr string, opts Options) *Pattern {
	p, err := Compile(expr, opts)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source expression without the option prefix.
func (p *Pattern) String() string {
	return p.expr
}

// Matches reports whether s contains a match.
func (p *Pattern) Matches(s string) bool {
	return p.re.MatchString(s)
}

// Count returns the number of non-overlapping leftmost matches in s.
func (p *Pattern) Count(s string) int {
	return len(p.re.FindAllStringIndex(s, -1))
}

// Replace substitutes template for every match, expanding $1 and ${name}
// references, and reports how many matches were replaced.
func (p *Pattern) Replace(s, template string) (string, int) {
	matches := p.re.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, 0
	}
	var b strings.Builder
	b.Grow(len(s))
	var buf []byte
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		buf = p.re.ExpandString(buf[:0], template, s, m)
		b.Write(buf)
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String(), len(matches)
}

// ReplaceFunc substitutes fn(match) for every match.
func (p *Pattern) ReplaceFunc(s string, fn func(string) string) (string, int) {
	matches := p.re.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s, 0
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		b.WriteString(fn(s[m[0]:m[1]]))
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String(), len(matches)
}

// FindAll returns the text of every non-overlapping match in s.
func (p *Pattern) FindAll(s string) []string {
	return p.re.FindAllString(s, -1)
}
