package readability

import (
	"fmt"

	"github.com/verte-zerg/readstat/internal/pattern"
)

// RuleKind tags an adjustment applied to the raw vowel-group count.
type RuleKind int

const (
	SubtractSilentE RuleKind = iota
	SubtractInflectionalSuffix
	AddConsonantLE
	AddHiatus
)

func (k RuleKind) String() string {
	switch k {
	case SubtractSilentE:
		return "silent-e"
	case SubtractInflectionalSuffix:
		return "inflectional-suffix"
	case AddConsonantLE:
		return "consonant-le"
	case AddHiatus:
		return "hiatus"
	default:
		return fmt.Sprintf("rule(%d)", int(k))
	}
}

// Rule adds Delta for every match of Pattern in a lower-cased word segment.
type Rule struct {
	Kind    RuleKind
	Pattern *pattern.Pattern
	Delta   int
}

// Apply returns the adjustment the rule makes to segment.
func (r Rule) Apply(segment string) int {
	return r.Delta * r.Pattern.Count(segment)
}

func rule(kind RuleKind, expr string, delta int) Rule {
	return Rule{Kind: kind, Pattern: pattern.MustCompile(expr, pattern.Options{}), Delta: delta}
}

// DefaultRules is the ordered English rule table. The silent-e rule also
// fires on consonant+le endings ("table"); the consonant-le rule gives that
// syllable back. The hiatus rules split vowel pairs that the vowel-group
// count merges: radio, actual, diet, being, video, poem, idea, create.
var DefaultRules = []Rule{
	rule(SubtractSilentE, `[aeiouy][^aeiouy]*[^aeiouy]e$`, -1),
	rule(SubtractInflectionalSuffix, `[aeiouy][^aeiouy]*[^aeiouysxzcgh]es$`, -1),
	rule(SubtractInflectionalSuffix, `[aeiouy][^aeiouy]*[^aeiouytd]ed$`, -1),
	rule(AddConsonantLE, `[aeiouy][^aeiouy]*[bcdfgkpstxz]le[sd]?$`, 1),
	rule(AddHiatus, `(?:^|[^cstg])i[aoiu]`, 1),
	rule(AddHiatus, `[^gq]ua[^aeiouy]`, 1),
	rule(AddHiatus, `(?:^|[^cstg]|sc)ie(?:t|nc|nt|st)`, 1),
	rule(AddHiatus, `[aeouy]ings?$`, 1),
	rule(AddHiatus, `(?:^|[^g])eo(?:[^pu]|$)`, 1),
	rule(AddHiatus, `oe[mt]`, 1),
	rule(AddHiatus, `[aeiouy][^aeiouy]+ea$`, 1),
	rule(AddHiatus, `^c?rea[ct](?:[^hu]|$)`, 1),
}
