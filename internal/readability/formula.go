package readability

import "math"

// Sentinel is the score reported when a formula would divide by zero.
const Sentinel = 0.0

// Counts holds the raw tallies the formulas are computed from.
type Counts struct {
	Letters                           int `json:"letters"`
	Words                             int `json:"words"`
	Sentences                         int `json:"sentences"`
	Syllables                         int `json:"syllables"`
	Polysyllables                     int `json:"polysyllables"`
	PolysyllablesExcludingProperNouns int `json:"polysyllables_excluding_proper_nouns"`
}

func ratio(num, den int) float64 {
	return float64(num) / float64(den)
}

// FleschReadingEase scores text on a 0-100 style scale; higher is easier.
func FleschReadingEase(c Counts) float64 {
	if c.Words == 0 || c.Sentences == 0 {
		return Sentinel
	}
	return 206.835 - 1.015*ratio(c.Words, c.Sentences) - 84.6*ratio(c.Syllables, c.Words)
}

// FleschKincaidGrade maps text to a US school grade.
func FleschKincaidGrade(c Counts) float64 {
	if c.Words == 0 || c.Sentences == 0 {
		return Sentinel
	}
	return 0.39*ratio(c.Words, c.Sentences) + 11.8*ratio(c.Syllables, c.Words) - 15.59
}

// GunningFog counts complex words without proper nouns.
func GunningFog(c Counts) float64 {
	if c.Words == 0 || c.Sentences == 0 {
		return Sentinel
	}
	return 0.4 * (ratio(c.Words, c.Sentences) + 100*ratio(c.PolysyllablesExcludingProperNouns, c.Words))
}

// ColemanLiau estimates a grade from letters and sentences per word.
func ColemanLiau(c Counts) float64 {
	if c.Words == 0 {
		return Sentinel
	}
	return 5.89*ratio(c.Letters, c.Words) - 0.3*(ratio(c.Sentences, c.Words)*100) - 15.8
}

// SMOG counts every polysyllabic word, proper nouns included.
func SMOG(c Counts) float64 {
	if c.Words == 0 || c.Sentences == 0 {
		return Sentinel
	}
	return 3.1291 + 1.0430*math.Sqrt(30*ratio(c.Polysyllables, c.Sentences))
}

// AutomatedReadabilityIndex is the character-based grade estimate.
func AutomatedReadabilityIndex(c Counts) float64 {
	if c.Words == 0 || c.Sentences == 0 {
		return Sentinel
	}
	return 4.71*ratio(c.Letters, c.Words) + 0.5*ratio(c.Words, c.Sentences) - 21.43
}
