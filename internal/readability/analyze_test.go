package readability

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestAnalyzeCatsSleep(t *testing.T) {
	s := Analyze("Cats sleep.")
	want := Counts{Letters: 9, Words: 2, Sentences: 1, Syllables: 2}
	if s.Counts != want {
		t.Fatalf("expected %+v, got %+v", want, s.Counts)
	}
	if !near(s.FleschReadingEase, 206.835-1.015*2-84.6*1) {
		t.Fatalf("unexpected reading ease %f", s.FleschReadingEase)
	}
	if s.AvgWordsPerSentence != 2 || s.AvgSyllablesPerWord != 1 {
		t.Fatalf("unexpected averages %f %f", s.AvgWordsPerSentence, s.AvgSyllablesPerWord)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	for _, in := range []string{"", "   \n", "?!.", "-- ' --"} {
		if s := Analyze(in); s != (Stats{}) {
			t.Fatalf("expected zero stats for %q, got %+v", in, s)
		}
	}
}

func TestAnalyzeHundredWords(t *testing.T) {
	sentence := strings.TrimSpace(strings.Repeat("banana ", 20)) + "."
	text := strings.TrimSpace(strings.Repeat(sentence+" ", 5))
	s := Analyze(text)
	want := Counts{Letters: 600, Words: 100, Sentences: 5, Syllables: 300, Polysyllables: 100, PolysyllablesExcludingProperNouns: 100}
	if s.Counts != want {
		t.Fatalf("expected %+v, got %+v", want, s.Counts)
	}
	if !near(s.FleschReadingEase, -67.265) {
		t.Fatalf("unexpected reading ease %f", s.FleschReadingEase)
	}
	if !near(s.FleschKincaidGrade, 27.61) {
		t.Fatalf("unexpected grade %f", s.FleschKincaidGrade)
	}
	if !near(s.GunningFog, 48) {
		t.Fatalf("unexpected fog %f", s.GunningFog)
	}
	if !near(s.ColemanLiau, 18.04) {
		t.Fatalf("unexpected coleman-liau %f", s.ColemanLiau)
	}
	if !near(s.SMOG, 28.677278) {
		t.Fatalf("unexpected smog %f", s.SMOG)
	}
	if !near(s.AutomatedReadabilityIndex, 16.83) {
		t.Fatalf("unexpected ari %f", s.AutomatedReadabilityIndex)
	}
	if s.PolysyllablePercent != 100 {
		t.Fatalf("expected 100 percent polysyllables, got %f", s.PolysyllablePercent)
	}
}

func TestPolysyllableShare(t *testing.T) {
	s := Analyze("Jennifer bought a beautiful banana.")
	if s.Polysyllables != 3 || s.PolysyllablesExcludingProperNouns != 2 {
		t.Fatalf("unexpected polysyllable counts %+v", s.Counts)
	}
	if !near(s.PolysyllableShare(false), 60) || !near(s.PolysyllablePercent, 60) {
		t.Fatalf("expected 60 percent with proper nouns, got %f", s.PolysyllableShare(false))
	}
	if !near(s.PolysyllableShare(true), 40) || !near(s.PolysyllablePercentExcludingProperNouns, 40) {
		t.Fatalf("expected 40 percent without proper nouns, got %f", s.PolysyllableShare(true))
	}
	if empty := Analyze(""); empty.PolysyllableShare(true) != 0 {
		t.Fatalf("expected 0 for empty text, got %f", empty.PolysyllableShare(true))
	}
}

func TestAnalyzeMixedSentences(t *testing.T) {
	sentence := strings.TrimSpace(strings.Repeat("cat banana ", 10)) + "."
	text := strings.TrimSpace(strings.Repeat(sentence+" ", 5))
	s := Analyze(text)
	if s.Words != 100 || s.Sentences != 5 || s.Syllables != 200 || s.Letters != 450 {
		t.Fatalf("unexpected counts %+v", s.Counts)
	}
	if !near(s.FleschReadingEase, 17.335) || !near(s.AutomatedReadabilityIndex, 9.765) {
		t.Fatalf("unexpected scores %+v", s)
	}
}

func TestAnalyzeProperNouns(t *testing.T) {
	s := Analyze("Jennifer bought a beautiful banana.")
	if s.Polysyllables != 3 || s.PolysyllablesExcludingProperNouns != 2 {
		t.Fatalf("unexpected polysyllables %+v", s.Counts)
	}
}

func TestAnalyzerCustomEstimator(t *testing.T) {
	a := NewAnalyzer(NewEstimator(nil))
	if got := a.Analyze("like").Syllables; got != 2 {
		t.Fatalf("expected 2 syllables without rules, got %d", got)
	}
}

func TestStatsJSON(t *testing.T) {
	data, err := json.Marshal(Analyze("Cats sleep."))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"words":2`, `"sentences":1`, `"flesch_reading_ease":`, `"polysyllables_excluding_proper_nouns":0`} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("expected %s in %s", key, data)
		}
	}
}

func TestAnalyzeAll(t *testing.T) {
	texts := []string{"Cats sleep.", "", "Wait... what?!", "The dog ran home."}
	got, err := AnalyzeAll(context.Background(), texts, 2)
	if err != nil {
		t.Fatalf("analyze all: %v", err)
	}
	if len(got) != len(texts) {
		t.Fatalf("expected %d results, got %d", len(texts), len(got))
	}
	for i, text := range texts {
		if got[i] != Analyze(text) {
			t.Fatalf("expected result %d to match Analyze", i)
		}
	}
}

func TestAnalyzeAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := AnalyzeAll(ctx, []string{"a", "b"}, 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestComplexWords(t *testing.T) {
	got := ComplexWords("Banana bread. A banana, a beautiful banana and Jennifer.")
	want := []ComplexWord{
		{Word: "banana", Syllables: 3, Count: 3},
		{Word: "beautiful", Syllables: 3, Count: 1},
		{Word: "jennifer", Syllables: 3, Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v at %d, got %v", want[i], i, got[i])
		}
	}
	if words := ComplexWords(""); len(words) != 0 {
		t.Fatalf("expected no words, got %v", words)
	}
}
