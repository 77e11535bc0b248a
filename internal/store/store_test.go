package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/readstat/internal/model"
	"github.com/verte-zerg/readstat/internal/readability"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "readstat.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}

func insert(t *testing.T, st *Store, source, label, text string, at time.Time) int64 {
	t.Helper()
	var words []model.WordStat
	for _, w := range readability.ComplexWords(text) {
		words = append(words, model.WordStat{Word: w.Word, Syllables: w.Syllables, Count: w.Count})
	}
	id, err := st.InsertAnalysis(context.Background(), model.Analysis{
		CreatedAt: at,
		Source:    source,
		Label:     label,
		Hash:      "h-" + source,
		Stats:     readability.Analyze(text),
	}, words)
	if err != nil {
		t.Fatalf("insert analysis: %v", err)
	}
	return id
}

func TestInsertAndList(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	insert(t, st, "docs/a.md", "draft", "Cats sleep.", base)
	insert(t, st, "docs/b.md", "final", "A beautiful banana.", base.Add(time.Hour))
	insert(t, st, "notes.txt", "draft", "Dogs run fast.", base.Add(2*time.Hour))

	all, err := st.ListAnalyses(ctx, model.HistoryFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 analyses, got %d", len(all))
	}
	if all[0].Source != "docs/a.md" || all[2].Source != "notes.txt" {
		t.Fatalf("expected oldest first, got %s..%s", all[0].Source, all[2].Source)
	}
	if all[0].Stats != readability.Analyze("Cats sleep.") {
		t.Fatalf("expected stored stats to round-trip, got %+v", all[0].Stats)
	}
	if !all[1].CreatedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("unexpected created_at %v", all[1].CreatedAt)
	}

	docs, err := st.ListAnalyses(ctx, model.HistoryFilter{Source: "docs/"})
	if err != nil {
		t.Fatalf("list by source: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs analyses, got %d", len(docs))
	}

	drafts, err := st.ListAnalyses(ctx, model.HistoryFilter{Label: "draft"})
	if err != nil {
		t.Fatalf("list by label: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}

	since := base.Add(90 * time.Minute)
	recent, err := st.ListAnalyses(ctx, model.HistoryFilter{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 1 || recent[0].Source != "notes.txt" {
		t.Fatalf("expected only notes.txt, got %v", recent)
	}
}

func TestGetAndDelete(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	id := insert(t, st, "a.txt", "", "A beautiful banana.", time.Now())

	got, err := st.GetAnalysis(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Hash != "h-a.txt" || got.Stats.Words != 3 {
		t.Fatalf("unexpected analysis %+v", got)
	}

	latest, err := st.LatestBySource(ctx, "a.txt")
	if err != nil || latest.ID != id {
		t.Fatalf("expected latest %d, got %d (%v)", id, latest.ID, err)
	}

	if err := st.DeleteAnalysis(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.GetAnalysis(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := st.DeleteAnalysis(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	words, err := st.ListWordAggregates(ctx, []int64{id})
	if err != nil {
		t.Fatalf("list words: %v", err)
	}
	if len(words) != 0 {
		t.Fatalf("expected word rows to cascade, got %v", words)
	}
}

func TestWordAggregates(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	a := insert(t, st, "a", "", "A banana and a banana.", time.Now())
	b := insert(t, st, "b", "", "Banana bread is beautiful.", time.Now())

	aggs, err := st.ListWordAggregates(ctx, []int64{a, b})
	if err != nil {
		t.Fatalf("list words: %v", err)
	}
	byWord := map[string]model.WordAggregate{}
	for _, agg := range aggs {
		byWord[agg.Word] = agg
	}
	banana := byWord["banana"]
	if banana.Count != 3 || banana.Analyses != 2 || banana.Syllables != 3 {
		t.Fatalf("unexpected banana aggregate %+v", banana)
	}
	if byWord["beautiful"].Count != 1 {
		t.Fatalf("unexpected beautiful aggregate %+v", byWord["beautiful"])
	}
	if none, err := st.ListWordAggregates(ctx, nil); err != nil || none != nil {
		t.Fatalf("expected nil for no ids, got %v (%v)", none, err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readstat.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	insert(t, st, "x", "", "Cats sleep.", time.Now())
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	}()
	all, err := st.ListAnalyses(context.Background(), model.HistoryFilter{})
	if err != nil || len(all) != 1 {
		t.Fatalf("expected 1 analysis after reopen, got %d (%v)", len(all), err)
	}
}
