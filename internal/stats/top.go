package stats

import (
	"sort"

	"github.com/verte-zerg/readstat/internal/model"
)

// TopWords returns the n most frequent words, then the longest, then
// alphabetical. n <= 0 returns every word.
func TopWords(aggs []model.WordAggregate, n int) []model.WordAggregate {
	if len(aggs) == 0 {
		return nil
	}
	items := make([]model.WordAggregate, len(aggs))
	copy(items, aggs)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		if items[i].Syllables != items[j].Syllables {
			return items[i].Syllables > items[j].Syllables
		}
		return items[i].Word < items[j].Word
	})
	if n > 0 && n < len(items) {
		items = items[:n]
	}
	return items
}
