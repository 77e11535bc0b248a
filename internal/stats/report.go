package stats

import (
	"context"

	"github.com/verte-zerg/readstat/internal/model"
	"github.com/verte-zerg/readstat/internal/store"
)

// History contains precomputed data for history rendering.
type History struct {
	Analyses []model.Analysis
	// Words aggregates the complex words of every listed analysis.
	Words []model.WordAggregate
}

// BuildHistory loads analyses matching filter, keeping the last
// filter.Last when set.
func BuildHistory(ctx context.Context, st *store.Store, filter model.HistoryFilter) (History, error) {
	analyses, err := st.ListAnalyses(ctx, filter)
	if err != nil {
		return History{}, err
	}
	if filter.Last > 0 && len(analyses) > filter.Last {
		analyses = analyses[len(analyses)-filter.Last:]
	}
	ids := make([]int64, len(analyses))
	for i, a := range analyses {
		ids[i] = a.ID
	}
	words, err := st.ListWordAggregates(ctx, ids)
	if err != nil {
		return History{}, err
	}
	return History{Analyses: analyses, Words: words}, nil
}
