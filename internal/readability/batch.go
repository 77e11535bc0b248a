package readability

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// AnalyzeAll analyzes texts on up to workers goroutines and returns the
// results in input order. A non-positive workers uses GOMAXPROCS.
// Cancellation is observed between texts.
func AnalyzeAll(ctx context.Context, texts []string, workers int) ([]Stats, error) {
	return defaultAnalyzer.AnalyzeAll(ctx, texts, workers)
}

func (a *Analyzer) AnalyzeAll(ctx context.Context, texts []string, workers int) ([]Stats, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]Stats, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, text := range texts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.Analyze(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
