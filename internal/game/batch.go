package game

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// RunBatch runs n battles with at most parallelism in flight and returns
// their results in index order. newBattle builds battle i; each battle is
// driven by its own goroutine. The first failure cancels the rest.
func RunBatch(ctx context.Context, n, parallelism int, newBattle func(i int) (*Battle, error)) ([]Result, error) {
	results := make([]Result, n)
	g, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i := range n {
		g.Go(func() error {
			b, err := newBattle(i)
			if err != nil {
				return fmt.Errorf("battle %d: %w", i, err)
			}
			res, err := b.Run(ctx)
			if err != nil {
				return fmt.Errorf("battle %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
