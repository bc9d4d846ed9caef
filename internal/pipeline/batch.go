package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Gather calls fn once for every item and returns the results in input order.
//
// At most limit calls run at the same time; limit <= 0 starts them all at
// once. fn cannot fail: per-item failures are part of R, so one bad item
// never cancels the others and Gather always waits for every call.
func Gather[T, R any](ctx context.Context, items []T, limit int, fn func(context.Context, T) R) []R {
	results := make([]R, len(items))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, item := range items {
		g.Go(func() error {
			// Each goroutine owns its slot, no locking needed.
			results[i] = fn(ctx, item)
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // workers never return an error
	return results
}
