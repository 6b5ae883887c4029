// Package fanout runs independent work items with bounded concurrency and
// returns their results in input order. Document batches use it to run one
// extraction pipeline per upload while applying the results sequentially.
package fanout

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Result is the outcome of one item: Value on success, Err otherwise.
type Result[R any] struct {
	Value R
	Err   error
}

// Run calls fn for every item with at most maxWorkers calls in flight.
// Results keep the order of items. An item still waiting for a slot when
// ctx is canceled gets ctx.Err() and fn is not called for it; calls already
// running are left to observe ctx themselves. maxWorkers below 1 is treated
// as 1.
func Run[T, R any](ctx context.Context, maxWorkers int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	if len(items) == 0 {
		return results
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	sem := semaphore.NewWeighted(int64(maxWorkers))
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i] = Result[R]{Err: err}
				return
			}
			defer sem.Release(1)

			v, err := fn(ctx, item)
			results[i] = Result[R]{Value: v, Err: err}
		}()
	}
	wg.Wait()
	return results
}

// Errors returns the non-nil errors of results in order.
func Errors[R any](results []Result[R]) []error {
	var out []error
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r.Err)
		}
	}
	return out
}
