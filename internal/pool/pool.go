// Package pool runs a batch of independent items through a worker function
// with a fixed concurrency ceiling. A single item's failure is captured, not
// propagated, and never cancels or blocks sibling items; the caller always
// receives every success and every failure.
package pool

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Failure pairs a failed item with the error its worker returned.
type Failure[T any] struct {
	Item T
	Err  error
}

// Results collects the outcome of a batch. Values carries one entry per
// successful item and Failures one entry per failed item; ordering within
// either slice is unspecified, so callers must correlate by item identity,
// never by position.
type Results[T, R any] struct {
	Values   []R
	Failures []Failure[T]
}

// Errs returns the errors of all failures.
func (r *Results[T, R]) Errs() []error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// Run invokes worker for every item with at most limit invocations in flight
// at any instant. As each worker returns, the next queued item starts. Run
// returns once every item has settled.
//
// Context cancellation stops admission of queued items; items not started
// are reported as failures with ctx.Err().
func Run[T, R any](ctx context.Context, items []T, limit int, worker func(context.Context, T) (R, error)) *Results[T, R] {
	if limit < 1 {
		limit = 1
	}

	type outcome struct {
		item T
		val  R
		err  error
	}

	sem := semaphore.NewWeighted(int64(limit))
	out := make(chan outcome, len(items))

	var wg sync.WaitGroup
	for _, item := range items {
		if err := sem.Acquire(ctx, 1); err != nil {
			out <- outcome{item: item, err: err}
			continue
		}
		wg.Add(1)
		go func(item T) {
			defer wg.Done()
			defer sem.Release(1)
			val, err := worker(ctx, item)
			out <- outcome{item: item, val: val, err: err}
		}(item)
	}
	wg.Wait()
	close(out)

	results := &Results[T, R]{}
	for o := range out {
		if o.err != nil {
			results.Failures = append(results.Failures, Failure[T]{Item: o.item, Err: o.err})
			continue
		}
		results.Values = append(results.Values, o.val)
	}
	return results
}
