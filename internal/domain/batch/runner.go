// Package batch runs one operation over many parameter sets with a bounded
// level of concurrency, preserving input order in the results.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ErrEmptyBatch is returned when a run has no items.
var ErrEmptyBatch = errors.New("batch: no items to process")

// DefaultMaxConcurrent bounds in-flight items when no limit is configured.
const DefaultMaxConcurrent = 10

// ItemFunc processes one merged parameter set.
type ItemFunc func(ctx context.Context, params map[string]any) (any, error)

// ItemResult is the outcome of a single batch item. Exactly one of Payload
// and Error is meaningful, selected by Success.
type ItemResult struct {
	Index   int    `json:"index"`
	Success bool   `json:"success"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Runner executes batches with at most a fixed number of items in flight.
type Runner struct {
	maxConcurrent int64
}

// NewRunner returns a runner allowing up to maxConcurrent items in flight;
// values below one fall back to DefaultMaxConcurrent.
func NewRunner(maxConcurrent int) *Runner {
	if maxConcurrent < 1 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &Runner{maxConcurrent: int64(maxConcurrent)}
}

// mergeParams overlays item values onto a copy of the common set. The merge
// is shallow and item keys win.
func mergeParams(common, item map[string]any) map[string]any {
	merged := make(map[string]any, len(common)+len(item))
	for k, v := range common {
		merged[k] = v
	}
	for k, v := range item {
		merged[k] = v
	}
	return merged
}

// Run processes every item through fn, merging each with the common
// parameters first. Results are returned in input order. An item failure or
// panic is recorded in its slot and never aborts the batch; only an empty
// batch or a canceled context yields a top-level error.
func (r *Runner) Run(ctx context.Context, common map[string]any, items []map[string]any, fn ItemFunc) ([]ItemResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}

	sem := semaphore.NewWeighted(r.maxConcurrent)
	results := make([]ItemResult, len(items))
	var wg sync.WaitGroup

	for i, item := range items {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(i int, params map[string]any) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = runItem(ctx, i, params, fn)
		}(i, mergeParams(common, item))
	}
	wg.Wait()

	return results, nil
}

func runItem(ctx context.Context, index int, params map[string]any, fn ItemFunc) (res ItemResult) {
	res.Index = index
	defer func() {
		if rec := recover(); rec != nil {
			res.Success = false
			res.Payload = nil
			res.Error = fmt.Sprintf("panic: %v", rec)
		}
	}()

	payload, err := fn(ctx, params)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	res.Payload = payload
	return res
}
