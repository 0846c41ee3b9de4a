package core

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// FetchResult is the outcome of one external fetch: a value on success or the
// reason it failed. A failed fetch leaves Value at its zero value.
type FetchResult[T any] struct {
	Key   string
	Value T
	Err   error
}

// OK reports whether the fetch succeeded.
func (r FetchResult[T]) OK() bool {
	return r.Err == nil
}

// fetchPool runs fetch jobs on a bounded set of workers.
// Every job writes to its own destination, so results need no locking.
type fetchPool struct {
	ctx     context.Context
	timeout time.Duration
	jobs    chan func()
	wg      sync.WaitGroup
}

// newFetchPool starts workers that drain a job queue sized for capacity jobs.
func newFetchPool(ctx context.Context, workers int, timeout time.Duration, capacity int) *fetchPool {
	p := &fetchPool{
		ctx:     ctx,
		timeout: timeout,
		jobs:    make(chan func(), max(capacity, 1)),
	}
	for range max(min(workers, capacity), 1) {
		p.wg.Go(func() {
			for job := range p.jobs {
				job()
			}
		})
	}
	return p
}

// schedule queues fetch and stores its outcome in dst once it runs.
func schedule[T any](p *fetchPool, key string, fetch func(ctx context.Context) (T, error), dst *FetchResult[T]) {
	p.jobs <- func() {
		*dst = runFetch(p.ctx, p.timeout, key, fetch)
	}
}

// wait closes the queue and blocks until every job has finished.
func (p *fetchPool) wait() {
	close(p.jobs)
	p.wg.Wait()
}

// runFetch executes one fetch under its own timeout. Panics and timeouts are
// reported as failures of that fetch only.
func runFetch[T any](ctx context.Context, timeout time.Duration, key string, fetch func(ctx context.Context) (T, error)) (result FetchResult[T]) {
	result.Key = key

	fetchCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			var zero T
			result.Value = zero
			result.Err = fmt.Errorf("fetch %s panicked: %v", key, r)
		}
	}()

	value, err := fetch(fetchCtx)
	if err == nil {
		err = fetchCtx.Err()
	}
	if err != nil {
		var zero T
		return FetchResult[T]{Key: key, Value: zero, Err: err}
	}
	return FetchResult[T]{Key: key, Value: value}
}

// FanOut runs fetch for every key on at most workers goroutines and returns the
// results in key order.
func FanOut[T any](ctx context.Context, workers int, timeout time.Duration, keys []string, fetch func(ctx context.Context, key string) (T, error)) []FetchResult[T] {
	results := make([]FetchResult[T], len(keys))
	if len(keys) == 0 {
		return results
	}
	pool := newFetchPool(ctx, workers, timeout, len(keys))
	for i, key := range keys {
		schedule(pool, key, func(ctx context.Context) (T, error) {
			return fetch(ctx, key)
		}, &results[i])
	}
	pool.wait()
	return results
}
