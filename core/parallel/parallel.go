// Package parallel runs index-addressed work across goroutines.
//
// Results are written by index, so callers that reduce them in index order
// get the same answer regardless of scheduling.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	lerrors "github.com/YuminosukeSato/langid/pkg/errors"
)

// Workers returns the effective worker count: jobs if positive, GOMAXPROCS otherwise.
func Workers(jobs int) int {
	if jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return jobs
}

// ForEach calls fn for every index in [0, items) using at most jobs goroutines.
// The first error cancels the remaining work and is returned. A panic in fn
// is recovered into a PanicError.
func ForEach(ctx context.Context, items, jobs int, fn func(ctx context.Context, i int) error) error {
	if items == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(Workers(jobs), items))

	for i := 0; i < items; i++ {
		g.Go(func() (err error) {
			defer lerrors.Recover(&err, "parallel.ForEach")
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

// Parallelize divides items into contiguous ranges, one per worker, and calls
// fn(start, end) for each range concurrently.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := min(runtime.NumCPU(), items)
	chunkSize := (items + numWorkers - 1) / numWorkers

	var g errgroup.Group
	for start := 0; start < items; start += chunkSize {
		end := min(start+chunkSize, items)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}

// ParallelizeWithThreshold runs fn sequentially when items <= threshold.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
