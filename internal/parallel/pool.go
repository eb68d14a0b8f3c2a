// Package parallel provides the bounded task pool that fans the six cube
// faces out to workers and joins them again.
//
// Jobs start in submission order and at most Workers run at once; the rest
// wait in FIFO order for a free slot. The first failing job cancels the
// shared context: jobs that have not started yet are skipped, running jobs
// are expected to observe the context and return early.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Job is one unit of work. It must return promptly once ctx is done.
type Job func(ctx context.Context) error

// WorkerPool bounds how many jobs run concurrently.
//
// A WorkerPool holds no per-call state: every Gather call owns its own join
// barrier, so one pool may serve concurrent conversions.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	// workers is the maximum number of jobs running at once.
	workers int
}

// NewWorkerPool creates a pool running at most workers jobs at once.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &WorkerPool{workers: workers}
}

// Workers returns the concurrency limit of the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Gather runs jobs and blocks until every started job has returned.
//
// It returns the first error reported by a job, or ctx's error if the parent
// context ends before all jobs started. A nil return means every job ran and
// succeeded.
func (p *WorkerPool) Gather(ctx context.Context, jobs []Job) error {
	if len(jobs) == 0 {
		return ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, job := range jobs {
		if gctx.Err() != nil {
			// A sibling failed or the caller gave up: leave the
			// remaining queue unstarted.
			break
		}
		// Go blocks while the limit is reached, which keeps start
		// order FIFO.
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return job(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Collect runs fn for every index in [0, n) on the pool and returns the
// results indexed by i. Each job writes only its own slot. On failure no
// partial results are returned.
func Collect[T any](ctx context.Context, p *WorkerPool, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	jobs := make([]Job, n)
	for i := range n {
		jobs[i] = func(ctx context.Context) error {
			v, err := fn(ctx, i)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		}
	}

	if err := p.Gather(ctx, jobs); err != nil {
		return nil, err
	}
	return results, nil
}
