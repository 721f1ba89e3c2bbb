package engine

import (
	"context"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/sortnet/pkg/errors"
)

// Executor runs the groups of one step concurrently and returns once every
// group has finished. The first error reported by a group is returned.
type Executor interface {
	Execute(ctx context.Context, groups []Group) error
	Close() error
}

// GoroutineExecutor starts one goroutine per group, bounded by an optional limit.
type GoroutineExecutor struct {
	limit int
}

// NewGoroutineExecutor creates an executor. A limit of 0 means one goroutine
// per group with no bound.
func NewGoroutineExecutor(limit int) *GoroutineExecutor {
	return &GoroutineExecutor{limit: limit}
}

// Execute runs groups and waits for all of them.
func (e *GoroutineExecutor) Execute(ctx context.Context, groups []Group) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(groups) == 1 {
		return apply(groups[0])
	}

	var g errgroup.Group
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for _, grp := range groups {
		g.Go(func() error { return apply(grp) })
	}
	return g.Wait()
}

// Close does nothing.
func (e *GoroutineExecutor) Close() error { return nil }

// PoolExecutor runs groups on a reusable ants worker pool. One pool serves
// every step of every round, so no goroutines are created per round once the
// pool is warm.
type PoolExecutor struct {
	pool *ants.Pool
}

// NewPoolExecutor creates a pool of size workers. A size of 0 uses GOMAXPROCS.
func NewPoolExecutor(size int) (*PoolExecutor, error) {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create worker pool")
	}
	return &PoolExecutor{pool: pool}, nil
}

// Execute submits every group to the pool and waits for all of them.
func (e *PoolExecutor) Execute(ctx context.Context, groups []Group) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		first error
	)
	record := func(err error) {
		mu.Lock()
		if first == nil {
			first = err
		}
		mu.Unlock()
	}

	for _, grp := range groups {
		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()
			if err := apply(grp); err != nil {
				record(err)
			}
		})
		if err != nil {
			wg.Done()
			record(errors.Wrap(errors.ErrCodeInternal, err, "submit group %v", grp.Members))
			break
		}
	}
	wg.Wait()
	return first
}

// Cap returns the number of workers in the pool.
func (e *PoolExecutor) Cap() int { return e.pool.Cap() }

// Close releases the pool's workers.
func (e *PoolExecutor) Close() error {
	e.pool.Release()
	return nil
}

// apply runs one group, turning a panic into an invariant error so that a
// broken strategy aborts the run instead of the process.
func apply(g Group) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeInvariant, "group %v panicked: %v", g.Members, r)
		}
	}()
	return g.Apply()
}

var (
	_ Executor = (*GoroutineExecutor)(nil)
	_ Executor = (*PoolExecutor)(nil)
)
