package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/sortnet/pkg/cache"
	"github.com/matzehuels/sortnet/pkg/engine"
	"github.com/matzehuels/sortnet/pkg/history"
	"github.com/matzehuels/sortnet/pkg/observability"
	"github.com/matzehuels/sortnet/pkg/strategy"
)

// Runner executes runs with caching and history.
//
// The Runner holds no per-run state; multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	History history.Store
	Logger  *log.Logger

	// Executor runs the groups of every step. Nil means a fresh unbounded
	// GoroutineExecutor per run.
	Executor engine.Executor

	// TTL is how long results stay cached. Zero means cache.DefaultTTL.
	TTL time.Duration
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// If store is nil, runs are not recorded.
func NewRunner(c cache.Cache, keyer cache.Keyer, store history.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		History: store,
		Logger:  logger,
	}
}

// Execute resolves the input, runs the strategy (or loads a cached outcome)
// and records the run.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	values, err := opts.Input().Resolve()
	if err != nil {
		return nil, fmt.Errorf("resolve input: %w", err)
	}

	start := time.Now()
	rl, hit, err := r.run(ctx, opts, values)
	if err != nil {
		return nil, err
	}

	res := &Result{
		ID:        uuid.NewString(),
		Strategy:  rl.Strategy,
		Input:     values,
		Output:    rl.Values,
		Sorted:    rl.Sorted,
		Rounds:    rl.Rounds,
		Converged: rl.Converged,
		Trace:     rl.Trace,
		Stats:     Stats{Size: rl.Size, Duration: time.Since(start)},
		CacheHit:  hit,
		CreatedAt: time.Now().UTC(),
	}
	if len(opts.Values) == 0 {
		res.Seed = opts.Seed
	} else {
		res.Seed = opts.drawnWith
	}

	r.Logger.Info("run complete",
		"id", res.ID,
		"strategy", res.Strategy,
		"size", res.Stats.Size,
		"rounds", res.Rounds,
		"converged", res.Converged,
		"cached", res.CacheHit,
		"duration", res.Stats.Duration)
	if !res.Converged {
		r.Logger.Warn("round cap reached before the network was sorted",
			"strategy", res.Strategy, "rounds", res.Rounds)
	}

	r.record(ctx, res)
	return res, nil
}

// run returns the round log for values, from the cache when possible.
func (r *Runner) run(ctx context.Context, opts Options, values []int64) (*engine.RoundLog, bool, error) {
	key := r.Keyer.RunKey(opts.Strategy, cache.HashValues(values), opts.RunKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var rl engine.RoundLog
			if err := json.Unmarshal(data, &rl); err == nil {
				observability.Cache().OnCacheHit(ctx, "run")
				replay(opts, &rl)
				return &rl, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Warn("cache lookup failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "run")
	}

	rl, err := strategy.Run(ctx, opts.Kind(), values, engine.Options{
		Executor:   r.Executor,
		Observer:   opts.Observer,
		Trace:      opts.Trace,
		SkipVerify: opts.SkipVerify,
		Logger:     opts.Logger,
	})
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", opts.Strategy, err)
	}

	if data, err := json.Marshal(rl); err == nil {
		ttl := r.TTL
		if ttl == 0 {
			ttl = cache.DefaultTTL
		}
		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			r.Logger.Warn("cache store failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "run", len(data))
		}
	}
	return rl, false, nil
}

// replay feeds a cached trace to the observer so that callers watching rounds
// see the same sequence as for a fresh run.
func replay(opts Options, rl *engine.RoundLog) {
	if opts.Observer == nil {
		return
	}
	for _, snap := range rl.Trace {
		opts.Observer(snap)
	}
}

// record saves res to the history store. Failures are logged, not returned:
// the run itself succeeded.
func (r *Runner) record(ctx context.Context, res *Result) {
	if r.History == nil {
		return
	}
	rec := &history.Record{
		ID:        res.ID,
		Strategy:  res.Strategy,
		Size:      res.Stats.Size,
		Seed:      res.Seed,
		Input:     res.Input,
		Output:    res.Output,
		Rounds:    res.Rounds,
		Sorted:    res.Sorted,
		Converged: res.Converged,
		CacheHit:  res.CacheHit,
		Duration:  res.Stats.Duration,
		CreatedAt: res.CreatedAt,
	}
	if err := r.History.Save(ctx, rec); err != nil {
		r.Logger.Warn("failed to record run", "id", res.ID, "error", err)
	}
}

// Compare runs every strategy on the same input. The input is resolved once
// from opts, so random inputs are identical across strategies.
func (r *Runner) Compare(ctx context.Context, opts Options) ([]*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	values, err := opts.Input().Resolve()
	if err != nil {
		return nil, fmt.Errorf("resolve input: %w", err)
	}

	out := make([]*Result, 0, len(strategy.Kinds()))
	for _, k := range strategy.Kinds() {
		o := opts
		o.validated = false
		o.Strategy = string(k)
		o.Values = values
		o.Size = 0
		if len(opts.Values) == 0 {
			o.drawnWith = opts.Seed
		}
		res, err := r.Execute(ctx, o)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// Close releases the cache, the history store and the executor.
func (r *Runner) Close() error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	keep(r.Cache.Close())
	if r.History != nil {
		keep(r.History.Close())
	}
	if r.Executor != nil {
		keep(r.Executor.Close())
	}
	return first
}
