// Package sim runs sorting-network simulations on behalf of the CLI and the
// HTTP API.
//
// It wraps the engine with everything a front end needs around a run: input
// generation, option defaults, a result cache, run history and logging. Both
// front ends go through [Runner.Execute], so a run started from the command
// line and one started over HTTP behave identically.
//
// # Usage
//
//	runner := sim.NewRunner(cache, nil, store, logger)
//	res, err := runner.Execute(ctx, sim.Options{Strategy: "sasaki", Size: 16})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Output, res.Rounds)
package sim

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sortnet/pkg/cache"
	"github.com/matzehuels/sortnet/pkg/engine"
	"github.com/matzehuels/sortnet/pkg/errors"
	"github.com/matzehuels/sortnet/pkg/network"
	"github.com/matzehuels/sortnet/pkg/strategy"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultStrategy is used when no strategy is named.
	DefaultStrategy = strategy.KindAlternate

	// DefaultSize is the number of random values drawn when no input is given.
	DefaultSize = 10

	// DefaultMin and DefaultMax bound the random values.
	DefaultMin = 0
	DefaultMax = 999

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)
)

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options configures one run. This struct supports JSON serialization for API
// requests.
type Options struct {
	Strategy string `json:"strategy,omitempty"`

	// Values is an explicit initial sequence. When empty, Size values are
	// drawn from [Min, Max] with Seed.
	Values []int64 `json:"values,omitempty"`
	Size   int     `json:"size,omitempty"`

	// Min and Max bound the random draw. A nil bound becomes DefaultMin or
	// DefaultMax; a zero bound is a real bound, so [0, 0] draws only zeros.
	Min  *int64 `json:"min,omitempty"`
	Max  *int64 `json:"max,omitempty"`
	Seed uint64 `json:"seed,omitempty"`

	Trace      bool `json:"trace,omitempty"`
	SkipVerify bool `json:"skip_verify,omitempty"`
	Refresh    bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger            `json:"-"`
	Observer func(engine.Snapshot) `json:"-"`

	// drawnWith is the seed that produced Values, when they were drawn
	// rather than given.
	drawnWith uint64

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Strategy == "" {
		o.Strategy = string(DefaultStrategy)
	}
	kind, err := strategy.ParseKind(o.Strategy)
	if err != nil {
		return err
	}
	o.Strategy = string(kind)

	if len(o.Values) > 0 {
		if err := errors.ValidateValues(o.Values, o.Size); err != nil {
			return err
		}
	} else {
		if o.Size == 0 {
			o.Size = DefaultSize
		}
		if err := errors.ValidateSize(o.Size); err != nil {
			return err
		}
		if o.Min == nil {
			o.Min = Int64(DefaultMin)
		}
		if o.Max == nil {
			o.Max = Int64(DefaultMax)
		}
		if err := errors.ValidateRange(*o.Min, *o.Max); err != nil {
			return err
		}
		if o.Seed == 0 {
			o.Seed = DefaultSeed
		}
	}

	if o.Trace {
		if err := errors.ValidateTraceSize(max(o.Size, len(o.Values))); err != nil {
			return err
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Kind returns the parsed strategy. Call ValidateAndSetDefaults first.
func (o *Options) Kind() strategy.Kind { return strategy.Kind(o.Strategy) }

// Input returns the input description of the run.
func (o *Options) Input() network.Input {
	return network.Input{
		Values: o.Values,
		Count:  o.Size,
		Min:    boundOr(o.Min, DefaultMin),
		Max:    boundOr(o.Max, DefaultMax),
		Seed:   o.Seed,
	}
}

// Int64 returns a pointer to v, for setting Min and Max.
func Int64(v int64) *int64 { return &v }

func boundOr(p *int64, def int64) int64 {
	if p == nil {
		return def
	}
	return *p
}

// RunKeyOpts returns cache key options for the run.
func (o *Options) RunKeyOpts() cache.RunKeyOpts {
	return cache.RunKeyOpts{Trace: o.Trace, SkipVerify: o.SkipVerify}
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of a run.
type Result struct {
	ID        string            `json:"id"`
	Strategy  string            `json:"strategy"`
	Seed      uint64            `json:"seed,omitempty"`
	Input     []int64           `json:"input"`
	Output    []int64           `json:"output"`
	Sorted    bool              `json:"sorted"`
	Rounds    int               `json:"rounds"`
	Converged bool              `json:"converged"`
	Trace     []engine.Snapshot `json:"trace,omitempty"`
	Stats     Stats             `json:"stats"`
	CacheHit  bool              `json:"cache_hit"`
	CreatedAt time.Time         `json:"created_at"`
}

// Stats contains run statistics.
type Stats struct {
	Size     int           `json:"size"`
	Duration time.Duration `json:"duration_ns"`
}

// RoundLog returns the engine view of the result.
func (r *Result) RoundLog() *engine.RoundLog {
	return &engine.RoundLog{
		Strategy:  r.Strategy,
		Size:      r.Stats.Size,
		Values:    r.Output,
		Sorted:    r.Sorted,
		Rounds:    r.Rounds,
		Converged: r.Converged,
		Trace:     r.Trace,
	}
}
