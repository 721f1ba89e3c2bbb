package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sortnet/pkg/observability"
)

// Network is the state a strategy operates on.
type Network interface {
	Len() int

	// Values returns the logical value sequence in index order.
	Values() []int64

	// Sorted reports whether the logical sequence is non-decreasing.
	Sorted() bool

	// Verify checks the network's structural invariants.
	Verify() error
}

// Holder is implemented by networks whose logical sequence can repeat or skip
// values mid-run. Held returns every value the network holds exactly once, in
// index order.
type Holder interface {
	Held() []int64
}

// Schedule is the round budget of a strategy for a given network size.
type Schedule struct {
	// MaxRounds is the number of rounds to run (fixed schedules) or the cap
	// (UntilSorted schedules).
	MaxRounds int

	// UntilSorted stops the run early once the strategy's oracle reports
	// the network sorted.
	UntilSorted bool

	// Cycle is how many rounds run between two oracle checks. Values below
	// 1 are treated as 1.
	Cycle int
}

// Strategy describes how each round of a sort is carried out on a network of
// type N.
type Strategy[N Network] interface {
	Name() string
	Schedule(n int) Schedule

	// Plan returns the steps of round (1-based).
	Plan(net N, round int) Plan

	// Sorted is the sortedness oracle consulted by UntilSorted schedules.
	Sorted(net N) bool
}

// Snapshot is the observable state of a network after a round. Round 0 is
// the initial state.
type Snapshot struct {
	Round  int     `json:"round"`
	Values []int64 `json:"values"`

	// Held is set for networks implementing Holder. Unlike Values it is a
	// permutation of the input after every round.
	Held []int64 `json:"held,omitempty"`
	Sorted bool    `json:"sorted"`

	// Groups lists the processors of every multi-processor group that ran
	// in the round.
	Groups [][]int `json:"groups,omitempty"`
}

// RoundLog is the outcome of a run.
type RoundLog struct {
	Strategy  string     `json:"strategy"`
	Size      int        `json:"size"`
	Values    []int64    `json:"values"`
	Sorted    bool       `json:"sorted"`
	Rounds    int        `json:"rounds"`
	Converged bool       `json:"converged"`
	Trace     []Snapshot `json:"trace,omitempty"`
}

// Options configures a run. The zero value is usable.
type Options struct {
	// Executor runs the groups of each step. Defaults to an unbounded
	// GoroutineExecutor. The engine never closes a caller-supplied executor.
	Executor Executor

	// Observer, when set, receives a snapshot of round 0 and of every round.
	Observer func(Snapshot)

	// Trace records every snapshot in RoundLog.Trace.
	Trace bool

	// SkipVerify disables invariant checks between rounds.
	SkipVerify bool

	// Logger receives per-round debug output. Defaults to a discard logger.
	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.Executor == nil {
		o.Executor = NewGoroutineExecutor(0)
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Run sorts net with strategy s. The network is mutated in place.
//
// An error is returned when the context is cancelled between rounds, when a
// group fails, or when verification detects a broken invariant. Running out
// of rounds is not an error; the returned log reports Converged=false.
func Run[N Network](ctx context.Context, net N, s Strategy[N], opts Options) (rl *RoundLog, err error) {
	opts.setDefaults()

	n := net.Len()
	sched := s.Schedule(n)
	if sched.Cycle < 1 {
		sched.Cycle = 1
	}

	start := time.Now()
	hooks := observability.Engine()
	hooks.OnRunStart(ctx, s.Name(), n)
	rl = &RoundLog{Strategy: s.Name(), Size: n}
	defer func() {
		hooks.OnRunComplete(ctx, s.Name(), rl.Rounds, rl.Converged, time.Since(start), err)
	}()

	if !opts.SkipVerify {
		if err := net.Verify(); err != nil {
			return rl, fmt.Errorf("initial state: %w", err)
		}
	}
	emit(rl, opts, Snapshot{Round: 0, Values: net.Values(), Held: held(net), Sorted: net.Sorted()})

	for rl.Rounds < sched.MaxRounds {
		if sched.UntilSorted && rl.Rounds%sched.Cycle == 0 && s.Sorted(net) {
			break
		}
		if err := ctx.Err(); err != nil {
			return rl, err
		}

		round := rl.Rounds + 1
		roundStart := time.Now()
		plan := s.Plan(net, round)
		for _, step := range plan.Steps {
			if !step.Locked && !opts.SkipVerify {
				if err := checkDisjoint(step, n); err != nil {
					return rl, fmt.Errorf("round %d: %w", round, err)
				}
			}
			if err := opts.Executor.Execute(ctx, step.Groups); err != nil {
				return rl, fmt.Errorf("round %d step %s: %w", round, step.Name, err)
			}
		}
		rl.Rounds = round

		if !opts.SkipVerify {
			if err := net.Verify(); err != nil {
				return rl, fmt.Errorf("after round %d: %w", round, err)
			}
		}

		snap := Snapshot{Round: round, Values: net.Values(), Held: held(net), Sorted: net.Sorted(), Groups: plan.pairs()}
		emit(rl, opts, snap)
		hooks.OnRound(ctx, s.Name(), round, snap.Sorted, time.Since(roundStart))
		opts.Logger.Debug("round complete", "strategy", s.Name(), "round", round,
			"steps", len(plan.Steps), "sorted", snap.Sorted)
	}

	rl.Values = net.Values()
	rl.Sorted = net.Sorted()
	rl.Converged = !sched.UntilSorted || s.Sorted(net)
	return rl, nil
}

func held(net Network) []int64 {
	if h, ok := net.(Holder); ok {
		return h.Held()
	}
	return nil
}

func emit(rl *RoundLog, opts Options, snap Snapshot) {
	if opts.Observer != nil {
		opts.Observer(snap)
	}
	if opts.Trace {
		rl.Trace = append(rl.Trace, snap)
	}
}
