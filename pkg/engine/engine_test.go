package engine

import (
	"context"
	stderrors "errors"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/sortnet/pkg/errors"
	"github.com/matzehuels/sortnet/pkg/network"
)

// stub is a configurable strategy over a Line.
type stub struct {
	sched  func(n int) Schedule
	plan   func(l *network.Line, round int) Plan
	sorted func(l *network.Line) bool
}

func (s stub) Name() string { return "stub" }

func (s stub) Schedule(n int) Schedule { return s.sched(n) }

func (s stub) Plan(l *network.Line, round int) Plan {
	if s.plan == nil {
		return Plan{}
	}
	return s.plan(l, round)
}

func (s stub) Sorted(l *network.Line) bool {
	if s.sorted == nil {
		return l.Sorted()
	}
	return s.sorted(l)
}

func mustLine(t *testing.T, values ...int64) *network.Line {
	t.Helper()
	l, err := network.NewLine(values)
	if err != nil {
		t.Fatalf("NewLine(%v) error: %v", values, err)
	}
	return l
}

func TestRunStopsAtCapWhenNeverSorted(t *testing.T) {
	for _, n := range []int{1, 2, 5, 8} {
		values := make([]int64, n)
		for i := range values {
			values[i] = int64(n - i)
		}
		s := stub{
			sched:  func(n int) Schedule { return Schedule{MaxRounds: 2 * n, UntilSorted: true, Cycle: 2} },
			sorted: func(*network.Line) bool { return false },
		}

		rl, err := Run(context.Background(), mustLine(t, values...), s, Options{})
		if err != nil {
			t.Fatalf("n=%d: Run error: %v", n, err)
		}
		if rl.Rounds != 2*n {
			t.Errorf("n=%d: Rounds = %d, want %d", n, rl.Rounds, 2*n)
		}
		if rl.Converged {
			t.Errorf("n=%d: Converged = true, want false", n)
		}
	}
}

func TestRunFixedSchedule(t *testing.T) {
	var planned []int
	s := stub{
		sched: func(n int) Schedule { return Schedule{MaxRounds: n - 1} },
		plan: func(_ *network.Line, round int) Plan {
			planned = append(planned, round)
			return Plan{}
		},
	}

	rl, err := Run(context.Background(), mustLine(t, 4, 3, 2, 1), s, Options{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if rl.Rounds != 3 {
		t.Errorf("Rounds = %d, want 3", rl.Rounds)
	}
	if !slices.Equal(planned, []int{1, 2, 3}) {
		t.Errorf("planned rounds = %v, want [1 2 3]", planned)
	}
	if !rl.Converged {
		t.Error("fixed schedules always report Converged")
	}
	if rl.Sorted {
		t.Error("Sorted = true for an untouched reversed line")
	}
}

func TestRunUntilSortedChecksOncePerCycle(t *testing.T) {
	var checks int
	s := stub{
		sched: func(n int) Schedule { return Schedule{MaxRounds: 10, UntilSorted: true, Cycle: 2} },
		sorted: func(*network.Line) bool {
			checks++
			return checks == 3
		},
	}

	rl, err := Run(context.Background(), mustLine(t, 1, 2), s, Options{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	// checks before rounds 1, 3 and 5; the third one succeeds.
	if rl.Rounds != 4 {
		t.Errorf("Rounds = %d, want 4", rl.Rounds)
	}
}

func TestRunAlreadySorted(t *testing.T) {
	s := stub{
		sched: func(n int) Schedule { return Schedule{MaxRounds: 2 * n, UntilSorted: true, Cycle: 2} },
	}

	rl, err := Run(context.Background(), mustLine(t, 1, 2, 3), s, Options{Trace: true})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if rl.Rounds != 0 || !rl.Converged || !rl.Sorted {
		t.Errorf("got Rounds=%d Converged=%v Sorted=%v, want 0/true/true", rl.Rounds, rl.Converged, rl.Sorted)
	}
	if len(rl.Trace) != 1 || rl.Trace[0].Round != 0 {
		t.Errorf("Trace = %+v, want only the initial snapshot", rl.Trace)
	}
}

func TestRunObserverAndTrace(t *testing.T) {
	s := stub{
		sched: func(n int) Schedule { return Schedule{MaxRounds: 2} },
		plan: func(l *network.Line, round int) Plan {
			return Single(Step{Name: "swap", Groups: []Group{{
				Members: []int{0, 1},
				Apply: func() error {
					a, b := l.At(0), l.At(1)
					a.Value, b.Value = b.Value, a.Value
					return nil
				},
			}}})
		},
	}

	var seen []Snapshot
	rl, err := Run(context.Background(), mustLine(t, 2, 1), s, Options{
		Trace:    true,
		Observer: func(snap Snapshot) { seen = append(seen, snap) },
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	want := [][]int64{{2, 1}, {1, 2}, {2, 1}}
	if len(seen) != len(want) {
		t.Fatalf("observer saw %d snapshots, want %d", len(seen), len(want))
	}
	for i, snap := range seen {
		if snap.Round != i {
			t.Errorf("snapshot %d: Round = %d", i, snap.Round)
		}
		if !slices.Equal(snap.Values, want[i]) {
			t.Errorf("snapshot %d: Values = %v, want %v", i, snap.Values, want[i])
		}
	}
	if !seen[1].Sorted || seen[2].Sorted {
		t.Error("snapshot sortedness flags are wrong")
	}
	if len(seen[1].Groups) != 1 || !slices.Equal(seen[1].Groups[0], []int{0, 1}) {
		t.Errorf("round 1 groups = %v, want [[0 1]]", seen[1].Groups)
	}
	if len(rl.Trace) != 3 {
		t.Errorf("len(Trace) = %d, want 3", len(rl.Trace))
	}
}

// Every group of the second step must see the writes of every group of the
// first step.
func TestRunStepBarrier(t *testing.T) {
	const n = 64
	for name, exec := range executors(t) {
		t.Run(name, func(t *testing.T) {
			var flags [n]atomic.Bool
			s := stub{
				sched: func(int) Schedule { return Schedule{MaxRounds: 3} },
				plan: func(_ *network.Line, round int) Plan {
					var set, check []Group
					for i := range n {
						set = append(set, Group{Members: []int{i}, Apply: func() error {
							flags[i].Store(true)
							return nil
						}})
						check = append(check, Group{Members: []int{i}, Apply: func() error {
							for j := range n {
								if !flags[j].Load() {
									return errors.New(errors.ErrCodeInvariant, "flag %d not set", j)
								}
							}
							return nil
						}})
					}
					reset := make([]Group, 0, n)
					for i := range n {
						reset = append(reset, Group{Members: []int{i}, Apply: func() error {
							flags[i].Store(false)
							return nil
						}})
					}
					return Plan{Steps: []Step{
						{Name: "set", Groups: set},
						{Name: "check", Groups: check},
						{Name: "reset", Groups: reset},
					}}
				},
			}

			values := make([]int64, n)
			if _, err := Run(context.Background(), mustLine(t, values...), s, Options{Executor: exec}); err != nil {
				t.Fatalf("Run error: %v", err)
			}
		})
	}
}

func TestRunRejectsOverlappingUnlockedGroups(t *testing.T) {
	s := stub{
		sched: func(int) Schedule { return Schedule{MaxRounds: 1} },
		plan: func(*network.Line, int) Plan {
			noop := func() error { return nil }
			return Single(Step{Name: "bad", Groups: []Group{
				{Members: []int{0, 1}, Apply: noop},
				{Members: []int{1, 2}, Apply: noop},
			}})
		},
	}

	_, err := Run(context.Background(), mustLine(t, 3, 2, 1), s, Options{})
	if !errors.Is(err, errors.ErrCodeInvariant) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvariant)
	}
}

func TestRunAllowsOverlapInLockedSteps(t *testing.T) {
	s := stub{
		sched: func(int) Schedule { return Schedule{MaxRounds: 1} },
		plan: func(*network.Line, int) Plan {
			noop := func() error { return nil }
			return Single(Step{Name: "locked", Locked: true, Groups: []Group{
				{Members: []int{0, 1}, Apply: noop},
				{Members: []int{1, 2}, Apply: noop},
			}})
		},
	}

	if _, err := Run(context.Background(), mustLine(t, 3, 2, 1), s, Options{}); err != nil {
		t.Errorf("Run error: %v", err)
	}
}

func TestRunDetectsBrokenInvariant(t *testing.T) {
	s := stub{
		sched: func(int) Schedule { return Schedule{MaxRounds: 2} },
		plan: func(l *network.Line, round int) Plan {
			return Single(Step{Name: "corrupt", Groups: []Group{{
				Members: []int{0},
				Apply:   func() error { l.At(0).Value = 42; return nil },
			}}})
		},
	}

	rl, err := Run(context.Background(), mustLine(t, 1, 2), s, Options{})
	if !errors.Is(err, errors.ErrCodeInvariant) {
		t.Fatalf("error = %v, want %s", err, errors.ErrCodeInvariant)
	}
	if rl.Rounds != 1 {
		t.Errorf("Rounds = %d, want 1", rl.Rounds)
	}

	// With verification off the corruption goes unnoticed.
	if _, err := Run(context.Background(), mustLine(t, 1, 2), s, Options{SkipVerify: true}); err != nil {
		t.Errorf("Run with SkipVerify error: %v", err)
	}
}

func TestRunPropagatesGroupErrors(t *testing.T) {
	boom := stderrors.New("boom")
	for name, exec := range executors(t) {
		t.Run(name, func(t *testing.T) {
			s := stub{
				sched: func(int) Schedule { return Schedule{MaxRounds: 3} },
				plan: func(*network.Line, int) Plan {
					return Single(Step{Name: "fail", Groups: []Group{
						{Members: []int{0}, Apply: func() error { return nil }},
						{Members: []int{1}, Apply: func() error { return boom }},
					}})
				},
			}

			rl, err := Run(context.Background(), mustLine(t, 1, 2), s, Options{Executor: exec})
			if !stderrors.Is(err, boom) {
				t.Fatalf("error = %v, want boom", err)
			}
			if rl.Rounds != 0 {
				t.Errorf("Rounds = %d, want 0", rl.Rounds)
			}
		})
	}
}

func TestRunRecoversPanics(t *testing.T) {
	for name, exec := range executors(t) {
		t.Run(name, func(t *testing.T) {
			s := stub{
				sched: func(int) Schedule { return Schedule{MaxRounds: 1} },
				plan: func(*network.Line, int) Plan {
					return Single(Step{Name: "panic", Groups: []Group{
						{Members: []int{0}, Apply: func() error { panic("bad group") }},
						{Members: []int{1}, Apply: func() error { return nil }},
					}})
				},
			}

			_, err := Run(context.Background(), mustLine(t, 1, 2), s, Options{Executor: exec})
			if !errors.Is(err, errors.ErrCodeInvariant) {
				t.Errorf("error = %v, want %s", err, errors.ErrCodeInvariant)
			}
		})
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := stub{
		sched: func(int) Schedule { return Schedule{MaxRounds: 100} },
		plan: func(_ *network.Line, round int) Plan {
			if round == 3 {
				cancel()
			}
			return Plan{}
		},
	}

	rl, err := Run(ctx, mustLine(t, 2, 1), s, Options{})
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if rl.Rounds != 3 {
		t.Errorf("Rounds = %d, want 3", rl.Rounds)
	}
}

func executors(t *testing.T) map[string]Executor {
	t.Helper()
	pool, err := NewPoolExecutor(4)
	if err != nil {
		t.Fatalf("NewPoolExecutor error: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return map[string]Executor{
		"goroutine": NewGoroutineExecutor(0),
		"limited":   NewGoroutineExecutor(3),
		"pool":      pool,
	}
}
