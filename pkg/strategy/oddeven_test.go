package strategy

import (
	"context"
	"slices"
	"testing"

	"github.com/matzehuels/sortnet/pkg/engine"
	"github.com/matzehuels/sortnet/pkg/network"
)

func TestOddEvenPhases(t *testing.T) {
	l := mustLine(t, make([]int64, 6)...)
	tests := []struct {
		phase int
		name  string
		want  [][]int
	}{
		{1, "even", [][]int{{0, 1}, {2, 3}, {4, 5}}},
		{2, "odd", [][]int{{1, 2}, {3, 4}}},
		{3, "even", [][]int{{0, 1}, {2, 3}, {4, 5}}},
	}

	for _, tt := range tests {
		plan := OddEven{}.Plan(l, tt.phase)
		step := plan.Steps[0]
		if step.Name != tt.name || !step.Locked {
			t.Errorf("phase %d: step %q locked=%v, want %q locked", tt.phase, step.Name, step.Locked, tt.name)
		}
		var got [][]int
		for _, g := range step.Groups {
			got = append(got, g.Members)
		}
		if !slices.EqualFunc(got, tt.want, slices.Equal) {
			t.Errorf("phase %d: pairs = %v, want %v", tt.phase, got, tt.want)
		}
	}
}

// neverSorted keeps OddEven's plan but never lets its oracle succeed.
type neverSorted struct{ OddEven }

func (neverSorted) Sorted(*network.Line) bool { return false }

func TestOddEvenStopsAfter2nPhases(t *testing.T) {
	for _, values := range [][]int64{{1}, {2, 1}, {5, 3, 8, 1, 9, 2}} {
		l := mustLine(t, values...)
		rl, err := engine.Run(context.Background(), l, neverSorted{}, engine.Options{})
		if err != nil {
			t.Fatalf("%v: Run error: %v", values, err)
		}
		if rl.Rounds != 2*len(values) {
			t.Errorf("%v: Rounds = %d, want %d", values, rl.Rounds, 2*len(values))
		}
		if rl.Converged {
			t.Errorf("%v: Converged = true, want false", values)
		}
		if !rl.Sorted {
			t.Errorf("%v: line should still end up sorted", values)
		}
	}
}

// Neighbouring pairs of consecutive phases overlap; running the pairs of two
// phases inside one locked step must neither deadlock nor lose values.
func TestOddEvenOverlappingPairsUnderLocks(t *testing.T) {
	values := make([]int64, 101)
	for i := range values {
		values[i] = int64(len(values) - i)
	}
	l := mustLine(t, values...)
	pool, err := engine.NewPoolExecutor(8)
	if err != nil {
		t.Fatalf("NewPoolExecutor error: %v", err)
	}
	defer pool.Close()

	for range 50 {
		var groups []engine.Group
		groups = append(groups, OddEven{}.Plan(l, 1).Steps[0].Groups...)
		groups = append(groups, OddEven{}.Plan(l, 2).Steps[0].Groups...)
		if err := pool.Execute(context.Background(), groups); err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		if err := l.Verify(); err != nil {
			t.Fatalf("Verify error: %v", err)
		}
	}
}
