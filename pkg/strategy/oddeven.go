package strategy

import (
	"github.com/matzehuels/sortnet/pkg/engine"
	"github.com/matzehuels/sortnet/pkg/network"
)

// OddEven is odd-even transposition sort. Each round is one phase: odd rounds
// compare the pairs (0,1),(2,3),…, even rounds the pairs (1,2),(3,4),….
//
// The run stops as soon as the line is sorted, checked before every pair of
// phases, or after 2n phases.
type OddEven struct{}

// Name returns "oddeven".
func (OddEven) Name() string { return string(KindOddEven) }

// Schedule caps the run at 2n phases and checks sortedness every two phases.
func (OddEven) Schedule(n int) engine.Schedule {
	return engine.Schedule{MaxRounds: 2 * n, UntilSorted: true, Cycle: 2}
}

// Sorted reports whether the line is sorted.
func (OddEven) Sorted(l *network.Line) bool { return l.Sorted() }

// Plan returns the compare-exchange pairs of phase.
func (OddEven) Plan(l *network.Line, phase int) engine.Plan {
	first := 0
	if phase%2 == 0 {
		first = 1
	}
	step := engine.Step{Name: "even", Locked: true}
	if first == 1 {
		step.Name = "odd"
	}
	for i := first; i+1 < l.Len(); i += 2 {
		lo, hi := l.At(i), l.At(i+1)
		step.Groups = append(step.Groups, engine.Group{
			Members: []int{i, i + 1},
			Apply: func() error {
				return network.WithLocks(func() { sort2(lo, hi) }, lo, hi)
			},
		})
	}
	return engine.Single(step)
}

var _ engine.Strategy[*network.Line] = OddEven{}
