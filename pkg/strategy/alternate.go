package strategy

import (
	"github.com/matzehuels/sortnet/pkg/engine"
	"github.com/matzehuels/sortnet/pkg/network"
)

// Alternate sorts a line in n-1 rounds of triad sorts.
//
// In round r the centers are s, s+3, s+6, … where s cycles through 1, 2, 0.
// Each center sorts itself and its two neighbours; a center at either end of
// the line only has one neighbour and sorts that pair instead. Groups of a
// round never share a processor, so no locking is needed.
type Alternate struct{}

// Name returns "alternate".
func (Alternate) Name() string { return string(KindAlternate) }

// Schedule runs exactly n-1 rounds.
func (Alternate) Schedule(n int) engine.Schedule {
	return engine.Schedule{MaxRounds: n - 1}
}

// Sorted reports whether the line is sorted.
func (Alternate) Sorted(l *network.Line) bool { return l.Sorted() }

// Plan returns the triad groups of round.
func (Alternate) Plan(l *network.Line, round int) engine.Plan {
	n := l.Len()
	step := engine.Step{Name: "triads"}
	for c := alternateOffset(round); c < n; c += 3 {
		lo, hi := max(c-1, 0), min(c+1, n-1)
		if lo == hi {
			continue
		}
		g := engine.Group{Members: span(lo, hi)}
		if hi-lo == 2 {
			a, b, d := l.At(lo), l.At(lo+1), l.At(hi)
			g.Apply = func() error { sort3(a, b, d); return nil }
		} else {
			a, b := l.At(lo), l.At(hi)
			g.Apply = func() error { sort2(a, b); return nil }
		}
		step.Groups = append(step.Groups, g)
	}
	return engine.Single(step)
}

// alternateOffset returns the first center of round (1-based).
func alternateOffset(round int) int {
	switch (round + 1) % 3 {
	case 0:
		return 2
	case 1:
		return 0
	default:
		return 1
	}
}

func sort2(a, b *network.Processor) {
	if a.Value > b.Value {
		a.Value, b.Value = b.Value, a.Value
	}
}

// sort3 orders a triad. The middle value is recovered as sum-min-max, which is
// exact in wrapping int64 arithmetic.
func sort3(a, b, c *network.Processor) {
	x, y, z := a.Value, b.Value, c.Value
	lo, hi := min(x, y, z), max(x, y, z)
	a.Value, b.Value, c.Value = lo, x+y+z-lo-hi, hi
}

func span(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

var _ engine.Strategy[*network.Line] = Alternate{}
