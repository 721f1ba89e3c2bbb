package strategy

import (
	"github.com/matzehuels/sortnet/pkg/engine"
	"github.com/matzehuels/sortnet/pkg/network"
)

// Sasaki sorts a two-slot network in n-1 rounds.
//
// A round has three steps separated by barriers:
//
//	left      odd cells i exchange with cell i-1 (boundaries 0|1, 2|3, …)
//	right     odd cells i < n-1 exchange with cell i+1 (boundaries 1|2, 3|4, …)
//	internal  every cell orders its own two slots
//
// Each boundary between two cells is compared once per round.
//
// An exchange swaps the facing slots of two cells when they are out of order.
// Whenever a marked element crosses a boundary the area counter of the cell on
// its right moves by one: down when the element enters that cell, up when it
// leaves it.
type Sasaki struct{}

// Name returns "sasaki".
func (Sasaki) Name() string { return string(KindSasaki) }

// Schedule runs exactly n-1 rounds.
func (Sasaki) Schedule(n int) engine.Schedule {
	return engine.Schedule{MaxRounds: n - 1}
}

// Sorted reports whether the canonical extraction is sorted.
func (Sasaki) Sorted(p *network.Pairs) bool { return p.Sorted() }

// Plan returns the left, right and internal steps of a round.
func (Sasaki) Plan(p *network.Pairs, _ int) engine.Plan {
	n := p.Len()
	left := engine.Step{Name: "left", Locked: true}
	right := engine.Step{Name: "right", Locked: true}
	internal := engine.Step{Name: "internal"}

	for i := 1; i < n; i += 2 {
		c := p.At(i)
		l := p.Left(i)
		left.Groups = append(left.Groups, engine.Group{
			Members: []int{i - 1, i},
			Apply: func() error {
				return network.WithLocks(func() { exchangeLeft(l, c) }, l, c)
			},
		})
		if r := p.Right(i); r != nil {
			right.Groups = append(right.Groups, engine.Group{
				Members: []int{i, i + 1},
				Apply: func() error {
					return network.WithLocks(func() { exchangeRight(c, r) }, c, r)
				},
			})
		}
	}
	for i := range n {
		c := p.At(i)
		internal.Groups = append(internal.Groups, engine.Group{
			Members: []int{i},
			Apply:   func() error { orderCell(c); return nil },
		})
	}

	return engine.Plan{Steps: []engine.Step{left, right, internal}}
}

// exchangeLeft is the left exchange of c with its left neighbour l.
func exchangeLeft(l, c *network.Cell) {
	if !c.Left.Less(l.Right) {
		return
	}
	in, out := l.Right, c.Left
	if in.Marked {
		c.Area--
	}
	if out.Marked {
		c.Area++
	}
	l.Right, c.Left = out, in
}

// exchangeRight is the right exchange of c with its right neighbour r.
func exchangeRight(c, r *network.Cell) {
	if !r.Left.Less(c.Right) {
		return
	}
	in, out := c.Right, r.Left
	if out.Marked {
		r.Area++
	}
	if in.Marked {
		r.Area--
	}
	c.Right, r.Left = out, in
}

func orderCell(c *network.Cell) {
	if c.Right.Less(c.Left) {
		c.Left, c.Right = c.Right, c.Left
	}
}

var _ engine.Strategy[*network.Pairs] = Sasaki{}
