package network

import (
	"math"
	"slices"
	"sync"

	"github.com/matzehuels/sortnet/pkg/errors"
)

// Bound distinguishes the two boundary sentinels from ordinary values.
type Bound int8

const (
	NegInf Bound = -1
	Finite Bound = 0
	PosInf Bound = 1
)

// Element is the content of one slot of a [Cell].
//
// Marked elements are the one copy of each input value that the area counters
// account for. Unmarked finite elements are shadow copies that take part in
// comparisons only. Sentinels are never marked.
type Element struct {
	Value  int64 `json:"value"`
	Marked bool  `json:"marked,omitempty"`
	Bound  Bound `json:"bound,omitempty"`
}

var (
	lowSentinel  = Element{Value: math.MinInt64, Bound: NegInf}
	highSentinel = Element{Value: math.MaxInt64, Bound: PosInf}
)

// Less orders elements by bound first, so sentinels sort outside every value.
func (e Element) Less(o Element) bool {
	if e.Bound != o.Bound {
		return e.Bound < o.Bound
	}
	return e.Value < o.Value
}

// Sentinel reports whether e is one of the two boundary sentinels.
func (e Element) Sentinel() bool { return e.Bound != Finite }

// Cell is one position of a [Pairs] network: two slots and an area counter.
type Cell struct {
	Index int
	Left  Element
	Right Element
	Area  int

	mu sync.Mutex
}

// Position returns the cell's index, which orders lock acquisition.
func (c *Cell) Position() int { return c.Index }

func (c *Cell) lock()   { c.mu.Lock() }
func (c *Cell) unlock() { c.mu.Unlock() }

// Canonical returns the slot that belongs in the output: the right slot when
// Area is -1 and the left slot otherwise.
func (c *Cell) Canonical() Element {
	if c.Area == -1 {
		return c.Right
	}
	return c.Left
}

// CellState is a copy of a cell's contents for display.
type CellState struct {
	Index int     `json:"index"`
	Left  Element `json:"left"`
	Right Element `json:"right"`
	Area  int     `json:"area"`
}

// Pairs is an array-backed chain of two-slot cells.
//
// Cell 0 starts as (-inf, x0*), interior cell i as (x_i, x_i*) and the last
// cell as (x_{n-1}*, +inf), where * marks the accounted copy. Cell 0 starts
// with Area -1, every other cell with 0.
type Pairs struct {
	cells []Cell
	want  []int64 // sorted input multiset
}

// NewPairs builds a two-slot network from values.
func NewPairs(values []int64) (*Pairs, error) {
	if err := errors.ValidateValues(values, 0); err != nil {
		return nil, err
	}
	n := len(values)
	p := &Pairs{
		cells: make([]Cell, n),
		want:  slices.Clone(values),
	}
	slices.Sort(p.want)

	for i, v := range values {
		c := &p.cells[i]
		c.Index = i
		switch {
		case i == 0:
			c.Left = lowSentinel
			c.Right = Element{Value: v, Marked: true}
			c.Area = -1
		case i == n-1:
			c.Left = Element{Value: v, Marked: true}
			c.Right = highSentinel
		default:
			c.Left = Element{Value: v}
			c.Right = Element{Value: v, Marked: true}
		}
	}
	return p, nil
}

// Len returns the number of cells.
func (p *Pairs) Len() int { return len(p.cells) }

// At returns cell i. It panics if i is out of range.
func (p *Pairs) At(i int) *Cell { return &p.cells[i] }

// Left returns the left neighbour of cell i, or nil at the left boundary.
func (p *Pairs) Left(i int) *Cell {
	if i <= 0 || i >= len(p.cells) {
		return nil
	}
	return &p.cells[i-1]
}

// Right returns the right neighbour of cell i, or nil at the right boundary.
func (p *Pairs) Right(i int) *Cell {
	if i < 0 || i >= len(p.cells)-1 {
		return nil
	}
	return &p.cells[i+1]
}

// Values returns the canonical-slot extraction in cell order.
func (p *Pairs) Values() []int64 {
	out := make([]int64, len(p.cells))
	for i := range p.cells {
		out[i] = p.cells[i].Canonical().Value
	}
	return out
}

// Held returns the marked elements in cell order, left slot first. It is a
// permutation of the input after every round, while the canonical extraction
// may read a shadow copy in place of a value that has not settled yet. After
// the final round both reads are the sorted input.
func (p *Pairs) Held() []int64 {
	out := make([]int64, 0, len(p.cells))
	for i := range p.cells {
		c := &p.cells[i]
		if c.Left.Marked {
			out = append(out, c.Left.Value)
		}
		if c.Right.Marked {
			out = append(out, c.Right.Value)
		}
	}
	return out
}

// Sorted reports whether the canonical extraction is non-decreasing.
// Sentinels are skipped.
func (p *Pairs) Sorted() bool {
	var prev Element
	seen := false
	for i := range p.cells {
		e := p.cells[i].Canonical()
		if e.Sentinel() {
			continue
		}
		if seen && e.Less(prev) {
			return false
		}
		prev, seen = e, true
	}
	return true
}

// States returns a copy of every cell.
func (p *Pairs) States() []CellState {
	out := make([]CellState, len(p.cells))
	for i := range p.cells {
		c := &p.cells[i]
		out[i] = CellState{Index: c.Index, Left: c.Left, Right: c.Right, Area: c.Area}
	}
	return out
}

// Verify checks the Sasaki invariants:
//   - the sentinels are still at the two ends of the chain
//   - no canonical slot holds a sentinel
//   - the marked elements are exactly the input multiset
//   - cell 0 has Area -1 and every other cell j has Area equal to the number
//     of marked elements held by cells 0..j-1, minus j
//
// The last rule is the area bookkeeping: every marked element that crossed the
// boundary into cell j from the left lowered its area by one, and every marked
// element that left cell j to the left raised it by one.
func (p *Pairs) Verify() error {
	n := len(p.cells)
	if p.cells[0].Left.Bound != NegInf {
		return errors.New(errors.ErrCodeInvariant, "cell 0 lost its low sentinel")
	}
	if n > 1 && p.cells[n-1].Right.Bound != PosInf {
		return errors.New(errors.ErrCodeInvariant, "cell %d lost its high sentinel", n-1)
	}
	if p.cells[0].Area != -1 {
		return errors.New(errors.ErrCodeInvariant, "cell 0 has area %d, want -1", p.cells[0].Area)
	}

	marked := make([]int64, 0, n)
	for j := range p.cells {
		c := &p.cells[j]
		if c.Canonical().Sentinel() {
			return errors.New(errors.ErrCodeInvariant, "cell %d reads a sentinel as its value", j)
		}
		if j > 0 {
			if want := len(marked) - j; c.Area != want {
				return errors.New(errors.ErrCodeInvariant, "cell %d has area %d, want %d", j, c.Area, want)
			}
		}
		for _, e := range [2]Element{c.Left, c.Right} {
			if e.Marked {
				if e.Sentinel() {
					return errors.New(errors.ErrCodeInvariant, "cell %d holds a marked sentinel", j)
				}
				marked = append(marked, e.Value)
			}
		}
	}

	slices.Sort(marked)
	if !slices.Equal(marked, p.want) {
		return errors.New(errors.ErrCodeInvariant, "marked elements no longer match the input multiset")
	}
	return nil
}
