package network

import (
	"slices"
	"sync"

	"github.com/matzehuels/sortnet/pkg/errors"
)

// Processor is one position of a [Line]. It holds a single value and its
// fixed index in the chain.
type Processor struct {
	Index int
	Value int64

	mu sync.Mutex
}

// Position returns the processor's index, which orders lock acquisition.
func (p *Processor) Position() int { return p.Index }

func (p *Processor) lock()   { p.mu.Lock() }
func (p *Processor) unlock() { p.mu.Unlock() }

// Line is an array-backed chain of single-value processors.
type Line struct {
	procs []Processor
	want  []int64 // sorted input multiset
}

// NewLine builds a line holding values in order. Processor i receives values[i].
func NewLine(values []int64) (*Line, error) {
	if err := errors.ValidateValues(values, 0); err != nil {
		return nil, err
	}
	l := &Line{
		procs: make([]Processor, len(values)),
		want:  slices.Clone(values),
	}
	slices.Sort(l.want)
	for i, v := range values {
		l.procs[i].Index = i
		l.procs[i].Value = v
	}
	return l, nil
}

// Len returns the number of processors.
func (l *Line) Len() int { return len(l.procs) }

// At returns processor i. It panics if i is out of range.
func (l *Line) At(i int) *Processor { return &l.procs[i] }

// Left returns the left neighbour of processor i, or nil at the left boundary.
func (l *Line) Left(i int) *Processor {
	if i <= 0 || i >= len(l.procs) {
		return nil
	}
	return &l.procs[i-1]
}

// Right returns the right neighbour of processor i, or nil at the right boundary.
func (l *Line) Right(i int) *Processor {
	if i < 0 || i >= len(l.procs)-1 {
		return nil
	}
	return &l.procs[i+1]
}

// Values returns a copy of the processor values in index order.
func (l *Line) Values() []int64 {
	out := make([]int64, len(l.procs))
	for i := range l.procs {
		out[i] = l.procs[i].Value
	}
	return out
}

// Sorted reports whether the values are non-decreasing in index order.
func (l *Line) Sorted() bool {
	for i := 1; i < len(l.procs); i++ {
		if l.procs[i-1].Value > l.procs[i].Value {
			return false
		}
	}
	return true
}

// Verify checks that the line still holds a permutation of its input.
func (l *Line) Verify() error {
	got := l.Values()
	slices.Sort(got)
	if !slices.Equal(got, l.want) {
		return errors.New(errors.ErrCodeInvariant, "line no longer holds its input multiset")
	}
	return nil
}

// IsSorted reports whether values is non-decreasing.
func IsSorted(values []int64) bool {
	return slices.IsSorted(values)
}
