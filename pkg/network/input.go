package network

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/sortnet/pkg/errors"
)

// Input describes where a network's initial values come from: either an
// explicit sequence or a seeded random draw of Count values in [Min, Max].
type Input struct {
	Values []int64
	Count  int
	Min    int64
	Max    int64
	Seed   uint64
}

// Resolve returns the initial sequence. Explicit values win over a random
// request; when both are given, Count must match len(Values). Random draws
// are deterministic for a given seed.
func (in Input) Resolve() ([]int64, error) {
	if len(in.Values) > 0 {
		if err := errors.ValidateValues(in.Values, in.Count); err != nil {
			return nil, err
		}
		return slices.Clone(in.Values), nil
	}
	if err := errors.ValidateSize(in.Count); err != nil {
		return nil, err
	}
	if err := errors.ValidateRange(in.Min, in.Max); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(in.Seed, in.Seed^0xdeadbeef))
	span := uint64(in.Max) - uint64(in.Min) + 1 // 0 when the range covers all of int64

	out := make([]int64, in.Count)
	for i := range out {
		if span == 0 {
			out[i] = int64(rng.Uint64())
			continue
		}
		out[i] = in.Min + int64(rng.Uint64N(span))
	}
	return out, nil
}
