package strategy

import (
	"context"
	"strings"

	"github.com/matzehuels/sortnet/pkg/engine"
	"github.com/matzehuels/sortnet/pkg/errors"
	"github.com/matzehuels/sortnet/pkg/network"
)

// Kind names a strategy.
type Kind string

const (
	KindAlternate Kind = "alternate"
	KindOddEven   Kind = "oddeven"
	KindSasaki    Kind = "sasaki"
)

var descriptions = map[Kind]string{
	KindAlternate: "time-optimal triad sort, n-1 rounds, lock-free",
	KindOddEven:   "odd-even transposition, at most 2n phases, pairwise locks",
	KindSasaki:    "time-optimal two-slot sort with area counters, n-1 rounds",
}

// Kinds returns every strategy in display order.
func Kinds() []Kind {
	return []Kind{KindAlternate, KindOddEven, KindSasaki}
}

// Description returns a one-line summary of k.
func (k Kind) Description() string { return descriptions[k] }

// ParseKind resolves a strategy name, ignoring case and surrounding space.
// "odd-even" is accepted as an alias for "oddeven".
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "odd-even" {
		name = string(KindOddEven)
	}
	for _, k := range Kinds() {
		if string(k) == name {
			return k, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidStrategy,
		"unknown strategy %q (want one of: alternate, oddeven, sasaki)", s)
}

// Run builds the network kind operates on and sorts values with it.
func Run(ctx context.Context, kind Kind, values []int64, opts engine.Options) (*engine.RoundLog, error) {
	switch kind {
	case KindAlternate, KindOddEven:
		l, err := network.NewLine(values)
		if err != nil {
			return nil, err
		}
		if kind == KindAlternate {
			return engine.Run(ctx, l, Alternate{}, opts)
		}
		return engine.Run(ctx, l, OddEven{}, opts)
	case KindSasaki:
		p, err := network.NewPairs(values)
		if err != nil {
			return nil, err
		}
		return engine.Run(ctx, p, Sasaki{}, opts)
	default:
		return nil, errors.New(errors.ErrCodeInvalidStrategy, "unknown strategy %q", kind)
	}
}
