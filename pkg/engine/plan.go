package engine

import "github.com/matzehuels/sortnet/pkg/errors"

// Group is one concurrent task of a step: the processors it touches and the
// operation to perform on them.
type Group struct {
	Members []int
	Apply   func() error
}

// Step is a set of groups that run concurrently and are joined together.
type Step struct {
	Name   string
	Groups []Group

	// Locked marks steps whose groups may share processors because every
	// group serialises through network.WithLocks. Unlocked steps must be
	// made of disjoint groups.
	Locked bool
}

// Plan is the ordered list of steps that make up one round.
type Plan struct {
	Steps []Step
}

// Single returns a plan made of one step.
func Single(step Step) Plan {
	return Plan{Steps: []Step{step}}
}

// checkDisjoint verifies that no processor index appears in two groups of
// step, and that every member lies inside a network of n processors.
func checkDisjoint(step Step, n int) error {
	owner := make([]int, n)
	for gi, g := range step.Groups {
		for _, m := range g.Members {
			if m < 0 || m >= n {
				return errors.New(errors.ErrCodeInvariant,
					"step %s: group %d touches processor %d outside [0, %d)", step.Name, gi, m, n)
			}
			if owner[m] != 0 {
				return errors.New(errors.ErrCodeInvariant,
					"step %s: processor %d shared by groups %d and %d", step.Name, m, owner[m]-1, gi)
			}
			owner[m] = gi + 1
		}
	}
	return nil
}

// pairs collects the members of every multi-processor group in plan.
func (p Plan) pairs() [][]int {
	var out [][]int
	for _, s := range p.Steps {
		for _, g := range s.Groups {
			if len(g.Members) > 1 {
				out = append(out, g.Members)
			}
		}
	}
	return out
}
