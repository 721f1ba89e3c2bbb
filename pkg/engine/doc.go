// Package engine drives sorting strategies over a processor network in
// synchronized rounds.
//
// # Rounds, Steps and Groups
//
// A strategy describes each round as a [Plan]: an ordered list of [Step]s,
// each holding the [Group]s of processors to operate on. All groups of a step
// run concurrently through an [Executor]; the step ends with a full join, and
// the next step (or round) never starts before that join. Within a step there
// is no defined order between groups, so a group must never depend on another
// group's result.
//
// Steps come in two kinds. Unlocked steps must consist of pairwise disjoint
// groups; the engine verifies this when verification is enabled. Locked steps
// may share processors between groups, and every group must then acquire its
// processors through network.WithLocks.
//
// # Termination
//
// A strategy's [Schedule] fixes the round budget. Fixed schedules run exactly
// MaxRounds rounds. Bounded schedules (UntilSorted) consult the strategy's
// sortedness oracle before every Cycle rounds and stop as soon as it reports
// sorted; when MaxRounds is reached first the run is returned with
// Converged=false. Non-convergence is a result, not an error.
//
// # Verification
//
// Unless Options.SkipVerify is set, the network's Verify method runs before the
// first round and after every round. Any violation aborts the run with an
// INVARIANT_VIOLATION error; such errors mean the engine or a strategy is
// broken and must not be retried.
//
// # Usage
//
//	line, _ := network.NewLine([]int64{5, 3, 8, 1, 9, 2})
//	rl, err := engine.Run(ctx, line, strategy.Alternate{}, engine.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(rl.Values, rl.Rounds) // [1 2 3 5 8 9] 5
package engine
