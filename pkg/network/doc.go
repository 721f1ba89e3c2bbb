// Package network provides the linear processor networks that sorting
// strategies operate on.
//
// # Overview
//
// A network is an ordered chain of identical processors. Processor i can only
// talk to processors i-1 and i+1; neighbours are found by index arithmetic and
// never by pointers, and the network exclusively owns every processor it holds.
// Strategies mutate slot contents in place; adjacency never changes.
//
// Two shapes are provided:
//
//   - [Line]: one value per [Processor]. Used by the Alternate and OddEven strategies.
//   - [Pairs]: two [Element] slots plus an area counter per [Cell]. Used by the
//     Sasaki strategy.
//
// Both are built from an input sequence with [NewLine] and [NewPairs]. The input
// itself comes from [Input.Resolve], which either returns an explicit sequence or
// draws a seeded random one:
//
//	values, err := network.Input{Count: 10, Min: 0, Max: 999, Seed: 42}.Resolve()
//	line, err := network.NewLine(values)
//
// # Sortedness Oracle
//
// [Line.Sorted] and [Pairs.Sorted] scan the network end to end and report whether
// the logical value sequence is non-decreasing. [Line.Values] and [Pairs.Values]
// return that sequence; for [Pairs] it is the canonical-slot extraction, which
// reads the right slot of a cell whose area is -1 and the left slot otherwise.
//
// # Guarded Access
//
// Strategies that touch two processors at once acquire them through [WithLocks],
// which takes exclusive access in strictly ascending index order and releases in
// reverse order on every exit path. Acquiring out of order is reported as a
// lock-order violation instead of being attempted, so no cyclic wait can ever be
// constructed.
//
// # Verification
//
// [Line.Verify] and [Pairs.Verify] re-check the structural invariants of a
// network: the held input values are a permutation of the input multiset and,
// for [Pairs], every area counter matches the number of marked elements that have
// crossed into or out of its cell. A failed check means the engine is broken and
// is reported with the INVARIANT_VIOLATION error code.
//
// # Concurrency
//
// Slot contents are not synchronised by the network itself. The scheduler
// guarantees that tasks within one step touch disjoint slots or serialise through
// [WithLocks], and that steps are separated by a full join.
package network
