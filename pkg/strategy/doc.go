// Package strategy implements the three sorting strategies run by the engine.
//
//   - [Alternate]: triads of neighbouring processors sorted in place, centers
//     three apart, the offset rotating every round. n-1 rounds, no locks.
//   - [OddEven]: odd-even transposition. Phases alternate between the pairs
//     (0,1),(2,3),… and (1,2),(3,4),…; each pair is compared under its two
//     locks. Stops when sorted or after 2n phases.
//   - [Sasaki]: two slots per processor with sentinels at both ends and an
//     area counter that tracks marked elements crossing each boundary.
//     n-1 rounds; the output is read from each cell's canonical slot.
//
// [Run] picks the right network for a [Kind] and drives it through the engine.
package strategy
