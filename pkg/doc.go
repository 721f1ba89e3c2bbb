// Package pkg provides the libraries behind sortnet, a simulator for parallel
// sorting networks.
//
// # Overview
//
// A network is a line of processors, each holding part of the sequence. A
// strategy decides, round by round, which neighbouring processors form a
// group; the groups of a step run in parallel and compare-exchange their
// values. The packages are organized in three layers:
//
//  1. Simulation: [network] (processor and cell storage), [engine] (round
//     scheduler and executors), [strategy] (Alternate, OddEven, Sasaki)
//  2. Services: [sim] (runs with caching and history), [cache], [history],
//     [diagram], [server]
//  3. Support: [config], [errors], [observability], [buildinfo]
//
// # Data flow
//
//	sim.Options
//	     ↓
//	[network] Input.Resolve (explicit values or seeded random draw)
//	     ↓
//	[strategy] Run → [engine] Run (rounds of parallel steps)
//	     ↓
//	engine.RoundLog → sim.Result → cache, history, CLI, HTTP API
//
// # Quick Start
//
//	rl, err := strategy.Run(ctx, strategy.KindOddEven, []int64{5, 3, 8, 1, 9, 2}, engine.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(rl.Values, rl.Rounds) // [1 2 3 5 8 9] 4
package pkg
