package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sortnet/pkg/engine"
	"github.com/matzehuels/sortnet/pkg/errors"
	"github.com/matzehuels/sortnet/pkg/network"
	"github.com/matzehuels/sortnet/pkg/sim"
	"github.com/matzehuels/sortnet/pkg/strategy"
)

type runOptions struct {
	runFlags
	rounds     bool
	debugCells bool
	trace      bool
	json       bool
}

// runCommand creates the run command.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sort a sequence with one strategy",
		Long: `Sort a sequence on a simulated network and report the outcome.

Without --values, --size random values are drawn from [--min, --max] with
--seed, so runs are reproducible. With --rounds the network is printed after
every round. A run that reaches the round cap unsorted prints a warning; a
strategy that finishes its fixed schedule unsorted is an error.`,
		Example: `  sortnet run --values 5,3,8,1,9,2 --rounds
  sortnet run -s oddeven -n 1000 --seed 7
  sortnet run -s sasaki --values "4 2 7 1" --debug-cells`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRun(cmd, &opts)
		},
	}

	opts.bind(cmd, true)
	cmd.Flags().BoolVar(&opts.rounds, "rounds", false, "print the network after every round")
	cmd.Flags().BoolVar(&opts.debugCells, "debug-cells", false, "print every sasaki cell after every round")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "include the round trace in --json output")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")

	return cmd
}

func (c *CLI) runRun(cmd *cobra.Command, opts *runOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	simOpts, err := opts.resolve(cmd, c.settings())
	if err != nil {
		return err
	}
	if opts.debugCells {
		return c.runCells(ctx, out, simOpts)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	simOpts.Logger = loggerFromContext(ctx)
	simOpts.Trace = opts.trace
	if opts.rounds && !opts.json {
		// Cached results only replay rounds when the trace was stored.
		simOpts.Trace = true
		simOpts.Observer = func(s engine.Snapshot) { printRound(out, s.Round, s.Values) }
	}

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, simOpts)
	if err != nil {
		return err
	}

	if opts.json {
		if err := writeJSON(out, res); err != nil {
			return err
		}
		return checkOutcome(res.Strategy, res.Sorted, res.Converged, res.Rounds)
	}

	printKeyValue(out, "Strategy", res.Strategy)
	printKeyValue(out, "Input", formatValues(res.Input))
	printKeyValue(out, "Output", formatValues(res.Output))
	printOutcome(out, res.Sorted, res.Converged, res.Rounds)
	printStats(out, res.Stats.Size, res.Rounds, prog.elapsed(), res.CacheHit)
	return checkOutcome(res.Strategy, res.Sorted, res.Converged, res.Rounds)
}

// runCells runs the sasaki network directly, bypassing cache and history, so
// that the cells can be printed between rounds.
func (c *CLI) runCells(ctx context.Context, out io.Writer, opts sim.Options) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if opts.Kind() != strategy.KindSasaki {
		return errors.New(errors.ErrCodeInvalidInput, "--debug-cells needs the sasaki strategy, got %s", opts.Strategy)
	}
	values, err := opts.Input().Resolve()
	if err != nil {
		return err
	}
	p, err := network.NewPairs(values)
	if err != nil {
		return err
	}
	exec, err := newExecutor(c.settings().Run)
	if err != nil {
		return err
	}
	if exec != nil {
		defer exec.Close()
	}

	start := time.Now()
	rl, err := engine.Run(ctx, p, strategy.Sasaki{}, engine.Options{
		Executor: exec,
		Logger:   loggerFromContext(ctx),
		Observer: func(s engine.Snapshot) {
			printRound(out, s.Round, s.Values)
			printCells(out, p.States())
		},
	})
	if err != nil {
		return err
	}
	printOutcome(out, rl.Sorted, rl.Converged, rl.Rounds)
	printStats(out, rl.Size, rl.Rounds, time.Since(start).Round(time.Millisecond), false)
	return checkOutcome(rl.Strategy, rl.Sorted, rl.Converged, rl.Rounds)
}

// printOutcome prints the final sorted or unsorted line of a run.
func printOutcome(w io.Writer, sorted, converged bool, rounds int) {
	switch {
	case sorted:
		printSuccess(w, "Correctly sorted in %d rounds", rounds)
	case !converged:
		printWarning(w, "Not sorted after %d rounds: round cap reached", rounds)
	default:
		printError(w, "Not sorted after %d rounds", rounds)
	}
}

// checkOutcome turns an unsorted network at the end of a fixed schedule into
// an error. Reaching a round cap is reported but is not an error.
func checkOutcome(name string, sorted, converged bool, rounds int) error {
	if sorted || !converged {
		return nil
	}
	return errors.New(errors.ErrCodeInvariant, "%s finished %d rounds without sorting the network", name, rounds)
}

// printCells prints the slots, marks and area counter of every cell.
func printCells(w io.Writer, cells []network.CellState) {
	for _, cell := range cells {
		fmt.Fprintf(w, "  %s (%s, %s) area=%d\n",
			StyleDim.Render(fmt.Sprintf("[%d]", cell.Index)),
			formatElement(cell.Left), formatElement(cell.Right), cell.Area)
	}
}

// formatElement renders a slot; marked elements carry a trailing star.
func formatElement(e network.Element) string {
	switch e.Bound {
	case network.NegInf:
		return "-inf"
	case network.PosInf:
		return "+inf"
	}
	s := fmt.Sprint(e.Value)
	if e.Marked {
		s += "*"
	}
	return s
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// kindNames lists the strategies for help texts and completion.
func kindNames() []string {
	names := make([]string, 0, len(strategy.Kinds()))
	for _, k := range strategy.Kinds() {
		names = append(names, string(k))
	}
	return names
}
