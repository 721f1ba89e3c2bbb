package cli

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sortnet/pkg/config"
	"github.com/matzehuels/sortnet/pkg/errors"
	"github.com/matzehuels/sortnet/pkg/sim"
)

// runFlags are the input and execution flags shared by run, compare, watch
// and diagram. Unset flags fall back to the [run] section of the config file.
type runFlags struct {
	strategy string
	values   string
	size     int
	seed     uint64
	min      int64
	max      int64
	workers  int
	pool     bool
	refresh  bool
	noCache  bool
}

func (f *runFlags) bind(cmd *cobra.Command, withStrategy bool) {
	fs := cmd.Flags()
	if withStrategy {
		fs.StringVarP(&f.strategy, "strategy", "s", "", "strategy ("+strings.Join(kindNames(), ", ")+")")
		_ = cmd.RegisterFlagCompletionFunc("strategy", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return kindNames(), cobra.ShellCompDirectiveNoFileComp
		})
	}
	fs.StringVar(&f.values, "values", "", "initial sequence, comma or space separated (overrides --size)")
	fs.IntVarP(&f.size, "size", "n", 0, "number of random values to draw")
	fs.Uint64Var(&f.seed, "seed", 0, "random seed")
	fs.Int64Var(&f.min, "min", 0, "smallest random value")
	fs.Int64Var(&f.max, "max", 0, "largest random value")
	fs.IntVar(&f.workers, "workers", 0, "goroutines per step (0 = one per group)")
	fs.BoolVar(&f.pool, "pool", false, "run steps on a shared worker pool")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
}

// resolve merges the flags over cfg. Execution flags are written back to
// cfg.Run so that the runner picks them up.
func (f *runFlags) resolve(cmd *cobra.Command, cfg *config.Config) (sim.Options, error) {
	fs := cmd.Flags()
	opts := sim.Options{
		Strategy: cfg.Run.Strategy,
		Seed:     cfg.Run.Seed,
		Min:      sim.Int64(cfg.Run.Min),
		Max:      sim.Int64(cfg.Run.Max),
		Refresh:  f.refresh,
	}
	if fs.Changed("strategy") {
		opts.Strategy = f.strategy
	}
	if fs.Changed("seed") {
		opts.Seed = f.seed
	}
	if fs.Changed("min") {
		opts.Min = sim.Int64(f.min)
	}
	if fs.Changed("max") {
		opts.Max = sim.Int64(f.max)
	}
	if fs.Changed("workers") {
		cfg.Run.Workers = f.workers
	}
	if fs.Changed("pool") {
		cfg.Run.Pool = f.pool
	}

	if f.values != "" {
		values, err := parseValues(f.values)
		if err != nil {
			return opts, err
		}
		opts.Values = values
		if fs.Changed("size") {
			opts.Size = f.size
		}
		return opts, nil
	}

	opts.Size = cfg.Run.Size
	if fs.Changed("size") {
		opts.Size = f.size
	}
	return opts, nil
}

// parseValues parses a list of integers separated by commas or whitespace.
func parseValues(s string) ([]int64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no values in %q", s)
	}
	values := make([]int64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid value %q", f)
		}
		values[i] = v
	}
	return values, nil
}
