package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sortnet/pkg/sim"
)

// compareCommand creates the compare command.
func (c *CLI) compareCommand() *cobra.Command {
	var (
		flags  runFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run every strategy on the same input",
		Example: `  sortnet compare --values 5,3,8,1,9,2
  sortnet compare -n 500 --seed 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			opts, err := flags.resolve(cmd, c.settings())
			if err != nil {
				return err
			}
			opts.Logger = loggerFromContext(ctx)

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			spin := newSpinnerWithContext(ctx, cmd.ErrOrStderr(), "Running strategies...")
			spin.Start()
			results, err := runner.Compare(ctx, opts)
			spin.Stop()
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(out, results)
			}
			printKeyValue(out, "Input", formatValues(results[0].Input))
			fmt.Fprintln(out, compareTable(results))
			for _, r := range results {
				if err := checkOutcome(r.Strategy, r.Sorted, r.Converged, r.Rounds); err != nil {
					return err
				}
			}
			return nil
		},
	}

	flags.bind(cmd, false)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the results as JSON")
	return cmd
}

// compareTable renders one row per strategy.
func compareTable(results []*sim.Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := iconFresh
		if r.CacheHit {
			status = iconCached
		}
		rows = append(rows, []string{
			r.Strategy,
			strconv.Itoa(r.Rounds),
			yesNo(r.Sorted),
			yesNo(r.Converged),
			r.Stats.Duration.String(),
			status,
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Strategy", "Rounds", "Sorted", "Converged", "Time", "Cache").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(results) {
				return base
			}
			r := results[row]
			switch {
			case col == 2 && r.Sorted, col == 3 && r.Converged:
				return base.Foreground(colorGreen)
			case col == 2, col == 3:
				return base.Foreground(colorRed)
			case col == 5 && r.CacheHit:
				return base.Foreground(colorGreen)
			case col >= 4:
				return base.Foreground(colorGray)
			}
			return base
		}).
		String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
