package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sortnet/pkg/errors"
	"github.com/matzehuels/sortnet/pkg/history"
)

// historyCommand creates the run history command.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and show recorded runs",
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())

	return cmd
}

func (c *CLI) historyListCommand() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			store, err := c.requireHistory(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out, recs)
			}
			if len(recs) == 0 {
				printInfo(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, historyTable(recs, time.Now()))
			printNextStep(out, "Show a run", appName+" history show "+recs[0].ID)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", history.DefaultLimit, "maximum number of runs")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the runs as JSON")
	return cmd
}

func (c *CLI) historyShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if err := errors.ValidateRunID(args[0]); err != nil {
				return err
			}
			store, err := c.requireHistory(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out, rec)
			}
			printRecord(out, rec)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run as JSON")
	return cmd
}

// requireHistory opens the configured history store, failing when history is
// disabled.
func (c *CLI) requireHistory(cmd *cobra.Command) (history.Store, error) {
	store, err := c.openHistory(cmd.Context())
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "run history is disabled ([history] backend = %q)", c.settings().History.Backend)
	}
	return store, nil
}

func printRecord(w io.Writer, rec *history.Record) {
	printKeyValue(w, "ID", rec.ID)
	printKeyValue(w, "Strategy", rec.Strategy)
	printKeyValue(w, "Size", strconv.Itoa(rec.Size))
	if rec.Seed != 0 {
		printKeyValue(w, "Seed", strconv.FormatUint(rec.Seed, 10))
	}
	printKeyValue(w, "Input", formatValues(rec.Input))
	printKeyValue(w, "Output", formatValues(rec.Output))
	printKeyValue(w, "Rounds", strconv.Itoa(rec.Rounds))
	printKeyValue(w, "Duration", rec.Duration.String())
	printKeyValue(w, "Created", rec.CreatedAt.Local().Format(time.DateTime))
	printOutcome(w, rec.Sorted, rec.Converged, rec.Rounds)
}

// historyTable renders one row per record.
func historyTable(recs []*history.Record, now time.Time) string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			r.ID,
			r.Strategy,
			strconv.Itoa(r.Size),
			strconv.Itoa(r.Rounds),
			yesNo(r.Sorted),
			formatRelativeTime(r.CreatedAt, now),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Strategy", "Size", "Rounds", "Sorted", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0, 5:
				return base.Foreground(colorGray)
			case 4:
				if row >= 0 && row < len(recs) && !recs[row].Sorted {
					return base.Foreground(colorRed)
				}
				return base.Foreground(colorGreen)
			}
			return base
		}).
		String()
}

func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
