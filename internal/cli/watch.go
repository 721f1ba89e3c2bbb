package cli

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		flags    runFlags
		interval time.Duration
		autoplay bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Replay a run interactively, one round at a time",
		Long: `Run a strategy with tracing enabled and replay it in the terminal.

The processors of each round's groups are highlighted; neighbouring groups
alternate colors.`,
		Example: `  sortnet watch -s oddeven --values 5,3,8,1,9,2
  sortnet watch -s sasaki -n 12 --autoplay --interval 300ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			opts, err := flags.resolve(cmd, c.settings())
			if err != nil {
				return err
			}
			opts.Trace = true
			opts.Logger = loggerFromContext(ctx)

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Execute(ctx, opts)
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewReplayModel(res, interval, autoplay),
				tea.WithContext(ctx),
				tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	flags.bind(cmd, true)
	cmd.Flags().DurationVar(&interval, "interval", 500*time.Millisecond, "delay between rounds while playing")
	cmd.Flags().BoolVar(&autoplay, "autoplay", false, "start playing immediately")
	return cmd
}
