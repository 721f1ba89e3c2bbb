package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/sortnet/pkg/engine"
	"github.com/matzehuels/sortnet/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the simulator over HTTP.

  GET  /healthz          liveness probe
  GET  /v1/strategies    available strategies
  POST /v1/runs          run a simulation
  GET  /v1/runs          recent runs
  GET  /v1/runs/{id}     one recorded run

All requests share one worker pool of --workers goroutines.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.settings().Server.Addr
			}
			if !cmd.Flags().Changed("workers") {
				workers = c.settings().Run.Workers
			}

			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			if runner.Executor != nil {
				runner.Executor.Close()
			}
			pool, err := engine.NewPoolExecutor(workers)
			if err != nil {
				return err
			}
			runner.Executor = pool

			return server.New(runner, loggerFromContext(ctx)).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker pool size (default from config, 0 = GOMAXPROCS)")
	return cmd
}
