package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sortnet/pkg/cache"
	"github.com/matzehuels/sortnet/pkg/config"
	"github.com/matzehuels/sortnet/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			cfg := c.settings().Cache

			if cfg.Backend == config.BackendNone {
				printInfo(out, "Cache is disabled")
				return nil
			}

			rc, err := c.openCache(ctx)
			if err != nil {
				return err
			}
			defer rc.Close()

			clearer, ok := rc.(cache.Clearer)
			if !ok {
				return errors.New(errors.ErrCodeInvalidConfig, "cache backend %q cannot be cleared", cfg.Backend)
			}
			count, err := clearer.Clear(ctx)
			if err != nil {
				return err
			}

			printSuccess(out, "Cleared %d cached results", count)
			printDetail(out, "%s", cacheLocation(cfg))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where results are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(c.settings().Cache))
			return nil
		},
	}
}

// cacheLocation describes where the configured backend keeps its entries.
func cacheLocation(cfg config.CacheConfig) string {
	switch cfg.Backend {
	case config.BackendRedis:
		return "redis://" + cfg.Redis.Addr
	case config.BackendFile:
		return cfg.Dir
	default:
		return cfg.Backend
	}
}
