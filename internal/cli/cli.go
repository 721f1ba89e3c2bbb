// Package cli implements the sortnet command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sortnet/pkg/buildinfo"
	"github.com/matzehuels/sortnet/pkg/cache"
	"github.com/matzehuels/sortnet/pkg/config"
	"github.com/matzehuels/sortnet/pkg/engine"
	"github.com/matzehuels/sortnet/pkg/history"
	"github.com/matzehuels/sortnet/pkg/sim"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "sortnet"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by --config; empty means config.DefaultPath().
	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "sortnet simulates parallel sorting networks",
		Long: `sortnet simulates sorting networks of processors arranged in a line.

Every round, disjoint groups of neighbouring processors compare and exchange
their values in parallel. Three strategies are available: alternate (triads,
n-1 rounds), oddeven (odd-even transposition, up to 2n phases) and sasaki
(two values per processor, n-1 rounds).`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.diagramCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file. A missing default file yields the
// defaults; a missing file named with --config is an error.
func (c *CLI) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.LoadOrDefault(config.DefaultPath())
	}
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// settings returns the loaded configuration, or the defaults before loading.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a sim runner from the configuration. Unreachable cache or
// history backends are logged and skipped: a run never fails because of them.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*sim.Runner, error) {
	cfg := c.settings()

	var rc cache.Cache
	if !noCache {
		var err error
		if rc, err = c.openCache(ctx); err != nil {
			c.Logger.Warn("cache disabled", "backend", cfg.Cache.Backend, "error", err)
			rc = nil
		}
	}

	store, err := c.openHistory(ctx)
	if err != nil {
		c.Logger.Warn("run history disabled", "backend", cfg.History.Backend, "error", err)
		store = nil
	}

	runner := sim.NewRunner(rc, nil, store, c.Logger)
	if runner.TTL, err = cfg.CacheTTL(); err != nil {
		return nil, err
	}
	if runner.Executor, err = newExecutor(cfg.Run); err != nil {
		runner.Close()
		return nil, err
	}
	return runner, nil
}

// openCache opens the configured cache backend.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	cfg := c.settings().Cache
	switch cfg.Backend {
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	case config.BackendFile:
		return cache.NewFileCache(cfg.Dir)
	default:
		return cache.NewNullCache(), nil
	}
}

// openHistory opens the configured run history store. It returns nil for the
// "none" backend.
func (c *CLI) openHistory(ctx context.Context) (history.Store, error) {
	cfg := c.settings().History
	switch cfg.Backend {
	case config.BackendMongo:
		return history.NewMongoStore(ctx, history.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
	case config.BackendFile:
		return history.NewFileStore(cfg.Dir)
	case config.BackendMemory:
		return history.NewMemoryStore(), nil
	default:
		return nil, nil
	}
}

// newExecutor returns the step executor selected by the run config, or nil
// for the engine default.
func newExecutor(cfg config.RunConfig) (engine.Executor, error) {
	if cfg.Pool {
		pool, err := engine.NewPoolExecutor(cfg.Workers)
		if err != nil {
			return nil, err
		}
		return pool, nil
	}
	if cfg.Workers > 0 {
		return engine.NewGoroutineExecutor(cfg.Workers), nil
	}
	return nil, nil
}
