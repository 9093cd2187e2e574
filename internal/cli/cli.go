package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/patrol/pkg/buildinfo"
	"github.com/matzehuels/patrol/pkg/cache"
	"github.com/matzehuels/patrol/pkg/config"
	"github.com/matzehuels/patrol/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "patrol"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
//
// Commands are built as methods on *CLI so they share one logger and one
// loaded Config. The config is loaded in the root command's
// PersistentPreRunE, so command constructors must not read it; only RunE
// functions may.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a CLI logging to w at level, with default configuration.
// Callers normally go through Execute, which passes stderr so that stdout
// carries only command output.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Patrol simulates a guard walking a grid and finds loop-inducing obstacles",
		Long: `Patrol reads a grid map with a single guard, walks the guard until it leaves
the map, and counts the cells where one extra obstacle would trap it in a loop.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/patrol/config.toml)")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies --verbose, loads the config file and attaches the logger to
// the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, keyer, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, keyer, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

// newCache opens the backend named in the config. A file cache that cannot
// be created degrades to no caching with a warning.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	cc := c.Config.Cache
	if noCache || cc.Backend == config.BackendNone {
		return cache.NewNullCache(), nil, nil
	}
	if cc.Backend == config.BackendRedis {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cc.Redis.Addr,
			Password: cc.Redis.Password,
			DB:       cc.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Debug("using redis cache", "addr", cc.Redis.Addr, "db", cc.Redis.DB)
		return rc, cache.NewScopedKeyer(nil, cc.Redis.Prefix), nil
	}

	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), nil, nil
	}
	c.Logger.Debug("using file cache", "dir", dir)
	return fc, nil, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, defaulting to the XDG
// location (~/.cache/patrol/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return config.CacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions merges config values with flags that were set explicitly.
// A flag left at its default never overrides the config file, so
// `workers = 4` in config.toml holds unless -w is passed:
//
//	opts := c.pipelineOptions(cmd, f.workers, f.maxSteps, f.refresh)
func (c *CLI) pipelineOptions(cmd *cobra.Command, workers, maxSteps int, refresh bool) pipeline.Options {
	opts := pipeline.Options{
		Workers:  c.Config.Workers,
		MaxSteps: c.Config.MaxSteps,
		Refresh:  refresh,
		Logger:   loggerFromContext(cmd.Context()),
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = workers
	}
	if cmd.Flags().Changed("max-steps") {
		opts.MaxSteps = maxSteps
	}
	return opts
}
