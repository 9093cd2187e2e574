package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/patrol/pkg/cache"
	"github.com/matzehuels/patrol/pkg/config"
)

// cacheCommand creates the cache management command.
//
// The cache holds finished analyses keyed by a hash of the map text and the
// options that change the answer, so re-solving an unchanged map is a file
// read. Subcommands:
//   - clear: remove cached results from the file backend
//   - path: print the cache directory
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
// Only files the file backend wrote are removed, so a cache.dir that points
// at a shared directory keeps its other contents. The redis backend cannot
// be cleared from here; its entries expire after the configured TTL.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if c.Config.Cache.Backend == config.BackendRedis {
				printWarning(out, "Redis entries expire after %s; clear them on the server", c.Config.Cache.TTL.Duration)
				return nil
			}

			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			n, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if n == 0 {
				printInfo(out, "Cache is empty")
				return nil
			}
			printSuccess(out, "Cleared %d cached results", n)
			printDetail(out, "Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
// The path honours cache.dir from the config file, then $XDG_CACHE_HOME.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
