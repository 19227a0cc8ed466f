package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ldgraph/pkg/cache"
	"github.com/matzehuels/ldgraph/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the capture, graph, layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := c.loadConfig()
			if err != nil {
				return err
			}
			if f.Cache.Backend != config.CacheFile {
				printWarning("Cache backend %q is not cleared by ldgraph; entries expire by TTL", f.Cache.Backend)
				return nil
			}

			dir, err := fileCacheDir(f.Cache)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := c.loadConfig()
			if err != nil {
				return err
			}
			switch f.Cache.Backend {
			case config.CacheRedis:
				fmt.Fprintln(cmd.OutOrStdout(), f.Cache.RedisURL)
			case config.CacheNone:
				fmt.Fprintln(cmd.OutOrStdout(), "(disabled)")
			default:
				dir, err := fileCacheDir(f.Cache)
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
			}
			return nil
		},
	}
}

// fileCacheDir returns the configured directory, or the XDG default.
func fileCacheDir(s config.CacheSettings) (string, error) {
	if s.Dir != "" {
		return s.Dir, nil
	}
	return cacheDir()
}
