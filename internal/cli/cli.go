package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ldgraph/pkg/buildinfo"
	"github.com/matzehuels/ldgraph/pkg/cache"
	"github.com/matzehuels/ldgraph/pkg/capture"
	"github.com/matzehuels/ldgraph/pkg/config"
	"github.com/matzehuels/ldgraph/pkg/pipeline"
	"github.com/matzehuels/ldgraph/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "ldgraph"

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

	// configPath is set by the --config persistent flag.
	configPath string

	// status receives stage progress lines; it follows the command's
	// error stream.
	status io.Writer
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
		Short: "ldgraph builds, captures and compares schema.org JSON-LD graphs",
		Long: `ldgraph builds the schema.org JSON-LD graph a website emits for each page,
captures the structured data a rendered page actually carries, and compares
captures node by node. Graphs and diffs can be laid out and rendered as SVG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		c.status = cmd.ErrOrStderr()
		return nil
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "site config file (default: ldgraph.{toml,yaml,yml,json} in the working directory)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.captureCommand())
	root.AddCommand(c.diffCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig reads the file named by --config, or the first default config
// file in the working directory. Without either it returns defaults.
func (c *CLI) loadConfig() (*config.File, error) {
	path := c.configPath
	if path == "" {
		found, ok := config.Discover(".")
		if !ok {
			c.Logger.Debug("no config file found, using defaults")
			return config.Default(), nil
		}
		path = found
	}

	f, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", path, "cache", f.Cache.Backend)
	return f, nil
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	f, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := newCache(ctx, f.Cache, noCache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	var keyer cache.Keyer
	if f.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, f.Cache.Prefix)
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func newCache(ctx context.Context, s config.CacheSettings, noCache bool) (cache.Cache, error) {
	if noCache || s.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	if s.Backend == config.CacheRedis {
		return cache.NewRedisCache(ctx, s.RedisURL)
	}

	dir, err := fileCacheDir(s)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// stage starts a status line for one pipeline stage.
func (c *CLI) stage(ctx context.Context, name, subject string) *stage {
	w := c.status
	if w == nil {
		w = os.Stderr
	}
	return startStage(ctx, w, name, subject)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/ldgraph/).
func cacheDir() (string, error) {
	return cache.DefaultDir(appName)
}

// =============================================================================
// Options Helpers
// =============================================================================

// captureOptions builds the capture request for one CLI input.
func captureOptions(target, mode string, inject, refresh bool) pipeline.CaptureOptions {
	return pipeline.CaptureOptions{
		Request: capture.Request{Target: target, Mode: mode, Inject: inject},
		Refresh: refresh,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
