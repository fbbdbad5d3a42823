// Package cli implements the binpatch command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/binpatch/pkg/buildinfo"
	"github.com/matzehuels/binpatch/pkg/cache"
	"github.com/matzehuels/binpatch/pkg/config"
	"github.com/matzehuels/binpatch/pkg/edit/script"
	"github.com/matzehuels/binpatch/pkg/observability"
	"github.com/matzehuels/binpatch/pkg/pipeline"
	"github.com/matzehuels/binpatch/pkg/tools"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "binpatch"

	// defaultScript is the edit script looked up when --script is not given.
	defaultScript = "edits.yaml"
)

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

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newLogger(w, level),
		configPath: config.DefaultFile,
	}
}

// SetLogLevel updates the logger's level. At debug level build events are
// logged through observability hooks as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Install()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "binpatch edits League of Legends bin files and packages them as a mod",
		Long:         `binpatch applies YAML edit scripts to the converted bin documents of game archives, rebuilds the edited bins and packages them as an overlay mod.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultFile, "configuration file")

	root.AddCommand(c.applyCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.File() == "" {
		c.Logger.Debug("no config file, using defaults", "file", c.configPath)
	}
	return cfg, nil
}

func (c *CLI) loadScript(path string) (*script.Script, error) {
	return script.Load(path, script.Options{Logger: c.Logger})
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	tc := &tools.Exec{
		WadTool:  cfg.Paths.WadTool,
		Ritobin:  cfg.Paths.Ritobin,
		ModTools: cfg.Paths.ModTools,
		Logger:   c.Logger,
	}
	var keyer cache.Keyer
	if cfg.Cache.Backend == config.BackendRedis {
		keyer = cache.NewScopedKeyer(nil, appName+":")
	}
	return pipeline.NewRunner(cfg, tc, cc, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
	}
	fc, err := cache.NewFileCache(cfg.CacheDir())
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "dir", cfg.CacheDir(), "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}
