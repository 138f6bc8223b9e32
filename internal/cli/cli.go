package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/buildinfo"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/cache"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/harness"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/loader"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/report"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/validate"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "armschema"

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
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "armschema",
		Short:        "Armschema validates Azure Resource Manager schema corpora",
		Long:         `Armschema is a CLI tool for checking corpora of Azure Resource Manager JSON Schema documents: meta-schema conformance, compilability, reference cycles and schema test vectors.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to armschema.toml (default: ./armschema.toml)")

	// Register all subcommands
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.cyclesCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.lintCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner assembles the loader, engine and harness for a corpus run.
func (c *CLI) newRunner(ctx context.Context, cfg Config, noCache bool, onResult func(report.DocumentResult)) (*harness.Runner, cache.Cache, error) {
	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, nil, err
	}

	opts := harness.Options{
		CorpusRoot:   cfg.CorpusRoot,
		Workers:      cfg.Workers,
		KnownCyclic:  cfg.KnownCyclic,
		KnownFailing: cfg.KnownFailing,
		Cache:        store,
		OnResult:     onResult,
	}
	return harness.New(c.newEngine(cfg), opts), store, nil
}

// newCache selects the cache backend from config. Backend failures fall
// back to a null cache rather than failing the run.
func (c *CLI) newCache(ctx context.Context, cfg Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Backend == "none" {
		return cache.NewNullCache(), nil
	}

	if cfg.Cache.Backend == "redis" {
		store, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
		if err != nil {
			c.Logger.Warn("redis unavailable, caching disabled", "addr", cfg.Cache.RedisAddr, "err", err)
			return cache.NewNullCache(), nil
		}
		return store, nil
	}

	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newEngine builds a standalone engine for single-document commands.
func (c *CLI) newEngine(cfg Config) *validate.Engine {
	return validate.NewEngine(loader.New(loader.Options{
		MirrorPrefix: cfg.MirrorPrefix,
		CorpusRoot:   cfg.CorpusRoot,
	}))
}

// loadConfig reads the config selected by --config.
func (c *CLI) loadConfig() (Config, error) {
	return LoadConfig(c.configPath)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/armschema/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
