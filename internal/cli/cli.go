package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mab8192/tcgprint/pkg/buildinfo"
	"github.com/mab8192/tcgprint/pkg/cache"
	"github.com/mab8192/tcgprint/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "tcgprint"

	// envCacheURL selects a redis tile cache instead of the file cache.
	envCacheURL = "TCGPRINT_CACHE_URL"
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
// Run without a subcommand, tcgprint builds a PDF from the input directory.
func (c *CLI) RootCommand() *cobra.Command {
	flags := newSheetFlags()

	root := &cobra.Command{
		Use:   "tcgprint",
		Short: "tcgprint lays out card images on printable PDF sheets",
		Long: `tcgprint arranges a directory of card images on a grid of
fixed-size pages and writes them to a multi-page PDF ready for printing
and cutting.

The grid is computed from the page size, card size, scale and margin.
Rows and columns are auto-computed unless set explicitly.`,
		Example: `  tcgprint -i cards -o deck.pdf
  tcgprint -i proxies --page-width 8.27 --page-height 11.69 --scale 1
  tcgprint --config a4.toml --workers 4 --progress`,
		Version:       buildinfo.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), opts, flags)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	flags.bind(root.Flags())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool, cacheURL string) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx, noCache, cacheURL)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

// newCache picks the tile cache: none, redis when a URL is given (flag or
// TCGPRINT_CACHE_URL), otherwise the file cache under cacheDir. A file cache
// that cannot be created disables caching instead of failing the run.
func (c *CLI) newCache(ctx context.Context, noCache bool, cacheURL string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cacheURL == "" {
		cacheURL = os.Getenv(envCacheURL)
	}
	if cacheURL != "" {
		c.Logger.Debug("using redis tile cache")
		return cache.NewRedisCache(ctx, cacheURL)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("tile cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tcgprint/).
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
