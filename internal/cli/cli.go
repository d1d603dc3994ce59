// Package cli implements the streamlytics command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/streamlytics/streamlytics/pkg/buildinfo"
	"github.com/streamlytics/streamlytics/pkg/cache"
	"github.com/streamlytics/streamlytics/pkg/config"
	"github.com/streamlytics/streamlytics/pkg/history"
	"github.com/streamlytics/streamlytics/pkg/spotify"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "streamlytics"

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
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "streamlytics",
		Short:        "Streamlytics turns Spotify listening data into posters and stats",
		Long:         `Streamlytics fetches album cover art and listening history from the Spotify Web API and generates poster, billboard, and collage images from folders of cover art.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default is the XDG config dir)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	// Register all subcommands
	root.AddCommand(c.posterCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.fontsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Wiring
// =============================================================================

// loadConfig loads the application configuration honoring --config.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// newSpotifyClient builds the API client from configuration.
func (c *CLI) newSpotifyClient(ctx context.Context, cfg config.Config, noCache bool) (*spotify.Client, error) {
	ca, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	opts := []spotify.Option{
		spotify.WithCache(ca),
		spotify.WithLogger(c.Logger),
	}
	if cfg.Spotify.UserToken != "" {
		opts = append(opts, spotify.WithUserToken(cfg.Spotify.UserToken))
	}
	if cfg.Cache.TTLHours > 0 {
		opts = append(opts, spotify.WithCacheTTL(time.Duration(cfg.Cache.TTLHours)*time.Hour))
	}
	return spotify.New(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, opts...), nil
}

// newCache selects the cache backend. A file cache that cannot be set up
// degrades to no caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Backend == config.CacheBackendNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.Backend == config.CacheBackendRedis {
		return cache.NewRedisCacheURL(ctx, cfg.Cache.RedisURL)
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// newHistoryStore selects the history backend.
func (c *CLI) newHistoryStore(ctx context.Context, cfg config.Config) (history.Store, error) {
	if cfg.History.Backend == config.HistoryBackendMongo {
		return history.NewMongoStore(ctx, history.MongoConfig{
			URI:        cfg.History.MongoURI,
			Database:   cfg.History.MongoDatabase,
			Collection: cfg.History.MongoCollection,
		})
	}
	path := cfg.History.Path
	if path == "" {
		dir, err := dataDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "history.jsonl")
	}
	return history.NewFileStore(path)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/streamlytics/).
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

// dataDir returns the data directory using XDG standard (~/.local/share/streamlytics/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}
