// Package config loads the streamlytics application configuration.
//
// Configuration comes from three layers, later layers winning:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, by default at $XDG_CONFIG_HOME/streamlytics/config.toml
//  3. Environment variables for the Spotify credentials, optionally loaded
//     from a .env file in the working directory
//
// Command-line flags are applied on top by the CLI layer.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/streamlytics/streamlytics/pkg/errors"
)

// Backend names accepted by the cache and history sections.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"

	HistoryBackendFile  = "file"
	HistoryBackendMongo = "mongo"
)

// Environment variables consulted for Spotify credentials. They override
// the TOML file so secrets never need to live in it.
const (
	EnvClientID     = "SPOTIFY_CLIENT_ID"
	EnvClientSecret = "SPOTIFY_CLIENT_SECRET"
	EnvUserToken    = "SPOTIFY_USER_TOKEN"
)

// Config is the full application configuration.
type Config struct {
	Spotify SpotifyConfig `toml:"spotify"`
	Cache   CacheConfig   `toml:"cache"`
	History HistoryConfig `toml:"history"`
	Poster  PosterConfig  `toml:"poster"`
	Server  ServerConfig  `toml:"server"`
}

// SpotifyConfig holds API credentials. UserToken is an already issued
// bearer token for the /me endpoints; the app performs no OAuth flow.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	UserToken    string `toml:"user_token"`
}

// CacheConfig selects the API response cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend"` // file, redis, or none
	Dir      string `toml:"dir"`     // file backend; empty means the XDG cache dir
	RedisURL string `toml:"redis_url"`
	TTLHours int    `toml:"ttl_hours"` // 0 means the default TTL
}

// HistoryConfig selects the listening-history store backend.
type HistoryConfig struct {
	Backend         string `toml:"backend"` // file or mongo
	Path            string `toml:"path"`    // file backend; empty means the XDG data dir
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// PosterConfig holds defaults for poster generation.
type PosterConfig struct {
	OutputDir  string `toml:"output_dir"`
	Background string `toml:"background"`
	FontName   string `toml:"font"`
	LogoPath   string `toml:"logo"`
	Quality    int    `toml:"quality"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			Backend: CacheBackendFile,
		},
		History: HistoryConfig{
			Backend:         HistoryBackendFile,
			MongoDatabase:   "streamlytics",
			MongoCollection: "history",
		},
		Poster: PosterConfig{
			OutputDir:  "posters",
			Background: "#FFFFFF",
		},
		Server: ServerConfig{
			Addr: ":8090",
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path, and
// the environment. An empty path means the default location; a missing
// file at the default location is fine, but an explicitly named file must
// exist. A .env file in the working directory is loaded first when
// present so local development credentials are picked up.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		if def, err := DefaultPath(); err == nil {
			path = def
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if os.IsNotExist(err) && !explicit {
				// No config file is a normal first-run state.
			} else {
				return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config %s", path)
			}
		}
	}

	if v := os.Getenv(EnvClientID); v != "" {
		cfg.Spotify.ClientID = v
	}
	if v := os.Getenv(EnvClientSecret); v != "" {
		cfg.Spotify.ClientSecret = v
	}
	if v := os.Getenv(EnvUserToken); v != "" {
		cfg.Spotify.UserToken = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks backend selections and numeric ranges.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendNone, "":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.History.Backend {
	case HistoryBackendFile, HistoryBackendMongo, "":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown history backend %q", c.History.Backend)
	}
	if c.Cache.Backend == CacheBackendRedis && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis needs redis_url")
	}
	if c.History.Backend == HistoryBackendMongo && c.History.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "history backend mongo needs mongo_uri")
	}
	if c.Poster.Quality < 0 || c.Poster.Quality > 100 {
		return errors.New(errors.ErrCodeInvalidConfig, "poster quality %d out of range", c.Poster.Quality)
	}
	return nil
}

// DefaultPath returns the default config file location using the XDG
// standard (~/.config/streamlytics/config.toml).
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Dir returns the configuration directory.
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "streamlytics"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "streamlytics"), nil
}
