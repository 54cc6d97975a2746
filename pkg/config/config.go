// Package config loads brickfall settings from a TOML file.
//
// The default location is $XDG_CONFIG_HOME/brickfall/config.toml (falling
// back to ~/.config/brickfall/config.toml). A missing file is not an error:
// every setting has a default. Two environment variables override the file:
//
//	BRICKFALL_REDIS_ADDR  sets [cache] redis_addr and selects the redis backend
//	BRICKFALL_MONGO_URI   sets [store] mongo_uri and selects the mongo backend
//
// Example file:
//
//	[analysis]
//	workers = 8
//
//	[cache]
//	backend = "file"   # file, redis, or none
//	ttl = "168h"
//	prefix = "staging:"
//
//	[store]
//	backend = "sqlite" # memory, sqlite, or mongo
//	path = "/var/lib/brickfall/reports.db"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/brickfall/pkg/errors"
)

const appName = "brickfall"

// Environment overrides.
const (
	EnvRedisAddr = "BRICKFALL_REDIS_ADDR"
	EnvMongoURI  = "BRICKFALL_MONGO_URI"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the full set of settings.
type Config struct {
	Analysis Analysis `toml:"analysis"`
	Cache    Cache    `toml:"cache"`
	Store    Store    `toml:"store"`
	Server   Server   `toml:"server"`
}

// Analysis tunes the cascade analyzer.
type Analysis struct {
	// Workers is the analyzer goroutine count; 0 means one per CPU.
	Workers int `toml:"workers"`
}

// Cache selects the report cache.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`

	// Prefix namespaces every cache key, for deployments sharing one redis.
	Prefix string `toml:"prefix"`
}

// Store selects where reports are persisted.
type Store struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration that decodes from a TOML string like "36h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Cache: Cache{
			Backend: CacheFile,
			Dir:     cacheDir(),
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Store: Store{
			Backend:  "sqlite",
			Path:     filepath.Join(dataDir(), "reports.db"),
			Database: appName,
		},
		Server: Server{Addr: ":8080"},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// Load reads the file at path over the defaults and applies environment
// overrides. An empty path means [DefaultPath]. A missing file at the default
// path is ignored; a missing file at an explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		_, err := toml.DecodeFile(path, &cfg)
		switch {
		case err == nil:
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case errors.Is(err, fs.ErrNotExist):
			return Config{}, errs.Wrap(errs.ErrCodeInvalidPath, err, "config %s", path)
		default:
			return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "config %s", path)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses TOML text over the defaults. Environment overrides are not
// applied.
func Decode(text string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(text, &cfg); err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.Cache.RedisAddr = v
		cfg.Cache.Backend = CacheRedis
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		cfg.Store.MongoURI = v
		cfg.Store.Backend = "mongo"
	}
}

// Validate checks backend names and required fields.
func (c Config) Validate() error {
	if c.Analysis.Workers < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "analysis.workers must be >= 0, got %d", c.Analysis.Workers)
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}

	switch c.Store.Backend {
	case "memory":
	case "sqlite":
		if c.Store.Path == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "store.path is required for the sqlite backend")
		}
	case "mongo":
		if c.Store.MongoURI == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "store.mongo_uri is required for the mongo backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/brickfall/).
func cacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".cache", appName)
}

// dataDir returns the data directory (~/.local/share/brickfall/).
func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".local", "share", appName)
}
