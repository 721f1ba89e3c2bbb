// Package config loads sortnet's TOML configuration file.
//
// The file has four sections:
//
//	[run]      defaults for run, compare and watch (strategy, size, seed, value range, workers)
//	[cache]    result cache backend: "file", "redis" or "none"
//	[history]  run history backend: "file", "mongo", "memory" or "none"
//	[server]   HTTP API listen address
//
// Missing keys keep their defaults; unknown keys are rejected so that typos do
// not go unnoticed. Command-line flags override file values.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sortnet/pkg/errors"
	"github.com/matzehuels/sortnet/pkg/strategy"
)

const appName = "sortnet"

// Backend names.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config is the full configuration file.
type Config struct {
	Run     RunConfig     `toml:"run"`
	Cache   CacheConfig   `toml:"cache"`
	History HistoryConfig `toml:"history"`
	Server  ServerConfig  `toml:"server"`
}

// RunConfig holds defaults for simulation runs.
type RunConfig struct {
	Strategy string `toml:"strategy"`
	Size     int    `toml:"size"`
	Seed     uint64 `toml:"seed"`
	Min      int64  `toml:"min"`
	Max      int64  `toml:"max"`

	// Workers bounds the goroutines of each step; 0 means one per group.
	Workers int `toml:"workers"`

	// Pool runs steps on a shared ants worker pool instead of fresh goroutines.
	Pool bool `toml:"pool"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	TTL     string      `toml:"ttl"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// HistoryConfig selects and configures the run history store.
type HistoryConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Mongo   MongoConfig `toml:"mongo"`
}

// MongoConfig configures the mongo history backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Run: RunConfig{
			Strategy: string(strategy.KindAlternate),
			Size:     10,
			Seed:     42,
			Min:      0,
			Max:      999,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     defaultDir("XDG_CACHE_HOME", ".cache"),
			TTL:     "168h",
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		History: HistoryConfig{
			Backend: BackendFile,
			Dir:     filepath.Join(defaultDir("XDG_DATA_HOME", filepath.Join(".local", "share")), "runs"),
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   appName,
				Collection: "runs",
			},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads the file at path on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, errors.ErrCodeNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := strategy.ParseKind(c.Run.Strategy); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[run] strategy")
	}
	if err := errors.ValidateSize(c.Run.Size); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[run] size")
	}
	if err := errors.ValidateRange(c.Run.Min, c.Run.Max); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[run] min/max")
	}
	if c.Run.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[run] workers must not be negative")
	}

	switch c.Cache.Backend {
	case BackendNone, BackendFile, BackendRedis:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] unknown backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}

	switch c.History.Backend {
	case BackendNone, BackendFile, BackendMongo, BackendMemory:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[history] unknown backend %q (want file, mongo, memory or none)", c.History.Backend)
	}
	return nil
}

// CacheTTL parses Cache.TTL. An empty TTL yields 0, which the runner treats
// as cache.DefaultTTL.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "[cache] invalid ttl %q", c.Cache.TTL)
	}
	return d, nil
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// String returns c as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	_ = c.Encode(&buf)
	return buf.String()
}

// Save writes c to path, creating parent directories. An existing file is
// only replaced when overwrite is set.
func (c *Config) Save(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(c.String()), 0644)
}

// DefaultPath returns $XDG_CONFIG_HOME/sortnet/config.toml, falling back to
// ~/.config/sortnet/config.toml.
func DefaultPath() string {
	return filepath.Join(defaultDir("XDG_CONFIG_HOME", ".config"), "config.toml")
}

// defaultDir returns $env/sortnet, or ~/fallback/sortnet when env is unset.
func defaultDir(env, fallback string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, fallback, appName)
}
