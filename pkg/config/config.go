// Package config loads patrol's TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/patrol/config.toml (falling back to
// ~/.config/patrol/config.toml). A missing file yields Default(). Command-line
// flags override whatever the file sets.
//
//	workers   = 8
//	max_steps = 0
//
//	[cache]
//	backend = "file"      # file, redis or none
//	dir     = ""          # defaults to $XDG_CACHE_HOME/patrol
//	ttl     = "168h"
//
//	[cache.redis]
//	addr     = "localhost:6379"
//	password = ""
//	db       = 0
//	prefix   = "patrol:"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	perrors "github.com/matzehuels/patrol/pkg/errors"
)

const appName = "patrol"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the decoded configuration file.
type Config struct {
	// Workers bounds concurrent obstruction trials. Zero means GOMAXPROCS.
	Workers int `toml:"workers"`
	// MaxSteps fails any walk longer than this many steps. Zero disables it.
	MaxSteps int `toml:"max_steps"`

	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Cache configures the result cache.
type Cache struct {
	// Backend is one of BackendFile, BackendRedis or BackendNone.
	Backend string `toml:"backend"`
	// Dir overrides the file backend's directory. `patrol cache clear` only
	// removes files the cache wrote, so Dir may be shared.
	Dir string `toml:"dir"`
	// TTL bounds how long a result stays cached.
	TTL Duration `toml:"ttl"`

	Redis Redis `toml:"redis"`
}

// Redis configures the redis cache backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`

	// Prefix namespaces every key, e.g. "patrol:result:3fa9...".
	Prefix string `toml:"prefix"`
}

// Server configures `patrol serve`.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration decodes TOML strings such as "36h" or "90m".
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

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Cache: Cache{
			Backend: BackendFile,
			TTL:     Duration{7 * 24 * time.Hour},
			Redis: Redis{
				Addr:   "localhost:6379",
				Prefix: appName + ":",
			},
		},
		Server: Server{Addr: ":8080"},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the default file cache directory.
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the file at path over Default(). An empty path means Path().
// A missing file is not an error unless path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return Config{}, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "config file %s does not exist", path)
		}
		return Default(), nil
	}
	if err != nil {
		return Config{}, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, perrors.New(perrors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and the cache backend name. Every failure is
// an INVALID_CONFIG error naming the offending key.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "workers must be >= 0, got %d", c.Workers)
	}
	if c.MaxSteps < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "max_steps must be >= 0, got %d", c.MaxSteps)
	}
	if c.Cache.TTL.Duration < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.Redis.Addr == "" {
			return perrors.New(perrors.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis backend")
		}
	default:
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache.backend %q is not one of file, redis, none", c.Cache.Backend)
	}
	if c.Server.Addr == "" {
		return perrors.New(perrors.ErrCodeInvalidConfig, "server.addr must not be empty")
	}
	return nil
}
