// Package config loads mytasks settings. Sources are applied in order, each
// overriding the last:
//  1. Defaults
//  2. Config file (--config, else $XDG_CONFIG_HOME/mytasks/config.toml)
//  3. Environment variables (MYTASKS_*)
//  4. Command-line flags
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Backend names a durable store implementation
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
)

// Default values.
const (
	DefaultBackend     = BackendSQLite
	DefaultRedisAddr   = "localhost:6379"
	DefaultRedisPrefix = "mytasks:"
	DefaultLogLevel    = "info"
	DefaultThemeDark   = "nord"
	DefaultThemeLight  = "latte"
)

// Duration is a time.Duration written as a Go duration string ("250ms")
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds the full configuration for mytasks.
type Config struct {
	DataDir string  `toml:"data_dir"`
	Backend Backend `toml:"backend"`

	RedisAddr   string `toml:"redis_addr"`
	RedisPrefix string `toml:"redis_prefix"`

	LogLevel string `toml:"log_level"`

	// Zero writes through on every change
	SaveDebounce Duration `toml:"save_debounce"`

	ThemeDark  string `toml:"theme_dark"`
	ThemeLight string `toml:"theme_light"`

	// File is the config file that was read, empty when none was found
	File string `toml:"-"`
}

// Flags carries command-line overrides. Empty fields are left alone.
type Flags struct {
	ConfigFile string
	DataDir    string
	Backend    string
	LogLevel   string
}

// Load builds the configuration from every source.
func Load(flags Flags) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	path := flags.ConfigFile
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile()
	}
	if path != "" {
		if err := loadConfigFile(cfg, expandPath(path), explicit); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	applyFlags(cfg, flags)
	finalizeConfig(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir()
	cfg.Backend = DefaultBackend
	cfg.RedisAddr = DefaultRedisAddr
	cfg.RedisPrefix = DefaultRedisPrefix
	cfg.LogLevel = DefaultLogLevel
	cfg.ThemeDark = DefaultThemeDark
	cfg.ThemeLight = DefaultThemeLight
}

// loadConfigFile decodes TOML over cfg. A missing file is only an error
// when it was asked for explicitly.
func loadConfigFile(cfg *Config, path string, explicit bool) error {
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return nil
	}
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys: %v", undecoded)
	}
	cfg.File = path
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("MYTASKS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("MYTASKS_BACKEND"); v != "" {
		cfg.Backend = Backend(v)
	}
	if v := os.Getenv("MYTASKS_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("MYTASKS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MYTASKS_SAVE_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MYTASKS_SAVE_DEBOUNCE: %w", err)
		}
		cfg.SaveDebounce.Duration = d
	}
	return nil
}

func applyFlags(cfg *Config, flags Flags) {
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}
	if flags.Backend != "" {
		cfg.Backend = Backend(flags.Backend)
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}
}

func finalizeConfig(cfg *Config) {
	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.Backend = Backend(strings.ToLower(string(cfg.Backend)))
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("unknown backend %q (want sqlite, file or redis)", c.Backend)
	}
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	if c.Backend == BackendRedis && c.RedisAddr == "" {
		return errors.New("redis_addr is required for the redis backend")
	}
	if c.SaveDebounce.Duration < 0 {
		return fmt.Errorf("save_debounce must not be negative, got %s", c.SaveDebounce)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// DBPath is the SQLite database location
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "mytasks.db")
}

// StatePath is the file backend's JSON document
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, "state.json")
}

// LogPath is where the TUI writes its log
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "mytasks.log")
}

// LockPath guards the data directory against a second instance
func (c *Config) LockPath() string {
	return filepath.Join(c.DataDir, "mytasks.lock")
}
