package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/xyproto/env/v2"
)

// Config holds the settings of the command line tools.
type Config struct {
	Parser ParserConfig `toml:"parser"`
	Log    LogConfig    `toml:"log"`
	REPL   REPLConfig   `toml:"repl"`
}

// ParserConfig holds parser limits
type ParserConfig struct {
	MaxIterations int `toml:"max_iterations"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type REPLConfig struct {
	Prompt  string `toml:"prompt"`
	History string `toml:"history"`
}

const (
	DefaultMaxIterations = 100000
	DefaultLogLevel      = "info"
	DefaultPrompt        = "layman> "
)

// Environment variables overriding the file.
const (
	EnvConfig        = "LAYMAN_CONFIG"
	EnvMaxIterations = "LAYMAN_MAX_ITERATIONS"
	EnvLogLevel      = "LAYMAN_LOG_LEVEL"
	EnvHistory       = "LAYMAN_HISTORY"
)

// DefaultHistory is the REPL history file under the XDG data directory.
func DefaultHistory() string {
	return filepath.Join(xdg.DataHome, "layman", "history")
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	cfg.applyEnv()

	return &cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}

		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads the file named by LAYMAN_CONFIG, else ./layman.toml, else
// layman/config.toml under the XDG config directories. Without any file the
// defaults are used.
func LoadFromEnv() (*Config, error) {
	env.Load()
	if path := env.Str(EnvConfig); path != "" {
		return Load(path)
	}

	if _, err := os.Stat("layman.toml"); err == nil {
		return Load("layman.toml")
	}
	if path, err := xdg.SearchConfigFile(filepath.Join("layman", "config.toml")); err == nil {
		return Load(path)
	}

	return Default(), nil
}

func (c *Config) applyDefaults() {
	if c.Parser.MaxIterations == 0 {
		c.Parser.MaxIterations = DefaultMaxIterations
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.REPL.Prompt == "" {
		c.REPL.Prompt = DefaultPrompt
	}
	if c.REPL.History == "" {
		c.REPL.History = DefaultHistory()
	}
}

// applyEnv reloads the environment first, since env caches it on first use.
func (c *Config) applyEnv() {
	env.Load()
	c.Parser.MaxIterations = env.Int(EnvMaxIterations, c.Parser.MaxIterations)
	c.Log.Level = env.Str(EnvLogLevel, c.Log.Level)
	c.REPL.History = env.Str(EnvHistory, c.REPL.History)
}

func (c *Config) Validate() error {
	if c.Parser.MaxIterations < 1 {
		return fmt.Errorf("parser.max_iterations must be positive, got %d", c.Parser.MaxIterations)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// SlogLevel parses log.level: debug, info, warn or error.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}

	return level, nil
}
