// Package config loads calculator settings from TOML or YAML files and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override settings.
const EnvPrefix = "CALC_"

// Config holds the calculator's settings.
type Config struct {
	// Prompt is printed before each line in the REPL.
	Prompt string `toml:"prompt" yaml:"prompt"`
	// Format is the fmt format string for results.
	Format string `toml:"format" yaml:"format"`
	// MaxDepth is the parser's nesting limit. Zero uses the parser default.
	MaxDepth int `toml:"max_depth" yaml:"max_depth"`
	// TUI selects the full-screen interface for interactive sessions.
	TUI bool `toml:"tui" yaml:"tui"`
	// Echo prints parse trees before results.
	Echo bool `toml:"echo" yaml:"echo"`
	// LogLevel is one of debug, info, warn, or error.
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// Default returns the default configuration.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load loads configuration from a TOML (.toml) or YAML (.yaml, .yml) file,
// fills in defaults, and applies CALC_* environment overrides. An empty path
// loads only defaults and the environment.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		path = os.ExpandEnv(path)
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := decode(path, b, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.applyDefaults()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(path string, b []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(b), cfg)
		if err != nil {
			return err
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return fmt.Errorf("unknown key %q", undec[0].String())
		}
		return nil
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		// An empty document decodes as io.EOF, which is an empty config.
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unsupported config format %q (want .toml, .yaml, or .yml)", filepath.Ext(path))
	}
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Prompt == "" {
		c.Prompt = "calc> "
	}
	if c.Format == "" {
		c.Format = "%v"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

// applyEnv overrides settings from CALC_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "PROMPT"); ok {
		c.Prompt = v
	}
	if v, ok := lookup(EnvPrefix + "FORMAT"); ok && v != "" {
		c.Format = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvPrefix + "MAX_DEPTH"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_DEPTH: %w", EnvPrefix, err)
		}
		c.MaxDepth = n
	}
	for _, b := range []struct {
		name string
		p    *bool
	}{
		{"TUI", &c.TUI},
		{"ECHO", &c.Echo},
	} {
		v, ok := lookup(EnvPrefix + b.name)
		if !ok || v == "" {
			continue
		}
		x, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, b.name, err)
		}
		*b.p = x
	}
	return nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if !strings.Contains(c.Format, "%") {
		return fmt.Errorf("format %q has no formatting verb", c.Format)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the log level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
