// Package config provides configuration for the automata CLI.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"automata/internal/codec"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds CLI configuration. Later sources override earlier ones:
// defaults, the YAML file, the environment, then flags.
type Config struct {
	Log    Log    `yaml:"log"`
	Output Output `yaml:"output"`
}

type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

type Output struct {
	// Format is the encoding written by commands (json, yaml, msgpack, dot).
	Format string `yaml:"format"`
	// Compression is none or zstd.
	Compression string `yaml:"compression"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:    Log{Level: "warn", Format: "text"},
		Output: Output{Format: "json", Compression: "none"},
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from AUTOMATA_* variables.
func (c *Config) ApplyEnv() {
	c.Log.Level = getEnv("AUTOMATA_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("AUTOMATA_LOG_FORMAT", c.Log.Format)
	c.Output.Format = getEnv("AUTOMATA_FORMAT", c.Output.Format)
	c.Output.Compression = getEnv("AUTOMATA_COMPRESSION", c.Output.Compression)
}

// Validate rejects unknown values.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.Log.Format)
	}
	if _, err := codec.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := codec.ParseCompression(c.Output.Compression); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Log.Level)
	}
	return l, nil
}

// Logger builds the slog logger described by c.Log.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch c.Log.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.Log.Format)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
