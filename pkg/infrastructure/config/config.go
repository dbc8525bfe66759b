// Package config loads mrplog settings from defaults, an optional YAML file
// and MRPLOG_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	mrperrors "github.com/vsinha/mrplog/pkg/domain/errors"
)

// Environment variables read by ApplyEnv
const (
	EnvConfig    = "MRPLOG_CONFIG"
	EnvFormat    = "MRPLOG_FORMAT"
	EnvOutputDir = "MRPLOG_OUTPUT_DIR"
	EnvLogLevel  = "MRPLOG_LOG_LEVEL"
	EnvLogFormat = "MRPLOG_LOG_FORMAT"
	EnvTimezone  = "MRPLOG_TIMEZONE"
)

// SupportedFormats lists the output formats accepted by Validate
var SupportedFormats = []string{"text", "json", "yaml", "xlsx"}

// Config holds the settings shared by all commands
type Config struct {
	Format            string    `yaml:"format"`
	OutputDir         string    `yaml:"output_dir,omitempty"`
	Timezone          string    `yaml:"timezone"`
	CompletionMarkers []string  `yaml:"completion_markers,omitempty"`
	Log               LogConfig `yaml:"log"`
}

// LogConfig configures diagnostic logging
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Format:   "text",
		Timezone: "UTC",
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// LoadDotEnv loads variables from .env files into the process environment.
// Missing files are ignored; variables already set are not overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return mrperrors.NewConfigError(fmt.Sprintf("failed to load %s", path), err)
		}
	}
	return nil
}

// Load builds the configuration from defaults, the YAML file at path (or
// MRPLOG_CONFIG when path is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// LoadFile merges a YAML file into the configuration. Environment
// references in the file are expanded.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return mrperrors.NewFileNotFoundError(path)
		}
		return mrperrors.NewFileReadError(path, err)
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), c); err != nil {
		return mrperrors.NewConfigError(fmt.Sprintf("cannot parse %s", path), err)
	}
	return nil
}

// ApplyEnv overrides fields from MRPLOG_* variables found by lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	overrides := []struct {
		key    string
		target *string
	}{
		{EnvFormat, &c.Format},
		{EnvOutputDir, &c.OutputDir},
		{EnvTimezone, &c.Timezone},
		{EnvLogLevel, &c.Log.Level},
		{EnvLogFormat, &c.Log.Format},
	}
	for _, o := range overrides {
		if value, ok := lookup(o.key); ok && strings.TrimSpace(value) != "" {
			*o.target = strings.TrimSpace(value)
		}
	}
}

// Validate checks that the configuration can be used
func (c *Config) Validate() error {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if !isSupportedFormat(c.Format) {
		return mrperrors.NewConfigError(fmt.Sprintf("format %q", c.Format), nil).
			WithSuggestion(fmt.Sprintf("Use one of: %s", strings.Join(SupportedFormats, ", ")))
	}
	if c.Format == "xlsx" && c.OutputDir == "" {
		return mrperrors.NewConfigError("xlsx output requires an output directory", nil).
			WithSuggestion("Pass --output <dir> or set MRPLOG_OUTPUT_DIR")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return mrperrors.NewConfigError(fmt.Sprintf("log format %q", c.Log.Format), nil).
			WithSuggestion("Use text or json")
	}
	return nil
}

// Location resolves the configured time zone
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, mrperrors.NewConfigError(fmt.Sprintf("time zone %q", c.Timezone), err)
	}
	return loc, nil
}

func isSupportedFormat(format string) bool {
	for _, f := range SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}
