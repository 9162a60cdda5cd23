// Package config handles configuration loading from TOML files and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Menu    MenuConfig    `toml:"menu"`
	Library LibraryConfig `toml:"library"`
	Log     LogConfig     `toml:"log"`
}

// MenuConfig holds completion menu geometry. Widths under the renderer
// minimum suppress the column, so 0 means "hide".
type MenuConfig struct {
	Col1Len int `toml:"col1_len"`
	Col2Len int `toml:"col2_len"`
}

// Col1LenOrDefault returns the configured first column width or 11 if unset.
func (m MenuConfig) Col1LenOrDefault() int {
	if m.Col1Len == 0 {
		return 11
	}
	return m.Col1Len
}

// Col2LenOrDefault returns the configured second column width or 11 if unset.
func (m MenuConfig) Col2LenOrDefault() int {
	if m.Col2Len == 0 {
		return 11
	}
	return m.Col2Len
}

// LibraryConfig points at the omnils cache the R session writes.
type LibraryConfig struct {
	Dir string `toml:"dir"` // directory holding omnils_* and pkg_descriptions
	DB  string `toml:"db"`  // sqlite index path; defaults under DataDir
}

// DBOrDefault returns the configured index path or index.db under the
// rmatch data directory.
func (l LibraryConfig) DBOrDefault() (string, error) {
	if l.DB != "" {
		return l.DB, nil
	}
	dir, err := EnsureDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "index.db"), nil
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LevelOrDefault returns the configured log level or "info" if unset.
func (l LogConfig) LevelOrDefault() string {
	if l.Level == "" {
		return "info"
	}
	return l.Level
}

// Load reads configuration from a TOML file and applies environment
// variable overrides. An empty path yields the defaults; a given path
// must exist.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	if c.Menu.Col1Len < 0 {
		errs = append(errs, fmt.Errorf("menu.col1_len=%d must not be negative", c.Menu.Col1Len))
	}
	if c.Menu.Col2Len < 0 {
		errs = append(errs, fmt.Errorf("menu.col2_len=%d must not be negative", c.Menu.Col2Len))
	}

	switch c.Log.LevelOrDefault() {
	case "trace", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level=%q is not a valid level", c.Log.Level))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"RMATCH_LIBRARY_DIR", func(v string) {
			if v != "" {
				cfg.Library.Dir = v
			}
		}},
		{"RMATCH_LOG_LEVEL", func(v string) {
			if v != "" {
				cfg.Log.Level = v
			}
		}},
	} {
		setter.apply(os.Getenv(setter.env))
	}
}

// DataDir returns the path to the rmatch data directory (~/.config/rmatch).
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "rmatch"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	return dir, nil
}
