// Package config loads the rindex configuration from a TOML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment overrides, applied after the file is read.
const (
	EnvDBPath       = "RINDEX_DB_PATH"
	EnvInterpreter  = "RINDEX_R_BIN"
	EnvLibraryPaths = "RINDEX_LIBRARY_PATHS"
)

// Config holds the rindex runtime configuration.
type Config struct {
	// DatabasePath is the SQLite database location. Empty selects the
	// in-memory index (no persistence across sessions).
	DatabasePath string `toml:"database_path"`

	// Interpreter is the evaluation binary used for metadata harvesting.
	Interpreter string `toml:"interpreter"`

	// SupportScript defines the harvesting entrypoint sourced into
	// augmented sessions.
	SupportScript string `toml:"support_script"`

	// LibraryPaths are the directories scanned for installed packages.
	LibraryPaths []string `toml:"library_paths"`

	// WorkingDir is the working directory for harvesting processes.
	WorkingDir string `toml:"working_dir"`

	// RefreshInterval enables periodic background refresh when non-zero.
	RefreshInterval Duration `toml:"refresh_interval"`

	// Verbosity is the log verbosity passed to the logging backend.
	Verbosity int `toml:"verbosity"`
}

// Duration wraps time.Duration so TOML values like "5m" decode directly.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Interpreter: "R",
		Verbosity:   1,
	}
}

// DefaultPath returns the default config file location under the user's
// home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rindex", "config.toml")
}

// Load reads the configuration file at path and applies environment
// overrides. A missing file is not an error: defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv(EnvInterpreter); v != "" {
		c.Interpreter = v
	}
	if v := os.Getenv(EnvLibraryPaths); v != "" {
		c.LibraryPaths = filepath.SplitList(v)
	}
}

// String renders the configuration for startup logging, one field per
// line.
func (c *Config) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "database_path=%q interpreter=%q support_script=%q",
		c.DatabasePath, c.Interpreter, c.SupportScript)
	fmt.Fprintf(&sb, " library_paths=%v refresh_interval=%s",
		c.LibraryPaths, time.Duration(c.RefreshInterval))
	return sb.String()
}
