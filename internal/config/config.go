// Package config loads the optional CLI configuration from
// ~/.config/cuml/config.toml. The library itself is configured purely
// through functional options; this file only affects the cuml command.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Zhylkaaa/cuml/pkg/errors"
)

// Config holds the CLI settings.
type Config struct {
	// Backend names the preferred native backend. Empty means the first
	// available registered backend.
	Backend string `toml:"backend"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `toml:"log_level"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		LogLevel: "info",
	}
}

// Path returns the location of the config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cuml", "config.toml"), nil
}

// Load reads the config file, applying defaults for missing values. A
// missing file is not an error. The CUML_LOG_LEVEL environment variable
// overrides the file. Values are validated before they reach the logger
// or the backend picker, so a typo surfaces as an error, not a crash.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return validate(applyEnv(Default()))
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return validate(applyEnv(cfg))
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}
	return validate(applyEnv(cfg))
}

func applyEnv(cfg Config) Config {
	if v := os.Getenv("CUML_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}

func validate(cfg Config) (Config, error) {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		return cfg, nil
	default:
		return cfg, errors.NewValidationError("log_level",
			`must be "debug", "info", "warn", or "error"`, cfg.LogLevel)
	}
}

// Save writes the config to its default location, creating the directory
// if needed.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
