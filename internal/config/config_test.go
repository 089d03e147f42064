package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Zhylkaaa/cuml/pkg/errors"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.LogLevel != "info" || cfg.Backend != "" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "backend = \"cuda\"\nlog_level = \"debug\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Backend != "cuda" || cfg.LogLevel != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadFromPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("backend = \"cuda\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default \"info\"", cfg.LogLevel)
	}
}

func TestEnvOverridesLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("log_level = \"warn\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CUML_LOG_LEVEL", "debug")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want env override \"debug\"", cfg.LogLevel)
	}
}

func TestInvalidLogLevelRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("log_level = \"verbose\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	var valErr *errors.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("LoadFrom with bad log_level = %v, want ValidationError", err)
	}
	if valErr.ParamName != "log_level" {
		t.Errorf("ParamName = %q, want \"log_level\"", valErr.ParamName)
	}
}

func TestInvalidEnvLogLevelRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("log_level = \"info\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CUML_LOG_LEVEL", "verbose")

	_, err := LoadFrom(path)
	var valErr *errors.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("LoadFrom with bad CUML_LOG_LEVEL = %v, want ValidationError", err)
	}
}

func TestLoadFromMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("log_level = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom should report malformed TOML")
	}
}
