package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigurationNoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("default config version = %d, want 1", cfg.Version)
	}
	if cfg.Check.PollSeconds != 2 {
		t.Errorf("default poll_seconds = %d, want 2", cfg.Check.PollSeconds)
	}
	if cfg.Check.FailFast {
		t.Error("default fail_fast should be off")
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("default console log level = %q, want normal", cfg.Logging.ConsoleLogger.Level)
	}
	if cfg.Logging.FileLogger.Level != "none" {
		t.Errorf("default file log level = %q, want none", cfg.Logging.FileLogger.Level)
	}
	if len(cfg.Reporting.Destination) == 0 {
		t.Error("default reporting destination is empty")
	}
}

func TestLoadConfigurationWithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `version: 1
check:
  fail_fast: true
  poll_seconds: 5
format:
  overwrite: true
logging:
  console:
    level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("unable to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if !cfg.Check.FailFast {
		t.Error("fail_fast from file was not applied")
	}
	if cfg.Check.PollSeconds != 5 {
		t.Errorf("poll_seconds = %d, want 5", cfg.Check.PollSeconds)
	}
	if !cfg.Format.Overwrite {
		t.Error("format overwrite from file was not applied")
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("console log level = %q, want debug", cfg.Logging.ConsoleLogger.Level)
	}
	// values not mentioned in the file keep template defaults
	if cfg.Logging.FileLogger.Level != "none" {
		t.Errorf("file log level = %q, want none", cfg.Logging.FileLogger.Level)
	}
}

func TestLoadConfigurationUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("version: 1\nunknown_knob: true\n"), 0644); err != nil {
		t.Fatalf("unable to write config file: %v", err)
	}

	if _, err := LoadConfiguration(path); err == nil {
		t.Error("LoadConfiguration() accepted config with unknown field")
	}
}

func TestLoadConfigurationBadVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("version: 2\n"), 0644); err != nil {
		t.Fatalf("unable to write config file: %v", err)
	}

	if _, err := LoadConfiguration(path); err == nil {
		t.Error("LoadConfiguration() accepted unsupported config version")
	}
}

func TestPrepareAndDump(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if !strings.Contains(string(data), "version: 1") {
		t.Error("Prepare() output does not carry config version")
	}

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	dump, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(dump), "poll_seconds: 2") {
		t.Error("Dump() output does not carry check settings")
	}
}
