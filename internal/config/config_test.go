package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"portal/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, path, found, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Error("found should be false for a missing file")
	}
	if path == "" {
		t.Error("resolved path should not be empty")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.MaxBytes != 10_000_000 || cfg.Logging.MaxBackups != 10 {
		t.Errorf("rotation defaults = %d/%d", cfg.Logging.MaxBytes, cfg.Logging.MaxBackups)
	}
	if cfg.Follow.PollIntervalMillis != 250 {
		t.Errorf("poll interval = %d, want 250", cfg.Follow.PollIntervalMillis)
	}
	if !strings.HasSuffix(cfg.LogFilePath(), "assistant.jsonl") {
		t.Errorf("log file path = %q", cfg.LogFilePath())
	}
}

func TestLoadParsesFileAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
log_dir = "` + dir + `/logs"
db_path = "` + dir + `/assistant.db"
api_bind = "127.0.0.1:9999"

[logging]
level = "debug"
max_bytes = 2048
max_backups = 3
console_format = "json"

[follow]
poll_interval_ms = 100
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, found, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Error("found should be true")
	}
	if cfg.APIBind != "127.0.0.1:9999" || cfg.Logging.Level != "debug" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Logging.MaxBytes != 2048 || cfg.Logging.MaxBackups != 3 {
		t.Errorf("rotation = %d/%d", cfg.Logging.MaxBytes, cfg.Logging.MaxBackups)
	}
	if !filepath.IsAbs(cfg.LogDir) {
		t.Errorf("log dir not absolute: %q", cfg.LogDir)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("LOG_DIR", filepath.Join(dir, "envlogs"))
	t.Setenv("DB_PATH", filepath.Join(dir, "env.db"))
	t.Setenv("PORTAL_API_BIND", "127.0.0.1:7000")

	cfg, _, _, err := config.Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Logging.Level != "warning" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
	if cfg.APIBind != "127.0.0.1:7000" {
		t.Errorf("bind = %q", cfg.APIBind)
	}
	if !strings.HasSuffix(cfg.LogDir, "envlogs") {
		t.Errorf("log dir = %q", cfg.LogDir)
	}
	if !strings.HasSuffix(cfg.DBPath, "env.db") {
		t.Errorf("db path = %q", cfg.DBPath)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad level", func(c *config.Config) { c.Logging.Level = "loud" }},
		{"bad console format", func(c *config.Config) { c.Logging.ConsoleFormat = "fancy" }},
		{"tiny max bytes", func(c *config.Config) { c.Logging.MaxBytes = 10 }},
		{"tiny poll interval", func(c *config.Config) { c.Follow.PollIntervalMillis = 1 }},
		{"empty bind", func(c *config.Config) { c.APIBind = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Logging.Level = "info"
			cfg.Logging.ConsoleFormat = "auto"
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[logging]") {
		t.Error("sample missing [logging] section")
	}
	if err := config.CreateSample(path); err == nil {
		t.Fatal("second create should refuse to overwrite")
	}
}
