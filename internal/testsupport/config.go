package testsupport

import (
	"path/filepath"
	"testing"

	"portal/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.LogDir = filepath.Join(base, "logs")
	cfg.DBPath = filepath.Join(base, "data", "assistant.db")
	cfg.APIBind = "127.0.0.1:0"
	cfg.Logging.ConsoleFormat = "json"
	cfg.Follow.PollIntervalMillis = 20

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithMaxBytes overrides the rotation threshold on the test config.
func WithMaxBytes(maxBytes int64) ConfigOption {
	return func(c *config.Config) {
		c.Logging.MaxBytes = maxBytes
	}
}

// WithLevel overrides the minimum log level on the test config.
func WithLevel(level string) ConfigOption {
	return func(c *config.Config) {
		c.Logging.Level = level
	}
}
