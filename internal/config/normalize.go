package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	if c.Follow.PollIntervalMillis <= 0 {
		c.Follow.PollIntervalMillis = defaultPollMillis
	}
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("LOG_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.LogDir = value
	}
	if value, ok := os.LookupEnv("DB_PATH"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DBPath = value
	}
	if value, ok := os.LookupEnv("PORTAL_API_BIND"); ok && strings.TrimSpace(value) != "" {
		c.Paths.APIBind = value
	}

	var err error
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.DBPath, err = ExpandPath(c.Paths.DBPath); err != nil {
		return fmt.Errorf("paths.db_path: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.MaxBytes <= 0 {
		c.Logging.MaxBytes = defaultMaxBytes
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = defaultMaxBackups
	}
	c.Logging.ConsoleFormat = strings.ToLower(strings.TrimSpace(c.Logging.ConsoleFormat))
	if c.Logging.ConsoleFormat == "" {
		c.Logging.ConsoleFormat = defaultConsoleFormat
	}
}
