package config

import (
	"errors"
	"fmt"
	"strings"
)

var validLevels = map[string]struct{}{
	"debug":    {},
	"info":     {},
	"warning":  {},
	"warn":     {},
	"error":    {},
	"critical": {},
}

var validConsoleFormats = map[string]struct{}{
	"auto":    {},
	"json":    {},
	"console": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("paths.db_path must be set")
	}
	if strings.TrimSpace(c.APIBind) == "" {
		return errors.New("paths.api_bind must be set")
	}
	if _, ok := validLevels[c.Logging.Level]; !ok {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if _, ok := validConsoleFormats[c.Logging.ConsoleFormat]; !ok {
		return fmt.Errorf("logging.console_format: unsupported value %q", c.Logging.ConsoleFormat)
	}
	if c.Logging.MaxBytes < 1024 {
		return errors.New("logging.max_bytes must be at least 1024")
	}
	if c.Follow.PollIntervalMillis < 10 {
		return errors.New("follow.poll_interval_ms must be at least 10")
	}
	return nil
}
