package config

const (
	defaultLogDir        = "~/.local/share/portal/logs"
	defaultDBPath        = "~/.local/share/portal/data/assistant.db"
	defaultAPIBind       = "127.0.0.1:8787"
	defaultLogLevel      = "info"
	defaultMaxBytes      = 10_000_000
	defaultMaxBackups    = 10
	defaultConsoleFormat = "auto"
	defaultPollMillis    = 250
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:  defaultLogDir,
			DBPath:  defaultDBPath,
			APIBind: defaultAPIBind,
		},
		Logging: Logging{
			Level:         defaultLogLevel,
			MaxBytes:      defaultMaxBytes,
			MaxBackups:    defaultMaxBackups,
			ConsoleFormat: defaultConsoleFormat,
		},
		Follow: Follow{
			PollIntervalMillis: defaultPollMillis,
		},
	}
}
