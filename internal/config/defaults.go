package config

const (
	defaultInstallDir           = "~/.local/share/poolman/p2pool"
	defaultLogDir               = "~/.local/share/poolman/logs"
	defaultChain                = "mini"
	defaultThreads              = 1
	defaultStatusPollInterval   = 5
	defaultHistoryRetentionDays = 30
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InstallDir: defaultInstallDir,
			LogDir:     defaultLogDir,
		},
		Pool: Pool{
			Chain:   defaultChain,
			Threads: defaultThreads,
		},
		Daemon: Daemon{
			StatusPollInterval: defaultStatusPollInterval,
		},
		History: History{
			Enabled:       true,
			RetentionDays: defaultHistoryRetentionDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
