package config

import "strings"

func (c *Config) normalize() error {
	var err error
	if c.Paths.InstallDir, err = expandPath(valueOr(c.Paths.InstallDir, defaultInstallDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(valueOr(c.Paths.LogDir, defaultLogDir)); err != nil {
		return err
	}

	c.Pool.Wallet = strings.TrimSpace(c.Pool.Wallet)
	c.Pool.Chain = strings.ToLower(strings.TrimSpace(c.Pool.Chain))
	if c.Pool.Chain == "" {
		c.Pool.Chain = defaultChain
	}
	c.Pool.Flags = strings.TrimSpace(c.Pool.Flags)
	if c.Pool.Threads == 0 {
		c.Pool.Threads = defaultThreads
	}

	if c.Daemon.StatusPollInterval == 0 {
		c.Daemon.StatusPollInterval = defaultStatusPollInterval
	}
	if c.History.RetentionDays == 0 {
		c.History.RetentionDays = defaultHistoryRetentionDays
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(valueOr(c.Logging.Format, defaultLogFormat)))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(valueOr(c.Logging.Level, defaultLogLevel)))
	return nil
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
