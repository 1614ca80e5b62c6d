package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePool(); err != nil {
		return err
	}
	if err := c.validateDaemon(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePool() error {
	switch c.Pool.Chain {
	case "main", "mini":
	default:
		return fmt.Errorf("pool.chain must be %q or %q, got %q", "main", "mini", c.Pool.Chain)
	}
	if c.Pool.Threads < 1 {
		return errors.New("pool.threads must be >= 1")
	}
	return nil
}

func (c *Config) validateDaemon() error {
	if c.Daemon.StatusPollInterval <= 0 {
		return errors.New("daemon.status_poll_interval must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && c.History.RetentionDays <= 0 {
		return errors.New("history.retention_days must be positive when history.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", "console", "json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
