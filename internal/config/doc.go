// Package config loads, normalizes, and validates the poolman TOML
// configuration. Configuration resolution order: explicit --config flag,
// ~/.config/poolman/config.toml, then ./poolman.toml in the working
// directory. Missing files fall back to repository defaults.
package config
