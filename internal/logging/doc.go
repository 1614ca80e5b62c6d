// Package logging constructs the slog loggers used across poolman and
// provides the attribute helpers shared by all components.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for log files and machine consumption.
package logging
