package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"poolman/internal/install"
	"poolman/internal/logging"
)

// LaunchFunc starts the binary detached with the given arguments, working
// directory set to workDir, and returns once the process is running on its
// own. No handle to the process is kept.
type LaunchFunc func(binary string, args []string, workDir string) error

// KillFunc terminates every process with the given executable name.
type KillFunc func(ctx context.Context, processName string) error

// Supervisor launches and terminates the pool daemon.
type Supervisor struct {
	paths  install.Paths
	logger *slog.Logger

	// Overridable for tests.
	launch LaunchFunc
	kill   KillFunc
}

// New builds a Supervisor over the given installation layout.
func New(paths install.Paths, logger *slog.Logger) *Supervisor {
	return &Supervisor{
		paths:  paths,
		logger: logging.NewComponentLogger(logger, "supervisor"),
		launch: launchDetached,
		kill:   killByName,
	}
}

// Start assembles the argument list and launches the daemon detached. When
// the plan injects the default --data-api flag, the stats directory is wiped
// and recreated first so stale status from a previous run cannot leak into
// the new one.
func (s *Supervisor) Start(flags, wallet, chain, threads string) error {
	plan := BuildArgs(flags, wallet, chain, threads, s.paths.StatsDir)

	if plan.RecreateStats {
		if err := os.RemoveAll(s.paths.StatsDir); err != nil {
			return fmt.Errorf("clear stats directory: %w", err)
		}
		if err := os.MkdirAll(s.paths.StatsDir, 0o755); err != nil {
			return fmt.Errorf("create stats directory: %w", err)
		}
	}

	s.logger.Info("launching pool daemon",
		logging.String("binary", s.paths.BinaryPath),
		logging.Any("args", plan.Args))

	if err := s.launch(s.paths.BinaryPath, plan.Args, s.paths.InstallDir); err != nil {
		return fmt.Errorf("launch %s: %w", install.BinaryName(), err)
	}
	return nil
}

// Kill terminates the daemon by executable name and removes the stats
// directory. The name-based kill reaches every p2pool process on the host,
// including ones this supervisor did not start. The stats directory goes
// away even when the kill command fails; a stale status file must not
// survive into the next run.
func (s *Supervisor) Kill(ctx context.Context) error {
	s.logger.Info("terminating pool daemon",
		logging.String("process", install.BinaryName()))

	killErr := s.kill(ctx, install.BinaryName())
	if killErr != nil {
		killErr = fmt.Errorf("kill %s: %w", install.BinaryName(), killErr)
	}
	if err := os.RemoveAll(s.paths.StatsDir); err != nil && killErr == nil {
		killErr = fmt.Errorf("remove stats directory: %w", err)
	}
	return killErr
}
