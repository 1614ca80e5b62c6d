//go:build !windows

package supervisor

import (
	"context"
	"errors"
	"os/exec"
	"syscall"
)

// launchDetached starts the binary in its own session so it survives poolman
// exiting. The process handle is released immediately; nothing ever waits on
// the child, so the kernel reparents and reaps it.
func launchDetached(binary string, args []string, workDir string) error {
	cmd := exec.Command(binary, args...)
	cmd.Dir = workDir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// killByName terminates every process with the given name via pkill. pkill
// exits 1 when no process matched, which counts as success here: the daemon
// already being gone is the desired end state.
func killByName(ctx context.Context, processName string) error {
	err := exec.CommandContext(ctx, "pkill", processName).Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return nil
	}
	return err
}
