//go:build windows

package supervisor

import (
	"context"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// launchDetached starts the binary without a console and outside the caller's
// process group so it survives poolman exiting. The handle is released
// immediately; nothing waits on the child.
func launchDetached(binary string, args []string, workDir string) error {
	cmd := exec.Command(binary, args...)
	cmd.Dir = workDir
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.DETACHED_PROCESS | windows.CREATE_NEW_PROCESS_GROUP,
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// killByName terminates every process with the given image name. taskkill
// exits 128 when no process matched, which counts as success here.
func killByName(ctx context.Context, processName string) error {
	err := exec.CommandContext(ctx, "taskkill", "/F", "/IM", processName).Run()
	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 128 {
		return nil
	}
	return err
}
