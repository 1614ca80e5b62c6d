// Package daemonctl orchestrates the daemon process from the CLI side:
// launching it detached, waiting for its socket, and shutting it down.
package daemonctl

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"poolman/internal/ipc"
)

// ErrDaemonNotRunning indicates daemon IPC is unavailable.
var ErrDaemonNotRunning = errors.New("daemon not running")

// LaunchOptions controls daemon process launch behavior.
type LaunchOptions struct {
	ConfigPath string
	SocketPath string
}

// Launch starts a detached poolman daemon process.
func Launch(executablePath string, opts LaunchOptions) error {
	if strings.TrimSpace(executablePath) == "" {
		return fmt.Errorf("resolve executable: executable path is empty")
	}

	args := []string{"daemon", "run"}
	if cfg := strings.TrimSpace(opts.ConfigPath); cfg != "" {
		args = append(args, "--config", cfg)
	}
	if socket := strings.TrimSpace(opts.SocketPath); socket != "" {
		args = append(args, "--socket", socket)
	}

	proc := exec.Command(executablePath, args...)
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	return proc.Process.Release()
}

// WaitForClient waits for IPC socket availability and returns a connected
// client.
func WaitForClient(socketPath string, timeout time.Duration) (*ipc.Client, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		client, err := ipc.Dial(socketPath)
		if err == nil {
			return client, nil
		}
		lastErr = err
		time.Sleep(200 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for daemon")
	}
	return nil, fmt.Errorf("daemon failed to start: %w", lastErr)
}

// EnsureRunning connects to the daemon, launching it first when its socket is
// unreachable. The caller owns the returned client. The bool reports whether
// a new daemon process was launched.
func EnsureRunning(socketPath, executablePath string, opts LaunchOptions, waitTimeout time.Duration) (*ipc.Client, bool, error) {
	client, err := ipc.Dial(socketPath)
	if err == nil {
		return client, false, nil
	}
	if !isDaemonUnavailable(err) {
		return nil, false, err
	}

	if launchErr := Launch(executablePath, opts); launchErr != nil {
		return nil, false, launchErr
	}
	client, err = WaitForClient(socketPath, waitTimeout)
	if err != nil {
		return nil, false, err
	}
	return client, true, nil
}

// StopAndTerminate requests daemon shutdown over IPC and waits for the
// socket to disappear.
func StopAndTerminate(socketPath string, gracePeriod time.Duration) error {
	client, err := ipc.Dial(socketPath)
	if err != nil {
		if isDaemonUnavailable(err) {
			return ErrDaemonNotRunning
		}
		return err
	}

	_, shutdownErr := client.Shutdown()
	_ = client.Close()
	if shutdownErr != nil {
		return fmt.Errorf("request shutdown: %w", shutdownErr)
	}

	return WaitForShutdown(socketPath, gracePeriod)
}

// WaitForShutdown waits for daemon IPC to disappear.
func WaitForShutdown(socketPath string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		client, err := ipc.Dial(socketPath)
		if err != nil {
			if isDaemonUnavailable(err) {
				return nil
			}
			lastErr = err
			time.Sleep(200 * time.Millisecond)
			continue
		}
		_ = client.Close()
		lastErr = fmt.Errorf("daemon still running")
		time.Sleep(200 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for shutdown")
	}
	return fmt.Errorf("daemon did not stop: %w", lastErr)
}

func isDaemonUnavailable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.ENOENT) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENOTSOCK)
}
