package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"poolman/internal/daemonctl"
	"poolman/internal/ipc"
)

const daemonWaitTimeout = 10 * time.Second

func newInstallCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Download and install the p2pool release binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			client, launched, err := ensureDaemon(ctx)
			if err != nil {
				return err
			}
			defer client.Close()
			if launched {
				fmt.Fprintln(stdout, "Daemon not running, launching...")
			}

			installed, err := client.Installed()
			if err != nil {
				return err
			}
			if installed.Installed {
				fmt.Fprintln(stdout, "p2pool is already installed")
				return nil
			}

			if _, err := client.Download(); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Download scheduled; track the outcome with `poolman history --downloads`")
			return nil
		},
	}
}

func newStartCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start mining with the configured wallet and chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			client, launched, err := ensureDaemon(ctx)
			if err != nil {
				return err
			}
			defer client.Close()
			if launched {
				fmt.Fprintln(stdout, "Daemon not running, launching...")
			}

			resp, err := client.Start()
			if err != nil {
				return err
			}
			if !resp.Started {
				if msg := strings.TrimSpace(resp.Message); msg != "" {
					return errors.New(msg)
				}
				return errors.New("pool start failed")
			}
			fmt.Fprintln(stdout, "p2pool started")
			return nil
		},
	}
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the p2pool process",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Stop()
				if err != nil {
					return err
				}
				if !resp.Stopped {
					if msg := strings.TrimSpace(resp.Message); msg != "" {
						return errors.New(msg)
					}
					return errors.New("pool stop failed")
				}
				fmt.Fprintln(stdout, "p2pool stopped")
				return nil
			})
		},
	}
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and mining status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			client, err := ctx.dialClient()
			if err != nil {
				for _, line := range renderSectionHeader("Poolman Status", colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, renderStatusLine("Daemon", statusWarn, "Not running", colorize))
				return nil
			}
			defer client.Close()

			resp, err := client.Status()
			if err != nil {
				return err
			}
			renderStatus(stdout, resp, colorize)
			return nil
		},
	}
}

func ensureDaemon(ctx *commandContext) (*ipc.Client, bool, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, false, fmt.Errorf("resolve executable: %w", err)
	}
	return daemonctl.EnsureRunning(
		ctx.socketPath(),
		exe,
		launchOptions(ctx),
		daemonWaitTimeout,
	)
}

func launchOptions(ctx *commandContext) daemonctl.LaunchOptions {
	opts := daemonctl.LaunchOptions{}
	if ctx.socketFlag != nil {
		if socket := strings.TrimSpace(*ctx.socketFlag); socket != "" {
			opts.SocketPath = socket
		}
	}
	if ctx.configFlag != nil {
		if config := strings.TrimSpace(*ctx.configFlag); config != "" {
			opts.ConfigPath = config
		}
	}
	return opts
}
