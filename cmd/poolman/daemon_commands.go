package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"poolman/internal/daemonctl"
	"poolman/internal/daemonrun"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Control the poolman supervisor daemon",
	}

	daemonCmd.AddCommand(newDaemonStartCommand(ctx))
	daemonCmd.AddCommand(newDaemonStopCommand(ctx))
	daemonCmd.AddCommand(newDaemonRunCommand(ctx))

	return daemonCmd
}

func newDaemonStartCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Launch the supervisor daemon if it is not running",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			client, launched, err := ensureDaemon(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			if launched {
				fmt.Fprintln(stdout, "Daemon started")
				return nil
			}
			fmt.Fprintln(stdout, "Daemon already running")
			return nil
		},
	}
}

func newDaemonStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Shut down the supervisor daemon",
		Long:  "Shut down the supervisor daemon process. The p2pool process, if running, keeps running; use `poolman stop` first to terminate it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			err := daemonctl.StopAndTerminate(ctx.socketPath(), 10*time.Second)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(stdout, "Daemon not running")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Daemon stopped")
			return nil
		},
	}
}

func newDaemonRunCommand(ctx *commandContext) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:    "run",
		Short:  "Run the supervisor daemon in the foreground",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			opts := daemonrun.Options{LogLevel: logLevel}
			if ctx.socketFlag != nil {
				opts.SocketPath = *ctx.socketFlag
			}
			if err := daemonrun.Run(cmd.Context(), cfg, opts); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	return cmd
}
