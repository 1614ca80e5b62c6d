package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"poolman/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var downloads bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded hashrate samples or download attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("history is disabled in the configuration")
			}

			store, err := history.Open(cfg.HistoryDBPath())
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			stdout := cmd.OutOrStdout()
			if downloads {
				attempts, err := store.RecentAttempts(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("read download attempts: %w", err)
				}
				if len(attempts) == 0 {
					fmt.Fprintln(stdout, "No download attempts recorded")
					return nil
				}
				fmt.Fprintln(stdout, renderAttemptsTable(attempts))
				return nil
			}

			samples, err := store.RecentSamples(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read samples: %w", err)
			}
			if len(samples) == 0 {
				fmt.Fprintln(stdout, "No hashrate samples recorded")
				return nil
			}
			fmt.Fprintln(stdout, renderSamplesTable(samples))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of rows to show")
	cmd.Flags().BoolVar(&downloads, "downloads", false, "Show download attempts instead of hashrate samples")
	return cmd
}

func renderSamplesTable(samples []history.Sample) string {
	rows := make([][]string, 0, len(samples))
	for _, sample := range samples {
		rows = append(rows, []string{
			sample.RecordedAt.Local().Format(time.DateTime),
			yesNo(sample.Running),
			formatHashrate(sample.Hashrate),
		})
	}
	return renderTable([]string{"Recorded", "Mining", "Hashrate"}, rows, 3)
}

func renderAttemptsTable(attempts []history.Attempt) string {
	rows := make([][]string, 0, len(attempts))
	for _, attempt := range attempts {
		duration := attempt.FinishedAt.Sub(attempt.StartedAt).Round(time.Millisecond)
		rows = append(rows, []string{
			attempt.StartedAt.Local().Format(time.DateTime),
			attempt.Version,
			attempt.Outcome,
			duration.String(),
			attempt.Detail,
		})
	}
	return renderTable([]string{"Started", "Version", "Outcome", "Duration", "Detail"}, rows, 4)
}
