package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cartshelf/internal/journal"
)

func newHistoryCommand(cctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent command runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			runs, err := journal.Open(cfg.Paths.LogDir)
			if err != nil {
				return err
			}
			defer runs.Close()

			recent, err := runs.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(recent))
			for _, run := range recent {
				duration := ""
				if !run.FinishedAt.IsZero() {
					duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
				}
				rows = append(rows, []string{
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.Command,
					run.Outcome,
					duration,
					strconv.Itoa(run.Counts.Created),
					strconv.Itoa(run.Counts.Updated),
					strconv.Itoa(run.Counts.Skipped),
					strconv.Itoa(run.Counts.Errored),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Started", "Command", "Outcome", "Duration", "New", "Updated", "Skipped", "Errors"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to show")
	return cmd
}
