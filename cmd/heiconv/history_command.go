package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"heiconv/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show past conversion runs",
		Long: `Without arguments, lists recent runs from the history database.
With a run ID, lists the failed tasks recorded for that run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("run history is disabled; set history.enabled = true in the config")
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			if len(args) == 1 {
				return showRunFailures(cmd, store, args[0])
			}
			return showRecentRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}

func showRecentRuns(cmd *cobra.Command, store *history.Store, limit int) error {
	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
		return nil
	}

	rows := make([]table.Row, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, table.Row{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.Format,
			run.OutputDir,
			run.Total,
			run.Succeeded,
			run.Failed,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		table.Row{"Run", "Started", "Format", "Output", "Total", "OK", "Failed"},
		rows, 5, 6, 7,
	))
	return nil
}

func showRunFailures(cmd *cobra.Command, store *history.Store, runID string) error {
	failures, err := store.Failures(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if len(failures) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No failures recorded for run %s\n", runID)
		return nil
	}

	rows := make([]table.Row, 0, len(failures))
	for _, failure := range failures {
		rows = append(rows, table.Row{
			failure.Task.Index,
			failure.Task.SourcePath,
			failure.Kind.String(),
			failure.Detail,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		table.Row{"#", "Source", "Kind", "Detail"},
		rows, 1,
	))
	return nil
}
