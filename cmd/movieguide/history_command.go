package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"movieguide/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect processed posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryStatsCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recently processed posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer func() { _ = store.Close() }()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No posts processed yet.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				match := entry.MatchTitle
				if entry.MatchYear > 0 {
					match = fmt.Sprintf("%s (%d)", entry.MatchTitle, entry.MatchYear)
				}
				rows = append(rows, []string{
					entry.PostID,
					truncate(entry.PostTitle, 48),
					string(entry.Status),
					match,
					entry.UpdatedAt.Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(
				out,
				[]string{"Post", "Title", "Status", "Match", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show")
	return cmd
}

func newHistoryStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show outcome counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer func() { _ = store.Close() }()

			counts, err := store.CountByStatus(cmd.Context())
			if err != nil {
				return err
			}

			statuses := []history.Status{
				history.StatusExact,
				history.StatusPartial,
				history.StatusNoMatch,
				history.StatusWaiting,
			}
			rows := make([][]string, 0, len(statuses))
			total := 0
			for _, status := range statuses {
				rows = append(rows, []string{string(status), strconv.Itoa(counts[status])})
				total += counts[status]
			}
			rows = append(rows, []string{"total", strconv.Itoa(total)})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				out,
				[]string{"Status", "Posts"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
