package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"movieguide/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Scan the feed once and review new posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := ctx.openStore()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer func() { _ = store.Close() }()

			runner, err := pipeline.FromConfig(cfg, store, ctx.ensureLogger())
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			stats, err := runner.Run(runCtx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"Scan %s: %d fetched, %d processed (%d exact, %d partial, %d nomatch, %d waiting, %d errors)\n",
				stats.RunID, stats.Fetched, stats.Processed,
				stats.Exact, stats.Partial, stats.NoMatch, stats.Waiting, stats.Errors)
			return nil
		},
	}
}
