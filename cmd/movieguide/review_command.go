package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"movieguide/internal/metadata"
	"movieguide/internal/pipeline"
	"movieguide/internal/titleparse"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "review <title>",
		Short: "Compose a review for a title without posting it",
		Long: "Resolves the title against the metadata providers and prints the " +
			"review markdown to stdout. The argument may also be a raw post " +
			"title; noise and a bracketed year are stripped first.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			raw := strings.Join(args, " ")
			query := metadata.Query{Title: raw, Year: year}
			if candidate := titleparse.MustDefault().Extract(raw); candidate.Title != "" {
				query.Title = candidate.Title
				if year == 0 {
					query.Year = candidate.Year
				}
			}

			store, err := ctx.openStore()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer func() { _ = store.Close() }()

			processor, err := pipeline.ProcessorFromConfig(cfg, store, ctx.ensureLogger())
			if err != nil {
				return err
			}

			text, err := processor.Preview(cmd.Context(), query)
			if err != nil {
				if errors.Is(err, metadata.ErrNotFound) {
					return fmt.Errorf("no match for %q", query.String())
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "Release year, when the title alone is ambiguous")
	return cmd
}
