package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"movieguide/internal/titleparse"
)

func newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "parse <post title>",
		Short:       "Extract the movie title and year from a post title",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			candidate := titleparse.MustDefault().Extract(title)
			out := cmd.OutOrStdout()
			if candidate.Title == "" {
				fmt.Fprintf(out, "No title found in %q\n", title)
				return nil
			}
			fmt.Fprintf(out, "Title: %s\nYear:  %d\n", candidate.Title, candidate.Year)
			return nil
		},
	}
}
