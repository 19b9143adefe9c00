package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNewsCmd(a *app) *cobra.Command {
	var (
		page    int
		perPage int
	)

	cmd := &cobra.Command{
		Use:   "news",
		Short: "Print one page of the feed, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if perPage <= 0 {
				perPage = a.cfg.PerPage
			}
			p := a.reader.NewsPage(cmd.Context(), page, perPage)

			out := cmd.OutOrStdout()
			if a.asJSON {
				return writeJSON(out, p)
			}

			fmt.Fprintf(out, "Page %d/%d (%d items)\n", p.CurrentPage, p.TotalPages, p.TotalItems)
			if len(p.Items) == 0 {
				fmt.Fprintln(out, "\nNo news yet.")
				return nil
			}
			for _, item := range p.Items {
				fmt.Fprintln(out)
				writeItem(out, item, a.labelLang())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number (clamped to the available range)")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "items per page (default from config)")
	return cmd
}
