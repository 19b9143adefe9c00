package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSourcesCmd(a *app) *cobra.Command {
	var (
		limit   int
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Print the latest items of every source",
		Long: `Print the latest items of every source, most recently updated source first.

With --summary, print the total item count per source instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if summary {
				rows := a.reader.SourcesSummary(cmd.Context())
				if a.asJSON {
					return writeJSON(out, rows)
				}
				if len(rows) == 0 {
					fmt.Fprintln(out, "No sources.")
					return nil
				}
				for _, r := range rows {
					fmt.Fprintf(out, "%-28s %-36s %d\n", r.ID, r.Name, r.Count)
				}
				return nil
			}

			if limit <= 0 {
				limit = a.cfg.LimitPerSource
			}
			buckets := a.reader.LatestBySource(cmd.Context(), limit)
			if a.asJSON {
				return writeJSON(out, buckets)
			}
			if len(buckets) == 0 {
				fmt.Fprintln(out, "No sources.")
				return nil
			}
			for _, b := range buckets {
				fmt.Fprintf(out, "== %s (%s) latest %s\n", b.Name, b.ID, b.Latest)
				for _, item := range b.Items {
					writeItem(out, item, a.labelLang())
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "items per source (default from config)")
	cmd.Flags().BoolVar(&summary, "summary", false, "print item counts per source")
	return cmd
}
