package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/macrowire/pkg/macrowire"
	"github.com/cognicore/macrowire/pkg/macrowire/report"
	"github.com/cognicore/macrowire/pkg/macrowire/status"
)

type overview struct {
	Topics  []macrowire.TopicBucket           `json:"topics"`
	Sources []macrowire.SourceSummary         `json:"sources"`
	Status  map[string]status.SourceRunStatus `json:"status"`
	Alerts  []status.Alert                    `json:"alerts"`
}

func newOverviewCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Print topic headlines, source counts and ingestion health together",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				limit = a.cfg.LimitPerTopic
			}

			var (
				ov       overview
				indexErr error
			)
			// The leaves degrade to empty results instead of failing; the only
			// error the group carries is cancellation.
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				ov.Topics = a.reader.LatestByTopic(ctx, limit)
				return ctx.Err()
			})
			g.Go(func() error {
				ov.Sources = a.reader.SourcesSummary(ctx)
				return ctx.Err()
			})
			g.Go(func() error {
				idx, err := a.reader.ReadIndex(ctx)
				ov.Status = idx.Sources
				ov.Alerts = idx.Alerts
				indexErr = err
				return ctx.Err()
			})
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.asJSON {
				return writeJSON(out, ov)
			}

			fmt.Fprintf(out, "Topics (%d)\n", len(ov.Topics))
			for _, b := range ov.Topics {
				headline := ""
				if len(b.Items) > 0 {
					headline = b.Items[0].Title
				}
				fmt.Fprintf(out, "  %-24s %3d  %s  %s\n", b.ID.LabelIn(a.labelLang()), len(b.Items), b.Latest, headline)
			}

			fmt.Fprintf(out, "\nSources (%d)\n", len(ov.Sources))
			for _, s := range ov.Sources {
				health := "-"
				if st, ok := ov.Status[s.ID]; ok && st.Status != "" {
					health = st.Status
				}
				fmt.Fprintf(out, "  %-28s %5d  %s\n", s.ID, s.Count, health)
			}

			if indexErr != nil {
				a.logger.Debug("status index unavailable", "err", indexErr)
				fmt.Fprintf(out, "\n%s\n", report.StateOf(indexErr).Notice())
			}

			if len(ov.Alerts) > 0 {
				sort.SliceStable(ov.Alerts, func(i, j int) bool {
					return ov.Alerts[i].SourceID < ov.Alerts[j].SourceID
				})
				fmt.Fprintf(out, "\nAlerts (%d)\n", len(ov.Alerts))
				for _, al := range ov.Alerts {
					fmt.Fprintf(out, "  %s: %s (streak=%d)\n", al.SourceID, al.Type, al.Streak)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "items per topic (default from config)")
	return cmd
}
