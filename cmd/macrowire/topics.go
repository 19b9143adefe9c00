package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/macrowire/pkg/macrowire"
	"github.com/cognicore/macrowire/pkg/macrowire/classify"
)

func newTopicsCmd(a *app) *cobra.Command {
	var (
		limit int
		only  string
	)

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Print the latest items of every topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				limit = a.cfg.LimitPerTopic
			}

			buckets := a.reader.LatestByTopic(cmd.Context(), limit)
			if only != "" {
				topic, err := classify.ParseTopic(only)
				if err != nil {
					return err
				}
				buckets = filterTopic(buckets, topic)
			}

			out := cmd.OutOrStdout()
			if a.asJSON {
				return writeJSON(out, buckets)
			}
			if len(buckets) == 0 {
				fmt.Fprintln(out, "No topics.")
				return nil
			}
			writeTopicBuckets(cmd, a, buckets)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "items per topic (default from config)")
	cmd.Flags().StringVar(&only, "topic", "", "show a single topic, e.g. rates_liquidity")
	return cmd
}

func filterTopic(buckets []macrowire.TopicBucket, topic classify.TopicID) []macrowire.TopicBucket {
	out := []macrowire.TopicBucket{}
	for _, b := range buckets {
		if b.ID == topic {
			out = append(out, b)
		}
	}
	return out
}

func writeTopicBuckets(cmd *cobra.Command, a *app, buckets []macrowire.TopicBucket) {
	out := cmd.OutOrStdout()
	for _, b := range buckets {
		fmt.Fprintf(out, "== %s (%s) latest %s\n", b.ID.LabelIn(a.labelLang()), b.ID, b.Latest)
		for _, item := range b.Items {
			writeItem(out, item, a.labelLang())
		}
		fmt.Fprintln(out)
	}
}
