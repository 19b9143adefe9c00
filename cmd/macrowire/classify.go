package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/cognicore/macrowire/pkg/macrowire/classify"
	"github.com/cognicore/macrowire/pkg/macrowire/store/jsonl"
)

type classifiedLine struct {
	Title     string             `json:"title"`
	SourceID  string             `json:"source_id"`
	Topics    []classify.TopicID `json:"topics"`
	EventType classify.EventType `json:"event_type"`
}

func newClassifyCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify JSONL news records read from stdin or --file",
		Long: `Read news records, one JSON object per line, and print each record's topics
and event type. Malformed lines are skipped, as the feed reader does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("opening input: %w", err)
				}
				defer f.Close()
				in = f
			}

			data, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			items := jsonl.Parse(data, func(line int, err error) {
				a.logger.Warn("skipping malformed line", "line", line, "err", err)
			})

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			enc.SetEscapeHTML(false)
			for _, item := range items {
				res := classify.Classify(item)
				if a.asJSON {
					if err := enc.Encode(classifiedLine{
						Title:     item.Title,
						SourceID:  item.SourceID,
						Topics:    res.Topics,
						EventType: res.EventType,
					}); err != nil {
						return err
					}
					continue
				}

				topics := lo.Map(res.Topics, func(t classify.TopicID, _ int) string { return string(t) })
				if len(topics) == 0 {
					topics = []string{"-"}
				}
				fmt.Fprintf(out, "%-11s %-40s %s\n", res.EventType, strings.Join(topics, ","), item.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "read records from this file instead of stdin")
	return cmd
}
