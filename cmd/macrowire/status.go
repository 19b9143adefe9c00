package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/cognicore/macrowire/pkg/macrowire/report"
)

const (
	formatTable    = "table"
	formatMarkdown = "markdown"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	failStyle   = cellStyle.Foreground(lipgloss.Color("9"))
)

func newStatusCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print per-source ingestion health from index.json",
		Long: `Print the last run of every source as recorded in index.json, followed by any
alerts the pipeline raised. --format markdown emits a GitHub job summary section.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			idx, readErr := a.reader.ReadIndex(cmd.Context())
			if readErr != nil {
				a.logger.Debug("status index unavailable", "err", readErr)
			}

			if a.asJSON {
				return writeJSON(out, idx.Sources)
			}

			rep := report.New().Build(idx, readErr, time.Now().UTC())
			a.logger.Debug("built status report", "id", rep.ID, "sources", len(rep.Rows), "alerts", len(rep.Alerts))

			switch format {
			case formatMarkdown:
				return rep.WriteMarkdown(out)
			case formatTable:
				writeStatusTable(out, rep)
				return nil
			default:
				return fmt.Errorf("unknown format %q (valid: table, markdown)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table or markdown")
	return cmd
}

func writeStatusTable(w io.Writer, rep report.Report) {
	if notice := rep.Notice(); notice != "" {
		fmt.Fprintln(w, notice)
		return
	}

	if len(rep.Rows) == 0 {
		fmt.Fprintln(w, "No per-source stats recorded.")
	} else {
		rows := lo.Map(rep.Rows, func(r report.Row, _ int) []string { return r.Cells() })
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(report.Headers...).
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if row >= 0 && row < len(rep.Rows) && rep.Rows[row].FailureStreak > 0 {
					return failStyle
				}
				return cellStyle
			})
		fmt.Fprintln(w, t.Render())
	}

	if len(rep.Alerts) > 0 {
		fmt.Fprintln(w, "\nAlerts:")
		for _, al := range rep.Alerts {
			fmt.Fprintf(w, "- %s: %s (streak=%d) %s\n", al.SourceID, al.Type, al.Streak, al.Message)
		}
	}
}
