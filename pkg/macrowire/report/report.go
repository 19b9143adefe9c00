package report

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/macrowire/pkg/macrowire/internalerr"
	"github.com/cognicore/macrowire/pkg/macrowire/status"
)

// Builder constructs ingestion health reports from a status index
type Builder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New creates a new report builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// IndexState says whether the index behind a report could be read.
type IndexState int

const (
	IndexOK IndexState = iota
	IndexMissing
	IndexInvalid
	IndexUnreadable
)

// StateOf classifies the error returned by status.Read.
func StateOf(err error) IndexState {
	switch {
	case err == nil:
		return IndexOK
	case errors.Is(err, internalerr.ErrNotFound):
		return IndexMissing
	case errors.Is(err, internalerr.ErrMalformed):
		return IndexInvalid
	default:
		return IndexUnreadable
	}
}

// Report is a per-source summary of the last ingestion run
type Report struct {
	ID          string
	GeneratedAt time.Time
	State       IndexState
	Rows        []Row
	Alerts      []status.Alert
}

// Notice explains why a report has no content, or is empty when the index
// was read.
func (r Report) Notice() string { return r.State.Notice() }

// Notice is the message shown in place of the per-source table.
func (s IndexState) Notice() string {
	switch s {
	case IndexMissing:
		return "No index.json available for per-source stats."
	case IndexInvalid:
		return "index.json is not valid JSON."
	case IndexUnreadable:
		return "index.json could not be read."
	default:
		return ""
	}
}

// Row is one source's line in the report. Missing counters read as 0 and
// missing strings as "".
type Row struct {
	SourceID      string
	Fetched       int64
	New           int64
	Skipped       int64
	Status        string
	FailureStreak int64
	ZeroNewStreak int64
	LastRun       string
	LastError     string
}

// Build creates a report from idx, with rows ordered by source id. readErr
// is the error status.Read returned alongside idx, if any.
func (b *Builder) Build(idx status.Index, readErr error, now time.Time) Report {
	b.mu.Lock()
	id := ulid.MustNew(ulid.Timestamp(now), b.entropy).String()
	b.mu.Unlock()

	rep := Report{
		ID:          id,
		GeneratedAt: now,
		State:       StateOf(readErr),
		Rows:        make([]Row, 0, len(idx.Sources)),
		Alerts:      append([]status.Alert{}, idx.Alerts...),
	}

	for sourceID, st := range idx.Sources {
		rep.Rows = append(rep.Rows, Row{
			SourceID:      sourceID,
			Fetched:       deref(st.Fetched),
			New:           deref(st.New),
			Skipped:       deref(st.Skipped),
			Status:        st.Status,
			FailureStreak: deref(st.FailureStreak),
			ZeroNewStreak: deref(st.ZeroNewStreak),
			LastRun:       st.LastRun,
			LastError:     st.LastError,
		})
	}
	sort.Slice(rep.Rows, func(i, j int) bool {
		return rep.Rows[i].SourceID < rep.Rows[j].SourceID
	})

	return rep
}

// Headers are the column titles of the per-source table.
var Headers = []string{"Source", "Fetched", "New", "Skipped", "Status", "Failure Streak", "Zero New Streak", "Last Run"}

// Cells returns the row's values in Headers order.
func (r Row) Cells() []string {
	return []string{
		r.SourceID,
		fmt.Sprint(r.Fetched),
		fmt.Sprint(r.New),
		fmt.Sprint(r.Skipped),
		r.Status,
		fmt.Sprint(r.FailureStreak),
		fmt.Sprint(r.ZeroNewStreak),
		r.LastRun,
	}
}

// WriteMarkdown renders the report as a GitHub job summary section.
func (r Report) WriteMarkdown(w io.Writer) error {
	ew := &errWriter{w: w}

	if notice := r.Notice(); notice != "" {
		ew.printf("\n%s\n", notice)
		return ew.err
	}

	if len(r.Rows) == 0 {
		ew.printf("\nNo per-source stats recorded.\n")
	} else {
		ew.printf("\nPer-source stats:\n")
		ew.printf("| Source | Fetched | New | Skipped | Status | Failure Streak | Zero New Streak | Last Run |\n")
		ew.printf("| --- | ---: | ---: | ---: | --- | ---: | ---: | --- |\n")
		for _, row := range r.Rows {
			ew.printf("| %s | %d | %d | %d | %s | %d | %d | %s |\n",
				row.SourceID, row.Fetched, row.New, row.Skipped, row.Status,
				row.FailureStreak, row.ZeroNewStreak, row.LastRun)
		}
	}

	if len(r.Alerts) > 0 {
		ew.printf("\nAlerts:\n")
		for _, a := range r.Alerts {
			ew.printf("- %s: %s (streak=%d) %s last_run=%s last_error=%s\n",
				a.SourceID, a.Type, a.Streak, a.Message, a.LastRun, a.LastError)
		}
	}

	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
