// Package status reads the ingestion pipeline's index file: per-source
// run health plus any alerts the pipeline raised. The records are produced
// elsewhere and passed through untouched.
package status

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/cognicore/macrowire/pkg/macrowire/internalerr"
)

// SourceRunStatus is the pipeline's record of the last run for one source.
// The raw JSON is kept and marshalled back verbatim; the typed fields are a
// best-effort view and stay zero when the producer wrote something else.
type SourceRunStatus struct {
	Fetched       *int64
	New           *int64
	Skipped       *int64
	Status        string
	FailureStreak *int64
	ZeroNewStreak *int64
	LastRun       string
	LastError     string

	raw json.RawMessage
}

// Raw returns the record exactly as the producer wrote it.
func (s SourceRunStatus) Raw() json.RawMessage { return s.raw }

// UnmarshalJSON keeps the raw bytes and decodes each known field on its own,
// so one oddly typed field does not hide the others.
func (s *SourceRunStatus) UnmarshalJSON(data []byte) error {
	*s = SourceRunStatus{raw: append(json.RawMessage(nil), data...)}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		// Not an object: pass through as-is with no typed view.
		return nil
	}

	s.Fetched = intField(fields, "fetched")
	s.New = intField(fields, "new")
	s.Skipped = intField(fields, "skipped")
	s.FailureStreak = intField(fields, "failure_streak")
	s.ZeroNewStreak = intField(fields, "zero_new_streak")
	s.Status = stringField(fields, "status")
	s.LastRun = stringField(fields, "last_run")
	s.LastError = stringField(fields, "last_error")
	return nil
}

// MarshalJSON writes the original record back out.
func (s SourceRunStatus) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("{}"), nil
	}
	return s.raw, nil
}

// Alert is a pipeline warning about one source, such as a failure streak.
type Alert struct {
	SourceID  string `json:"source_id"`
	Type      string `json:"type"`
	Streak    int64  `json:"streak"`
	Message   string `json:"message"`
	LastRun   string `json:"last_run"`
	LastError string `json:"last_error"`
}

// Index is the decoded index file.
type Index struct {
	Sources map[string]SourceRunStatus
	Alerts  []Alert
}

type rawIndex struct {
	LastRun json.RawMessage `json:"last_run"`
	Alerts  json.RawMessage `json:"alerts"`
}

type rawLastRun struct {
	Sources map[string]SourceRunStatus `json:"sources"`
}

// Read decodes the index at path. A missing file returns an error wrapping
// internalerr.ErrNotFound and a document that is not JSON one wrapping
// internalerr.ErrMalformed. Sections that are present but malformed are
// dropped individually rather than failing the whole document.
func Read(path string) (Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return emptyIndex(), fmt.Errorf("%w: index %s", internalerr.ErrNotFound, path)
		}
		return emptyIndex(), fmt.Errorf("read index %s: %w", path, err)
	}
	return Decode(data)
}

// Load is Read without the error: any failure yields an empty index.
func Load(path string) Index {
	idx, err := Read(path)
	if err != nil {
		return emptyIndex()
	}
	return idx
}

// Decode parses an index document.
func Decode(data []byte) (Index, error) {
	idx := emptyIndex()

	var raw rawIndex
	if err := json.Unmarshal(data, &raw); err != nil {
		return idx, fmt.Errorf("%w: decode index: %v", internalerr.ErrMalformed, err)
	}

	if isObject(raw.LastRun) {
		var lr rawLastRun
		if err := json.Unmarshal(raw.LastRun, &lr); err == nil && lr.Sources != nil {
			idx.Sources = lr.Sources
		}
	}

	if len(raw.Alerts) > 0 {
		var alerts []json.RawMessage
		if err := json.Unmarshal(raw.Alerts, &alerts); err == nil {
			for _, a := range alerts {
				var alert Alert
				if err := json.Unmarshal(a, &alert); err == nil {
					idx.Alerts = append(idx.Alerts, alert)
				}
			}
		}
	}

	return idx, nil
}

func emptyIndex() Index {
	return Index{Sources: map[string]SourceRunStatus{}, Alerts: []Alert{}}
}

func isObject(data json.RawMessage) bool {
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("{"))
}

func intField(fields map[string]json.RawMessage, key string) *int64 {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	// json.Number also accepts quoted numerals; counters must be bare.
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte(`"`)) {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}
	v, err := n.Int64()
	if err != nil {
		return nil
	}
	return &v
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
