package jsonl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/cognicore/macrowire/internal/logging"
	"github.com/cognicore/macrowire/pkg/macrowire/internalerr"
	"github.com/cognicore/macrowire/pkg/macrowire/store"
)

// Store reads news items from a newline-delimited JSON file.
type Store struct {
	path   string
	logger *log.Logger
}

// Open returns a store backed by the JSONL file at path. The file does not
// need to exist yet; a missing file loads as an empty corpus.
func Open(path string, logger *log.Logger) *Store {
	return &Store{path: path, logger: logging.OrDiscard(logger)}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Load reads and parses the whole file. Blank lines are ignored and lines
// that do not decode to a JSON object are skipped.
func (s *Store) Load(ctx context.Context) ([]store.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []store.Item{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	items := Parse(data, func(line int, err error) {
		s.logger.Debug("skipping malformed line", "path", s.path, "line", line, "err", err)
	})
	return items, nil
}

// Parse decodes JSONL content into items in file order. onSkip, if non-nil,
// is called with the 1-based line number of every line that was dropped.
func Parse(data []byte, onSkip func(line int, err error)) []store.Item {
	lines := strings.Split(string(data), "\n")
	items := make([]store.Item, 0, len(lines))

	for i, line := range lines {
		line = trimLine(line)
		if line == "" {
			continue
		}

		item, err := decodeLine(line)
		if err != nil {
			if onSkip != nil {
				onSkip(i+1, err)
			}
			continue
		}
		items = append(items, item)
	}

	return items
}

// trimLine strips surrounding whitespace and byte-order marks.
func trimLine(line string) string {
	return strings.TrimFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\ufeff'
	})
}

// decodeLine accepts any JSON object. Fields are matched by exact key and
// read only when they hold a string; anything else leaves the field empty.
func decodeLine(line string) (store.Item, error) {
	// Only objects are records; "null", numbers and arrays are not.
	if !strings.HasPrefix(line, "{") {
		return store.Item{}, fmt.Errorf("%w: not a JSON object", internalerr.ErrMalformed)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return store.Item{}, fmt.Errorf("%w: %v", internalerr.ErrMalformed, err)
	}

	return store.Item{
		Title:       stringField(fields, "title"),
		Summary:     stringField(fields, "summary"),
		PublishedAt: stringField(fields, "published_at"),
		SourceID:    stringField(fields, "source_id"),
		SourceName:  stringField(fields, "source_name"),
		ContentType: stringField(fields, "content_type"),
		URL:         stringField(fields, "url"),
		Language:    stringField(fields, "language"),
		Region:      stringField(fields, "region"),
	}, nil
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
