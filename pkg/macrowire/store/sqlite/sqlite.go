package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/cognicore/macrowire/pkg/macrowire/internalerr"
	"github.com/cognicore/macrowire/pkg/macrowire/store"
)

const selectNews = `
SELECT
	COALESCE(title, ''),
	COALESCE(summary, ''),
	COALESCE(published_at, ''),
	COALESCE(source_id, ''),
	COALESCE(source_name, ''),
	COALESCE(content_type, ''),
	COALESCE(url, ''),
	COALESCE(language, ''),
	COALESCE(region, '')
FROM news
ORDER BY published_at DESC
`

// sqliteStore reads news items from a SQLite database written by the
// ingestion pipeline. The database is opened read-only and lazily, so a
// missing file behaves like an empty corpus.
type sqliteStore struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// OpenSQLite returns a read-only store over the database at path.
func OpenSQLite(path string) store.Store {
	return &sqliteStore{path: path}
}

// Close closes the database connection if one was opened.
func (s *sqliteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Load returns every row of the news table.
func (s *sqliteStore) Load(ctx context.Context) ([]store.Item, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []store.Item{}, nil
		}
		return nil, fmt.Errorf("stat %s: %w", s.path, err)
	}

	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectNews)
	if err != nil {
		return nil, fmt.Errorf("%w: query news: %v", internalerr.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	items := []store.Item{}
	for rows.Next() {
		var it store.Item
		if err := rows.Scan(
			&it.Title,
			&it.Summary,
			&it.PublishedAt,
			&it.SourceID,
			&it.SourceName,
			&it.ContentType,
			&it.URL,
			&it.Language,
			&it.Region,
		); err != nil {
			return nil, fmt.Errorf("scan news row: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *sqliteStore) conn() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	db, err := sql.Open("sqlite", "file:"+s.path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", internalerr.ErrStoreUnavailable, s.path, err)
	}
	s.db = db
	return db, nil
}
