package store

import (
	"context"
	"sort"
)

// Store is a read-only source of news items. Implementations re-read their
// backing data on every Load call; nothing is cached between calls.
type Store interface {
	// Load returns every record the store holds, in storage order.
	// A missing backing file is an empty store, not an error.
	Load(ctx context.Context) ([]Item, error)
	Close() error
}

// Item is one ingested news record as written by the crawler.
type Item struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	PublishedAt string `json:"published_at"` // ISO-8601, compared as a string
	SourceID    string `json:"source_id"`
	SourceName  string `json:"source_name"`
	ContentType string `json:"content_type"`

	// Optional fields some adapters fill in.
	URL      string `json:"url,omitempty"`
	Language string `json:"language,omitempty"`
	Region   string `json:"region,omitempty"`
}

// SortByRecency orders items newest first by plain string comparison of
// PublishedAt. The sort is stable so equal timestamps keep storage order.
func SortByRecency(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt > items[j].PublishedAt
	})
}
