package memstore

import (
	"context"
	"sync"

	"github.com/cognicore/macrowire/pkg/macrowire/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu    sync.RWMutex
	items []store.Item
	err   error
	loads int
}

// New creates a store holding a copy of items, in the given order.
func New(items ...store.Item) *Store {
	s := &Store{}
	s.Set(items...)
	return s
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Set replaces the stored items.
func (s *Store) Set(items ...store.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]store.Item(nil), items...)
}

// Append adds items after the existing ones, like a producer appending lines.
func (s *Store) Append(items ...store.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
}

// FailWith makes every subsequent Load return err. Pass nil to clear.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Loads reports how many times Load has been called.
func (s *Store) Loads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loads
}

// Load returns a copy of the stored items so callers may sort freely.
func (s *Store) Load(ctx context.Context) ([]store.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]store.Item, len(s.items))
	copy(out, s.items)
	return out, nil
}
