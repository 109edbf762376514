// Package memstore is an in-memory vocab.Store for tests.
package memstore

import (
	"context"
	"sync"
)

// Store keeps labels in memory.
type Store struct {
	mu     sync.RWMutex
	labels []string
}

// New creates a store seeded with the given labels.
func New(seed ...string) *Store {
	return &Store{labels: append([]string(nil), seed...)}
}

// Load implements vocab.Store.
func (s *Store) Load(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.labels...), nil
}

// Save implements vocab.Store.
func (s *Store) Save(ctx context.Context, labels []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels = append([]string(nil), labels...)
	return nil
}

// Close implements vocab.Store.
func (s *Store) Close() error { return nil }
