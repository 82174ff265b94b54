// Package memory implements an in-process record store used by tests and
// the memory backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"tracker/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items []core.Record
}

func New(seed ...core.Record) *Store {
	return &Store{items: append([]core.Record(nil), seed...)}
}

// Load returns a copy of the stored records in insertion order.
func (s *Store) Load(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Record(nil), s.items...), nil
}

// Append stores the record and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, r core.Record) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, r)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}
