// Package recordstore persists validated set records downstream of the
// acquisition layer.
package recordstore

import (
	"context"
	"errors"
	"sync"

	"github.com/illmade-knight/go-setcache/pkg/setrecord"
)

// ErrRecordNotFound signals that no record exists under the requested code.
var ErrRecordNotFound = errors.New("record not found")

// Store is the minimal contract the acquisition runner needs: persist a
// freshly fetched record, read one back by set code.
type Store interface {
	Save(ctx context.Context, record *setrecord.Record) error
	Get(ctx context.Context, code string) (*setrecord.Record, error)
}

// InMemoryStore is a thread-safe, in-memory Store for tests and local runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]setrecord.Record
}

// NewInMemoryStore creates an empty in-memory record store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]setrecord.Record)}
}

// Save stores a copy of the record keyed by its set code.
func (s *InMemoryStore) Save(_ context.Context, record *setrecord.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Code] = *record
	return nil
}

// Get returns the record stored under code.
func (s *InMemoryStore) Get(_ context.Context, code string) (*setrecord.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[code]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &record, nil
}
