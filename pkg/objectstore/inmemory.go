package objectstore

import (
	"context"
	"sync"
	"time"
)

type inMemoryObject struct {
	body []byte
	meta Metadata
}

// InMemoryStore is a thread-safe, in-memory implementation of Client, used in
// tests and local runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	objects map[string]inMemoryObject
	now     func() time.Time
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		objects: make(map[string]inMemoryObject),
		now:     time.Now,
	}
}

// GetMetadata returns a copy of the stored attributes.
func (s *InMemoryStore) GetMetadata(_ context.Context, key string) (*Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	meta := obj.meta
	return &meta, nil
}

// GetBody returns the stored object body.
func (s *InMemoryStore) GetBody(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return append([]byte(nil), obj.body...), nil
}

// PutBody creates or overwrites the object under key.
func (s *InMemoryStore) PutBody(_ context.Context, key string, body []byte, contentType string, tags map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = inMemoryObject{
		body: append([]byte(nil), body...),
		meta: Metadata{
			LastModified: s.now().UTC(),
			ContentType:  contentType,
			Tags:         tags,
		},
	}
	return nil
}
