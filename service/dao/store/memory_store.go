package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/stride/service/dao"
)

// MemoryStore is a generic in-memory implementation of dao.Service.
// It keeps entities of type *T mapped by a comparable key K.
// The key is obtained from the supplied keySelector function.
//
// Kernel tables embed the store so that Save/Load/Delete/List live in one
// place for every entity type.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	keySelector func(*T) K
	attribute   func(t *T, name string) (string, bool)
}

// Option customises a MemoryStore.
type Option[K comparable, T any] func(*MemoryStore[K, T])

// WithAttribute lets List filter by dao.Parameter. fn returns the string
// form of the named attribute, or false when the entity has no such
// attribute.
func WithAttribute[K comparable, T any](fn func(t *T, name string) (string, bool)) Option[K, T] {
	return func(s *MemoryStore[K, T]) { s.attribute = fn }
}

// NewMemoryStore creates a new MemoryStore.
// keySelector extracts the entity key (usually the ID field) from a value.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K, opts ...Option[K, T]) *MemoryStore[K, T] {
	s := &MemoryStore[K, T]{
		records:     make(map[K]*T),
		keySelector: keySelector,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save stores or overwrites a record.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = v
	return nil
}

// Load returns a record by key.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("key %v: %w", key, dao.ErrNotFound)
	}
	return v, nil
}

// Delete removes a record. Deleting an absent key is not an error.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// List returns the stored records matching every parameter, in no
// particular order.
func (s *MemoryStore[K, T]) List(_ context.Context, parameters ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.records))
	for _, v := range s.records {
		if s.matches(v, parameters) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Len returns the number of records.
func (s *MemoryStore[K, T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore[K, T]) matches(v *T, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		if s.attribute == nil {
			return false
		}
		actual, ok := s.attribute(v, parameter.Name)
		if !ok || !parameter.Matches(actual) {
			return false
		}
	}
	return true
}
