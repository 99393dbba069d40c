package pref

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps preferences in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]Value
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]Value)}
}

// NewMemoryBranch returns a branch over a fresh MemoryStore.
func NewMemoryBranch() *StoreBranch {
	return NewStoreBranch(NewMemoryStore())
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, name string) (Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[name], nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, name string, v Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = v
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, name)
	return nil
}

// Names returns the stored keys in sorted order.
func (s *MemoryStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
