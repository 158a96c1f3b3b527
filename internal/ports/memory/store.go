// Package memory provides an in-process KeyValueStore.
package memory

import (
	"context"
	"sync"

	"lora/internal/ports"
)

// Store keeps values in a map. The zero value is not usable; call NewStore.
type Store struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{items: make(map[string]string)}
}

func (s *Store) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *Store) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *Store) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Len reports how many keys are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

var _ ports.KeyValueStore = (*Store)(nil)
