package memstore

import (
	"context"
	"sync"
)

// Store keeps values in process memory; nothing survives a restart.
type Store struct {
	mu    sync.RWMutex
	items map[string]string
}

func New() *Store {
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
