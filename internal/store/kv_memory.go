package store

import (
	"context"
	"fmt"
	"sync"
)

// memoryKV is the in-memory [KVStore] used in tests and as the fallback when
// no data directory is configured. Contents do not survive the process.
type memoryKV struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryKV returns an empty in-memory [KVStore].
func NewMemoryKV() KVStore {
	return &memoryKV{items: make(map[string][]byte)}
}

func (s *memoryKV) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *memoryKV) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.items[key] = stored
	return nil
}

func (s *memoryKV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}
