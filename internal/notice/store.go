package notice

import (
	"context"
	"sync"
)

// Store is a persistent boolean flag store. Get reports false for keys that
// were never set.
type Store interface {
	Get(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string, value bool) error
}

// MemoryStore keeps flags for the lifetime of the process
type MemoryStore struct {
	mu    sync.RWMutex
	flags map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{flags: make(map[string]bool)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags[key], nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[key] = value
	return nil
}
