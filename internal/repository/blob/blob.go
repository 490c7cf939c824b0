package blob

import (
	"context"
	"sync"
)

// Store is a flat key-value store of opaque payloads.
type Store interface {
	// Get returns the payload under key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put overwrites the payload under key.
	Put(ctx context.Context, key string, payload []byte) error
}

// Memory is an in-process Store. Payloads are copied on the way in and out.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
	writes map[string]int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		values: make(map[string][]byte),
		writes: make(map[string]int),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Put(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), payload...)
	m.writes[key]++
	return nil
}

// Writes returns how many times key has been written.
func (m *Memory) Writes(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes[key]
}
