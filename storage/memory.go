package storage

import (
	"context"
	"maps"
	"sync"
)

// memoryBackend keeps the flow record in process memory. It is the default
// session tier. The record is copied on the way in and out so callers never
// share the stored map.
type memoryBackend struct {
	mu     sync.Mutex
	record map[string]string
}

func NewMemory() *memoryBackend {
	return &memoryBackend{}
}

func (m *memoryBackend) Get(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.record == nil {
		return map[string]string{}, nil
	}
	return maps.Clone(m.record), nil
}

func (m *memoryBackend) Set(ctx context.Context, record map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = maps.Clone(record)
	return nil
}

func (m *memoryBackend) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = nil
	return nil
}
