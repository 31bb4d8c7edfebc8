package store

import (
	"context"
	"sync"

	"github.com/Infernape3000/Tenacio/internal/domain"
	"github.com/Infernape3000/Tenacio/internal/ports"
)

// MemoryStore is a non-durable ports.StateStore for local development and
// tests. State disappears with the process, which also means the quota
// resets with it.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

var (
	_ ports.StateStore    = (*MemoryStore)(nil)
	_ ports.HealthChecker = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Get implements ports.StateStore.
func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return "", domain.NewNotFoundError("state key", key)
	}

	return value, nil
}

// Set implements ports.StateStore.
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value

	return nil
}

// SetMany implements ports.StateStore under one lock acquisition.
func (m *MemoryStore) SetMany(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, value := range values {
		m.data[key] = value
	}

	return nil
}

// Delete implements ports.StateStore.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)

	return nil
}

// Name implements ports.HealthChecker.
func (m *MemoryStore) Name() string {
	return "state-store"
}

// Check implements ports.HealthChecker. Memory is always healthy.
func (m *MemoryStore) Check(_ context.Context) error {
	return nil
}
