package state

import (
	"context"
	"sync"

	"github.com/username/datepicker-bot/internal/menu"
)

// MemoryStore keeps states in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]menu.State
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]menu.State)}
}

// Load returns the state stored under key; ok is false when there is none
func (m *MemoryStore) Load(_ context.Context, key string) (menu.State, bool, error) {
	if key == "" {
		return menu.State{}, false, ErrEmptyKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.states[key]
	return s, ok, nil
}

// Save stores s under key, replacing any previous state
func (m *MemoryStore) Save(_ context.Context, key string, s menu.State) error {
	if key == "" {
		return ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[key] = s
	return nil
}

// Delete removes the state under key; a missing key is not an error
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.states, key)
	return nil
}
