// Package store persists packed game states by game id.
package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Load for unknown ids.
var ErrNotFound = errors.New("game not found in store")

// Store keeps raw state words. It does not validate them; callers run loaded
// words through domain.FromWord.
type Store interface {
	Save(ctx context.Context, id string, word uint32) error
	Load(ctx context.Context, id string) (uint32, error)
	Delete(ctx context.Context, id string) error
}

type memory struct {
	mu    sync.RWMutex
	games map[string]uint32
}

// NewMemoryStore returns a Store that lives only as long as the process.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]uint32)}
}

func (m *memory) Save(_ context.Context, id string, word uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[id] = word
	return nil
}

func (m *memory) Load(_ context.Context, id string) (uint32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.games[id]
	if !ok {
		return 0, ErrNotFound
	}
	return w, nil
}

func (m *memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}
