package store

import (
	"context"
	"sync"
	"time"

	"coppit/game"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Memory keeps encoded states in a map so reads never alias a live state.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: map[string]entry{},
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, roomID string) (*game.GameState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, roomID)
		return nil, ErrNotFound
	}
	return decode(e.data)
}

func (m *Memory) Set(_ context.Context, roomID string, state *game.GameState, ttl time.Duration) error {
	data, err := encode(state)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[roomID] = entry{data: data, expiresAt: expiry(m.now(), ttl)}
	return nil
}

func (m *Memory) Close() error {
	return nil
}
