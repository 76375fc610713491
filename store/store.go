package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"coppit/game"
)

var ErrNotFound = errors.New("room not found")

// Store persists room states by room id. Loaded states have no board attached;
// callers re-bind it with game.GameState.Attach.
type Store interface {
	Get(ctx context.Context, roomID string) (*game.GameState, error)
	// Set saves the state for ttl. A non-positive ttl keeps it forever.
	Set(ctx context.Context, roomID string, state *game.GameState, ttl time.Duration) error
	Close() error
}

func encode(state *game.GameState) ([]byte, error) {
	if state == nil {
		return nil, fmt.Errorf("state is required")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*game.GameState, error) {
	var state game.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &state, nil
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
