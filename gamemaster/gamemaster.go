package gamemaster

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"coppit/board"
	"coppit/game"
	"coppit/player"
	"coppit/store"
)

// GameMaster hosts rooms on a shared board, creating them on first use or
// restoring them from the store.
type GameMaster struct {
	ctx   context.Context
	board *board.Board
	store store.Store
	opts  Options
	seed  int64

	mu    sync.Mutex
	rooms map[string]*Room
}

func NewGameMaster(ctx context.Context, b *board.Board, st store.Store, opts Options) (*GameMaster, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	if _, err := player.New(opts.Strategy, game.NewSource(0)); err != nil {
		return nil, err
	}
	if opts.BotPollInterval <= 0 {
		opts.BotPollInterval = DefaultOptions().BotPollInterval
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = DefaultOptions().StoreTimeout
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &GameMaster{
		ctx:   ctx,
		board: b,
		store: st,
		opts:  opts,
		seed:  seed,
		rooms: map[string]*Room{},
	}, nil
}

func (gm *GameMaster) NewRoomID() string {
	return uuid.NewString()
}

// Room returns the live room with this id, restoring or creating it if needed.
func (gm *GameMaster) Room(ctx context.Context, id string) (*Room, error) {
	if id == "" {
		return nil, errors.New("room id is required")
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	if r, ok := gm.rooms[id]; ok {
		return r, nil
	}

	state, err := gm.restore(ctx, id)
	if err != nil {
		return nil, err
	}

	seed := gm.roomSeed(id)
	strategy, err := player.New(gm.opts.Strategy, game.NewSource(seed+1))
	if err != nil {
		return nil, err
	}
	r := newRoom(gm.ctx, id, state, gm.store, strategy, game.NewSource(seed+2), gm.opts, seed)
	gm.rooms[id] = r
	return r, nil
}

func (gm *GameMaster) restore(ctx context.Context, id string) (*game.GameState, error) {
	state, err := gm.store.Get(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Info().Str("room", id).Msg("created room")
		return game.NewGame(id, gm.board, gm.opts.Config), nil
	case err != nil:
		// The game can still be played, it just starts over
		log.Error().Err(err).Str("room", id).Msg("failed to load room")
		return game.NewGame(id, gm.board, gm.opts.Config), nil
	}

	state.Attach(gm.board)
	// Nobody is connected to a room that was just loaded
	for _, p := range state.Players {
		if !p.Bot {
			state = state.SetConnected(p.ID, false)
		}
	}
	log.Info().Str("room", id).Str("phase", string(state.Phase)).Int("turn", state.Turn).Msg("restored room")
	return state, nil
}

func (gm *GameMaster) roomSeed(id string) int64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return gm.seed ^ int64(h.Sum64()>>1)
}

// Rooms lists the live room ids.
func (gm *GameMaster) Rooms() []string {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	ids := make([]string, 0, len(gm.rooms))
	for id := range gm.rooms {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (gm *GameMaster) Close() {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	for id, r := range gm.rooms {
		r.Close()
		delete(gm.rooms, id)
	}
}
