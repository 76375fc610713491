package gamemaster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coppit/board"
	"coppit/game"
	"coppit/store"
)

const waitFor = 5 * time.Second

func testOptions() Options {
	opts := DefaultOptions()
	opts.Config.MaxPlayers = 2
	opts.BotFillDelay = -1
	opts.BotMinDelay = 0
	opts.BotMaxDelay = 0
	opts.BotPollInterval = 5 * time.Millisecond
	opts.NoMoveDelay = 10 * time.Millisecond
	opts.Seed = 1
	return opts
}

func newMaster(t *testing.T, st store.Store, opts Options) *GameMaster {
	t.Helper()
	gm, err := NewGameMaster(context.Background(), board.Standard(), st, opts)
	require.NoError(t, err)
	t.Cleanup(gm.Close)
	return gm
}

func newRoomFor(t *testing.T, gm *GameMaster, id string) *Room {
	t.Helper()
	r, err := gm.Room(context.Background(), id)
	require.NoError(t, err)
	return r
}

// startedRoom seats alice and bob and returns the room with the id of whoever rolls first.
func startedRoom(t *testing.T, st store.Store, opts Options) (*Room, string, string) {
	t.Helper()
	r := newRoomFor(t, newMaster(t, st, opts), "room")
	ctx := context.Background()
	require.NoError(t, r.Submit(ctx, Request{Kind: Join, PlayerID: "alice", Name: "Alice"}).Err)
	res := r.Submit(ctx, Request{Kind: Join, PlayerID: "bob"})
	require.NoError(t, res.Err)
	require.Equal(t, game.RollPhase, res.State.Phase, "Second join should start a two-seat game")

	current := res.State.CurrentPlayer().ID
	other := "alice"
	if current == "alice" {
		other = "bob"
	}
	return r, current, other
}

// fixedDie always rolls the same value.
type fixedDie int

func (d fixedDie) Intn(int) int {
	return int(d) - 1
}

type failingStore struct {
	store.Store
}

func (failingStore) Set(context.Context, string, *game.GameState, time.Duration) error {
	return errors.New("disk on fire")
}

func TestNewGameMaster(t *testing.T) {
	opts := testOptions()
	opts.Strategy = "oracle"
	_, err := NewGameMaster(context.Background(), board.Standard(), store.NewMemory(), opts)
	require.Error(t, err, "Unknown bot strategy should fail startup")

	opts = testOptions()
	opts.Config.MaxPlayers = 1
	_, err = NewGameMaster(context.Background(), board.Standard(), store.NewMemory(), opts)
	require.Error(t, err)
}

func TestRoomActions(t *testing.T) {
	ctx := context.Background()

	t.Run("joins start the game", func(t *testing.T) {
		r, current, _ := startedRoom(t, store.NewMemory(), testOptions())
		state := r.State()
		require.Len(t, state.Players, 2)
		require.True(t, state.IsTurnOf(current))
		alice, _ := state.Player("alice")
		require.Equal(t, "Alice", alice.Name)
		require.Equal(t, board.Red, alice.Color, "First join takes the first color")
	})

	t.Run("late join is rejected", func(t *testing.T) {
		r, _, _ := startedRoom(t, store.NewMemory(), testOptions())
		res := r.Submit(ctx, Request{Kind: Join, PlayerID: "carol"})
		require.True(t, IsRejection(res.Err))
		require.Len(t, res.State.Players, 2)
	})

	t.Run("rejoin reconnects", func(t *testing.T) {
		r, _, _ := startedRoom(t, store.NewMemory(), testOptions())
		require.NoError(t, r.Submit(ctx, Request{Kind: Leave, PlayerID: "alice"}).Err)
		alice, _ := r.State().Player("alice")
		require.False(t, alice.Connected)
		require.Len(t, r.State().Players, 2, "Leaving a running game keeps the seat")

		require.NoError(t, r.Submit(ctx, Request{Kind: Join, PlayerID: "alice"}).Err)
		alice, _ = r.State().Player("alice")
		require.True(t, alice.Connected)
	})

	t.Run("leave before the start frees the seat", func(t *testing.T) {
		r := newRoomFor(t, newMaster(t, store.NewMemory(), testOptions()), "lobby")
		require.NoError(t, r.Submit(ctx, Request{Kind: Join, PlayerID: "alice"}).Err)
		require.NoError(t, r.Submit(ctx, Request{Kind: Leave, PlayerID: "alice"}).Err)
		require.Empty(t, r.State().Players)
	})

	t.Run("wrong player and wrong phase", func(t *testing.T) {
		r, current, other := startedRoom(t, store.NewMemory(), testOptions())
		before := r.State()

		res := r.Submit(ctx, Request{Kind: Roll, PlayerID: other})
		require.True(t, IsRejection(res.Err), "Only the current player may roll")
		require.Same(t, before, res.State)

		res = r.Submit(ctx, Request{Kind: SelectDestination, PlayerID: current, NodeID: "outer_3"})
		require.True(t, IsRejection(res.Err), "Cannot pick a destination before rolling")

		res = r.Submit(ctx, Request{Kind: "shuffle", PlayerID: current})
		require.True(t, IsRejection(res.Err))
		require.Same(t, before, r.State())
	})

	t.Run("full turn", func(t *testing.T) {
		st := store.NewMemory()
		r, current, other := startedRoom(t, st, testOptions())

		res := r.Submit(ctx, Request{Kind: Roll, PlayerID: current})
		require.NoError(t, res.Err)
		require.NotEmpty(t, res.Stacks, "Deploying is always possible on the first roll")
		require.True(t, res.Stacks[0].IsReserve())

		res = r.Submit(ctx, Request{Kind: SelectPiece, PlayerID: current, Stack: game.ReserveStack})
		require.NoError(t, res.Err)
		require.NotEmpty(t, res.Destinations)
		require.Equal(t, game.SelectDirectionPhase, res.State.Phase)

		res = r.Submit(ctx, Request{Kind: SelectDestination, PlayerID: current, NodeID: "nowhere"})
		require.True(t, IsRejection(res.Err))

		target := res.State.LegalDestinations(game.ReserveStack)[0]
		res = r.Submit(ctx, Request{Kind: SelectDestination, PlayerID: current, NodeID: target})
		require.NoError(t, res.Err)
		require.Equal(t, game.RollPhase, res.State.Phase)
		require.True(t, res.State.IsTurnOf(other), "Deploying ends the turn")
		require.Len(t, res.State.StacksAt(target), 1)

		saved, err := st.Get(ctx, "room")
		require.NoError(t, err)
		require.Equal(t, res.State.Turn, saved.Turn, "Accepted moves should be persisted")
	})

	t.Run("select by direction", func(t *testing.T) {
		r, current, _ := startedRoom(t, store.NewMemory(), testOptions())
		require.NoError(t, r.Submit(ctx, Request{Kind: Roll, PlayerID: current}).Err)
		require.NoError(t, r.Submit(ctx, Request{Kind: SelectPiece, PlayerID: current, Stack: game.ReserveStack}).Err)

		res := r.Submit(ctx, Request{Kind: SelectDirection, PlayerID: current, Direction: "UP"})
		require.True(t, IsRejection(res.Err))

		res = r.Submit(ctx, Request{Kind: SelectDirection, PlayerID: current, Direction: board.Clockwise})
		require.NoError(t, res.Err)
		require.Len(t, res.State.Stacks, 1)
	})

	t.Run("reset starts over with the same seats", func(t *testing.T) {
		r, current, _ := startedRoom(t, store.NewMemory(), testOptions())
		require.NoError(t, r.Submit(ctx, Request{Kind: Roll, PlayerID: current}).Err)

		res := r.Submit(ctx, Request{Kind: Reset, PlayerID: "alice"})
		require.NoError(t, res.Err)
		require.Equal(t, game.RollPhase, res.State.Phase)
		require.Zero(t, res.State.Turn)
		require.Len(t, res.State.Players, 2)

		res = r.Submit(ctx, Request{Kind: Reset, PlayerID: "mallory"})
		require.True(t, IsRejection(res.Err))
	})
}

func TestRoomBroadcast(t *testing.T) {
	ctx := context.Background()

	t.Run("subscribers get every snapshot", func(t *testing.T) {
		r := newRoomFor(t, newMaster(t, store.NewMemory(), testOptions()), "room")
		id, feed := r.Subscribe()

		initial := <-feed
		require.Equal(t, game.WaitingPhase, initial.State.Phase)

		require.NoError(t, r.Submit(ctx, Request{Kind: Join, PlayerID: "alice"}).Err)
		snap := <-feed
		require.Len(t, snap.State.Players, 1)
		require.False(t, snap.Degraded)

		r.Unsubscribe(id)
		_, open := <-feed
		require.False(t, open, "Unsubscribing closes the feed")
	})

	t.Run("storage failure degrades but keeps playing", func(t *testing.T) {
		r := newRoomFor(t, newMaster(t, failingStore{store.NewMemory()}, testOptions()), "room")
		_, feed := r.Subscribe()
		<-feed

		res := r.Submit(ctx, Request{Kind: Join, PlayerID: "alice"})
		require.NoError(t, res.Err)
		snap := <-feed
		require.True(t, snap.Degraded)
		require.Len(t, r.State().Players, 1, "In-memory state stays authoritative")
		require.True(t, r.Snapshot().Degraded)
	})

	t.Run("closed room", func(t *testing.T) {
		r := newRoomFor(t, newMaster(t, store.NewMemory(), testOptions()), "room")
		r.Close()
		res := r.Submit(ctx, Request{Kind: Join, PlayerID: "alice"})
		require.ErrorIs(t, res.Err, ErrClosed)
	})
}

func TestRoomAutomation(t *testing.T) {
	ctx := context.Background()

	t.Run("bots fill a lone human's room", func(t *testing.T) {
		opts := testOptions()
		opts.Config.MaxPlayers = 4
		opts.BotFillDelay = 0
		r := newRoomFor(t, newMaster(t, store.NewMemory(), opts), "room")

		require.NoError(t, r.Submit(ctx, Request{Kind: Join, PlayerID: "alice"}).Err)

		require.Eventually(t, func() bool {
			return r.State().Phase != game.WaitingPhase
		}, waitFor, 5*time.Millisecond)
		state := r.State()
		require.Len(t, state.Players, 4)
		for _, p := range state.Players[1:] {
			require.True(t, p.Bot)
			require.Equal(t, BotID(p.Color), p.ID)
		}
	})

	t.Run("restored roll without a move passes", func(t *testing.T) {
		st := store.NewMemory()
		config := testOptions().Config
		config.RequireSixToDeploy = true
		gs := game.NewGame("stuck", board.Standard(), config)
		gs = gs.AddPlayer("alice", "Alice", false, fixedDie(1))
		gs = gs.AddPlayer("bob", "Bob", false, fixedDie(1))
		gs = gs.Roll(fixedDie(2))
		require.False(t, gs.HasLegalMove())
		require.NoError(t, st.Set(ctx, "stuck", gs, 0))

		r := newRoomFor(t, newMaster(t, st, testOptions()), "stuck")

		require.Eventually(t, func() bool {
			s := r.State()
			return s.Turn == 1 && s.Phase == game.RollPhase
		}, waitFor, 5*time.Millisecond, "Turn should pass on its own")
		entry, _ := r.State().LastAction()
		require.Equal(t, game.ActionPass, entry.Action)
	})

	t.Run("bots play to the end", func(t *testing.T) {
		st := store.NewMemory()
		config := testOptions().Config
		config.MaxTurns = 8
		gs := game.NewGame("bots", board.Standard(), config)
		gs = gs.AddPlayer(BotID(board.Red), "Bot RED", true, game.NewSource(4))
		gs = gs.AddPlayer(BotID(board.Green), "Bot GREEN", true, game.NewSource(4))
		require.NoError(t, st.Set(ctx, "bots", gs, 0))

		r := newRoomFor(t, newMaster(t, st, testOptions()), "bots")

		require.Eventually(t, func() bool {
			return r.State().IsOver()
		}, waitFor, 10*time.Millisecond)
		require.NotEmpty(t, r.State().Winners)
	})
}

func TestGameMasterRooms(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	gm := newMaster(t, st, testOptions())

	first := newRoomFor(t, gm, "a")
	require.Same(t, first, newRoomFor(t, gm, "a"))
	newRoomFor(t, gm, "b")
	require.Equal(t, []string{"a", "b"}, gm.Rooms())
	require.NotEqual(t, gm.NewRoomID(), gm.NewRoomID())

	require.NoError(t, first.Submit(ctx, Request{Kind: Join, PlayerID: "alice"}).Err)
	gm.Close()
	require.Empty(t, gm.Rooms())

	restored := newRoomFor(t, newMaster(t, st, testOptions()), "a")
	alice, ok := restored.State().Player("alice")
	require.True(t, ok, "Rooms should come back from the store")
	require.False(t, alice.Connected)
	require.NotNil(t, restored.State().Board)

	_, err := gm.Room(ctx, "")
	require.Error(t, err)
}
