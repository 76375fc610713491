package searcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newChoiceGame(seed uint64) choiceGame {
	r := rand.New(rand.NewSource(seed))
	return choiceGame{coin: func() int { return r.Intn(2) + 1 }}
}

func TestNewMCTS(t *testing.T) {
	t.Run("requires a budget", func(t *testing.T) {
		require.Panics(t, func() { NewMCTS(1) }, "Should need episodes or a duration")
	})

	t.Run("ignores non-positive options", func(t *testing.T) {
		m := NewMCTS(0, WithEpisodes(10), WithCutoff(-1), WithDuration(0))
		require.Equal(t, 1, m.goroutines)
		require.Equal(t, MaxCutoff, m.cutoff)
		require.Equal(t, time.Duration(0), m.duration)
	})
}

func TestMCTSFindNextMove(t *testing.T) {
	t.Run("prefers the sure win", func(t *testing.T) {
		// Single goroutine so the coin closure is not shared
		m := NewMCTS(1, WithEpisodes(300), WithMetrics())

		move, metric := m.FindNextMove(newChoiceGame(1))

		require.Equal(t, safeMove, move, "Should pick the move that always wins")
		require.Equal(t, 300, metric.Episodes)
		require.Equal(t, 300, metric.FullPlayouts, "Every rollout should reach the end of this game")
	})

	t.Run("policy covers every move", func(t *testing.T) {
		m := NewMCTS(1, WithEpisodes(100))

		policy, _ := m.Simulate(newChoiceGame(2))

		require.Len(t, policy, 3)
		require.Greater(t, policy[safeMove], policy[blunderMove])
		total := 0.0
		for _, share := range policy {
			total += share
		}
		require.InDelta(t, 1.0, total, 1e-9)
	})

	t.Run("single move needs no search", func(t *testing.T) {
		m := NewMCTS(1, WithEpisodes(10))
		state := mockState{player: "alice", moves: []Move{mockMove{id: 7}}}

		move, _ := m.FindNextMove(state)

		require.Equal(t, mockMove{id: 7}, move)
	})

	t.Run("terminal state", func(t *testing.T) {
		m := NewMCTS(1, WithEpisodes(10))
		move, _ := m.FindNextMove(mockState{})
		require.Nil(t, move)
	})

	t.Run("time budget", func(t *testing.T) {
		m := NewMCTS(2, WithDuration(20*time.Millisecond), WithMetrics())
		state := mockState{player: "alice", moves: []Move{mockMove{id: 1}, mockMove{id: 2}}}

		_, metric := m.Simulate(state)

		require.Positive(t, metric.Episodes)
		require.GreaterOrEqual(t, metric.Duration, 20*time.Millisecond)
	})
}

func TestRollout(t *testing.T) {
	t.Run("cutoff uses the evaluation", func(t *testing.T) {
		state := mockState{player: "alice", moves: []Move{mockMove{id: 1}}}
		evaluate := func(State) float64 { return 0.8 }

		player, score := rollout(state, 0, evaluate, NewMCTS(1, WithEpisodes(1)).metrics)

		require.Equal(t, "alice", player)
		require.Equal(t, 0.8, score)
	})
}
