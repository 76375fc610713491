package player

import (
	"testing"

	"github.com/stretchr/testify/require"

	"coppit/board"
	"coppit/game"
	"coppit/searcher"
)

func TestSearchState(t *testing.T) {
	t.Run("roll is the only stochastic move", func(t *testing.T) {
		gs := newTable(t, 2)
		gs.Log = append(gs.Log, game.LogEntry{Action: game.ActionRoll})
		state := newSearchState(gs)

		moves := state.LegalMoves()

		require.Len(t, moves, 1)
		require.True(t, moves[0].IsStochastic())
		require.Nil(t, state.gs.Log, "Search copies should drop the log")
		require.NotEmpty(t, gs.Log, "Caller's state should keep its log")

		next := state.Play(moves[0]).(searchState)
		require.Equal(t, game.SelectPiecePhase, next.gs.Phase)
		require.Equal(t, "p1", next.Player())
	})

	t.Run("pass when nothing moves", func(t *testing.T) {
		gs := newTable(t, 2)
		gs.Config.RequireSixToDeploy = true
		state := newSearchState(rolled(gs, 2))

		moves := state.LegalMoves()

		require.Equal(t, []searcher.Move{step{kind: passStep}}, moves)
		next := state.Play(moves[0]).(searchState)
		require.Equal(t, "p2", next.Player())
	})

	t.Run("terminal state", func(t *testing.T) {
		gs := newTable(t, 2)
		carrier := put(t, gs, "outer_2", append(repeatColor(board.Green, gs.Config.PiecesPerPlayer), board.Red)...)
		gs = rolled(gs, 3).ApplyMove(game.Move{Stack: carrier, Target: board.ReserveID(board.Red)})
		state := newSearchState(gs)

		require.Empty(t, state.LegalMoves())
		require.Equal(t, "p1", state.Winner())
	})
}

func TestEvaluate(t *testing.T) {
	gs := newTable(t, 2)
	require.InDelta(t, 0.5, Evaluate(newSearchState(gs)), 1e-9, "Even positions should score a half")

	put(t, gs, "outer_20", board.Green)
	put(t, gs, "outer_30", board.Green)
	require.Greater(t, Evaluate(newSearchState(gs)), 0.5, "RED has more pieces home than GREEN")
}

func TestMCTSChoose(t *testing.T) {
	m := NewMCTS(2, searcher.WithEpisodes(60), searcher.WithCutoff(30))
	gs := rolled(newTable(t, 2), 5)
	put(t, gs, "outer_10", board.Red)

	move, ok := m.Choose(gs)

	require.True(t, ok)
	require.Contains(t, gs.LegalMoves(), move)
	require.Equal(t, 60, m.LastSearch().Episodes)
	require.Equal(t, 2, m.LastSearch().Goroutines)

	_, ok = m.Choose(newTable(t, 2))
	require.False(t, ok, "The roll is not a board move")
}

func repeatColor(c board.Color, n int) []board.Color {
	colors := make([]board.Color, n)
	for i := range colors {
		colors[i] = c
	}
	return colors
}
