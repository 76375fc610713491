package player

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"coppit/board"
	"coppit/game"
)

// newTable seats n players with seat 0 (RED) to move.
func newTable(t *testing.T, n int) *game.GameState {
	t.Helper()
	config := game.DefaultConfig()
	config.MaxPlayers = n
	gs := game.NewGame("room", board.Standard(), config)
	for i := 1; i <= n; i++ {
		gs = gs.AddPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i), true, game.NewSource(1))
	}
	require.Equal(t, game.RollPhase, gs.Phase)
	gs.Current = 0
	return gs
}

func rolled(gs *game.GameState, value int) *game.GameState {
	next := gs.Copy()
	next.Dice = value
	next.Phase = game.SelectPiecePhase
	next.Selected = game.NoSelection
	return next
}

// put moves reserve pieces of the given colors onto a node as one stack, bottom first.
func put(t *testing.T, gs *game.GameState, node string, colors ...board.Color) game.StackID {
	t.Helper()
	s := game.Stack{ID: gs.NextID, Node: node}
	for _, c := range colors {
		p, ok := gs.PlayerByColor(c)
		require.True(t, ok)
		i := slices.IndexFunc(p.Reserve, func(piece game.Piece) bool { return piece.Color == c })
		require.GreaterOrEqual(t, i, 0)
		s.Pieces = append(s.Pieces, p.Reserve[i])
		p.Reserve = slices.Delete(p.Reserve, i, i+1)
	}
	gs.Stacks[s.ID] = s
	gs.NextID++
	return s.ID
}
