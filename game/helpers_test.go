package game

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"coppit/board"
)

// newStartedGame seats n human players and hands the first roll to seat 0.
func newStartedGame(t *testing.T, n int) *GameState {
	t.Helper()
	config := DefaultConfig()
	config.MaxPlayers = n
	gs := NewGame("room", board.Standard(), config)
	for i := 1; i <= n; i++ {
		gs = gs.AddPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i), false, NewSource(1))
	}
	require.Equal(t, RollPhase, gs.Phase, "Game should start once the table is full")
	gs.Current = 0
	return gs
}

// withRoll puts the state into piece selection with a fixed die.
func withRoll(gs *GameState, value int) *GameState {
	next := gs.Copy()
	next.Dice = value
	next.Phase = SelectPiecePhase
	next.Selected = NoSelection
	return next
}

// take removes the front-most own piece of a color from its owner's reserve.
func take(t *testing.T, gs *GameState, c board.Color) Piece {
	t.Helper()
	p, ok := gs.PlayerByColor(c)
	require.True(t, ok, "No player holds %s", c)
	i := p.deployable()
	require.GreaterOrEqual(t, i, 0, "%s has no piece left to place", c)
	piece := p.Reserve[i]
	p.Reserve = slices.Delete(p.Reserve, i, i+1)
	return piece
}

// place builds a stack on a node from reserve pieces, bottom first.
func place(t *testing.T, gs *GameState, node string, colors ...board.Color) StackID {
	t.Helper()
	s := Stack{ID: gs.NextID, Node: node}
	for _, c := range colors {
		s.Pieces = append(s.Pieces, take(t, gs, c))
	}
	gs.Stacks[s.ID] = s
	gs.NextID++
	return s.ID
}

func destinations(paths []Path) []string {
	return Destinations(paths)
}

func repeat(c board.Color, n int) []board.Color {
	colors := make([]board.Color, n)
	for i := range colors {
		colors[i] = c
	}
	return colors
}
