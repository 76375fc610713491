package player

import (
	"slices"

	"coppit/board"
	"coppit/game"
)

// Heuristic plays by fixed priorities: bring captives home, capture, deploy
// clockwise, close in on home with captives, otherwise anything.
type Heuristic struct {
	src game.Source
}

func NewHeuristic(src game.Source) *Heuristic {
	return &Heuristic{src: src}
}

func (h *Heuristic) Name() string {
	return HeuristicName
}

func (h *Heuristic) Choose(gs *game.GameState) (game.Move, bool) {
	p := gs.CurrentPlayer()
	if p == nil {
		return game.Move{}, false
	}
	stacks := gs.LegalStacks(p.ID)
	if len(stacks) == 0 {
		return game.Move{}, false
	}
	home, _ := gs.Board.Reserve(p.Color)

	for _, s := range stacks {
		if !s.IsReserve() && s.HasCaptives() && slices.Contains(gs.LegalDestinations(s.ID), home) {
			return game.Move{Stack: s.ID, Target: home}, true
		}
	}

	for _, s := range stacks {
		for _, dest := range gs.LegalDestinations(s.ID) {
			if captures(gs, s, dest) {
				return game.Move{Stack: s.ID, Target: dest}, true
			}
		}
	}

	if stacks[0].IsReserve() {
		// Deploy destinations list clockwise first
		return game.Move{Stack: game.ReserveStack, Target: gs.LegalDestinations(game.ReserveStack)[0]}, true
	}

	if move, ok := closestToHome(gs, stacks, home); ok {
		return move, true
	}

	moves := gs.LegalMoves()
	return moves[h.src.Intn(len(moves))], true
}

// captures reports whether moving s onto dest would take a foreign stack. A safe
// node shelters its own color, and a stack landing on its own safe node takes nothing.
func captures(gs *game.GameState, s game.Stack, dest string) bool {
	safe := func(c board.Color) bool {
		return gs.Config.SafeByColor && gs.Board.IsSafeFor(dest, c)
	}
	if safe(s.Controller()) {
		return false
	}
	for _, other := range gs.StacksAt(dest) {
		if other.ID == s.ID || other.Controller() == s.Controller() || safe(other.Controller()) {
			continue
		}
		return true
	}
	return false
}

// closestToHome moves a stack carrying captives to the destination nearest its reserve.
func closestToHome(gs *game.GameState, stacks []game.Stack, home string) (game.Move, bool) {
	best := game.Move{}
	bestDistance := -1
	for _, s := range stacks {
		if s.IsReserve() || !s.HasCaptives() {
			continue
		}
		for _, dest := range gs.LegalDestinations(s.ID) {
			d, ok := gs.Board.Distance(dest, home)
			if ok && (bestDistance < 0 || d < bestDistance) {
				best, bestDistance = game.Move{Stack: s.ID, Target: dest}, d
			}
		}
	}
	return best, bestDistance >= 0
}
