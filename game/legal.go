package game

import "coppit/board"

// Move asks to move a stack. Target picks the destination; without one the
// first path in Direction is taken.
type Move struct {
	Stack     StackID         `json:"stack"`
	Direction board.Direction `json:"direction,omitempty"`
	Target    string          `json:"target,omitempty"`
}

func (gs *GameState) awaitingMove() bool {
	return (gs.Phase == SelectPiecePhase || gs.Phase == SelectDirectionPhase) && gs.Dice > 0
}

// reserveStack is the pseudo-stack standing for the current player's deployable pieces.
func (gs *GameState) reserveStack(p *Player) (Stack, bool) {
	if p.deployable() < 0 {
		return Stack{}, false
	}
	if gs.Config.RequireSixToDeploy && gs.Dice != Faces {
		return Stack{}, false
	}
	node, ok := gs.Board.Reserve(p.Color)
	if !ok {
		return Stack{}, false
	}
	s := Stack{ID: ReserveStack, Node: node}
	for _, piece := range p.Reserve {
		if piece.Color == p.Color {
			s.Pieces = append(s.Pieces, piece)
		}
	}
	return s, true
}

// LegalStacks lists the stacks the player may move with the current roll: the
// reserve first, then board stacks they control that have a destination.
func (gs *GameState) LegalStacks(playerID string) []Stack {
	if !gs.awaitingMove() || !gs.IsTurnOf(playerID) {
		return nil
	}
	p := gs.CurrentPlayer()

	stacks := []Stack{}
	if s, ok := gs.reserveStack(p); ok && len(gs.LegalDestinations(ReserveStack)) > 0 {
		stacks = append(stacks, s)
	}
	for _, id := range gs.StackIDs() {
		s := gs.Stacks[id]
		if s.Controller() != p.Color {
			continue
		}
		if len(gs.LegalDestinations(id)) > 0 {
			stacks = append(stacks, s)
		}
	}
	return stacks
}

// LegalDestinations lists where a stack can end with the current roll.
func (gs *GameState) LegalDestinations(id StackID) []string {
	if !gs.awaitingMove() {
		return nil
	}
	p := gs.CurrentPlayer()
	if p == nil {
		return nil
	}

	if id == ReserveStack {
		if _, ok := gs.reserveStack(p); !ok {
			return nil
		}
		return Destinations(DeployPaths(gs.Board, p.Color, gs.Dice, board.Any))
	}

	s, ok := gs.Stacks[id]
	if !ok {
		return nil
	}
	dests := Destinations(EnumeratePaths(gs.Board, s.Node, gs.Dice, board.Any))
	if path, ok := ReturnPath(gs.Board, s.Node, s.Controller(), gs.Dice); ok {
		dests = append(dests, path.Destination())
	}
	return dests
}

// LegalMoves flattens every legal stack and destination of the current player.
func (gs *GameState) LegalMoves() []Move {
	p := gs.CurrentPlayer()
	if p == nil {
		return nil
	}
	moves := []Move{}
	for _, s := range gs.LegalStacks(p.ID) {
		for _, dest := range gs.LegalDestinations(s.ID) {
			moves = append(moves, Move{Stack: s.ID, Target: dest})
		}
	}
	return moves
}

func (gs *GameState) HasLegalMove() bool {
	p := gs.CurrentPlayer()
	return p != nil && len(gs.LegalStacks(p.ID)) > 0
}

// Directions lists the directions a stack may be sent in, for clients that pick
// a direction rather than a destination.
func (gs *GameState) Directions(id StackID) []board.Direction {
	if !gs.awaitingMove() {
		return nil
	}
	start := ""
	if id == ReserveStack {
		p := gs.CurrentPlayer()
		if p == nil {
			return nil
		}
		start, _ = gs.Board.Entry(p.Color)
	} else if s, ok := gs.Stacks[id]; ok {
		start = s.Node
	}
	node, ok := gs.Board.Node(start)
	if !ok {
		return nil
	}

	candidates := []board.Direction{board.Clockwise, board.CounterClockwise}
	if center, ok := gs.Board.Center(); ok && node.ID == center && id != ReserveStack {
		candidates = board.Cardinals
	}
	dirs := []board.Direction{}
	for _, d := range candidates {
		if _, ok := gs.pathFor(id, Move{Stack: id, Direction: d}); ok {
			dirs = append(dirs, d)
		}
	}
	return dirs
}
