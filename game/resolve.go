package game

import (
	"slices"

	"coppit/board"
)

// pathFor resolves a move request to the path the stack will travel.
func (gs *GameState) pathFor(id StackID, m Move) (Path, bool) {
	p := gs.CurrentPlayer()
	if p == nil {
		return nil, false
	}

	var start string
	var paths []Path
	if id == ReserveStack {
		paths = DeployPaths(gs.Board, p.Color, gs.Dice, m.Direction)
	} else {
		s, ok := gs.Stacks[id]
		if !ok {
			return nil, false
		}
		start = s.Node
		if m.Target != "" {
			if path, ok := ReturnPath(gs.Board, start, s.Controller(), gs.Dice); ok && path.Destination() == m.Target {
				return path, true
			}
		}
		if m.Target == "" && m.Direction == board.Any {
			return nil, false
		}
		paths = EnumeratePaths(gs.Board, start, gs.Dice, m.Direction)
	}

	if m.Target == "" {
		if len(paths) == 0 {
			return nil, false
		}
		return paths[0], true
	}
	if path, ok := findTarget(paths, m.Target); ok {
		return path, true
	}
	if m.Direction == board.Any {
		return nil, false
	}
	// A target outside the requested direction is still reachable another way
	if id == ReserveStack {
		paths = DeployPaths(gs.Board, p.Color, gs.Dice, board.Any)
	} else {
		paths = EnumeratePaths(gs.Board, start, gs.Dice, board.Any)
	}
	return findTarget(paths, m.Target)
}

func findTarget(paths []Path, target string) (Path, bool) {
	for _, path := range paths {
		if path.Destination() == target {
			return path, true
		}
	}
	return nil, false
}

// ApplyMove moves a stack of the current player and resolves what happens where
// it lands. An illegal or unresolvable move returns the receiver unchanged.
func (gs *GameState) ApplyMove(m Move) *GameState {
	if !gs.awaitingMove() {
		return gs
	}
	p := gs.CurrentPlayer()

	if m.Stack == ReserveStack {
		if _, ok := gs.reserveStack(p); !ok {
			return gs
		}
		path, ok := gs.pathFor(ReserveStack, m)
		if !ok {
			return gs
		}
		return gs.deploy(path)
	}

	s, ok := gs.Stacks[m.Stack]
	if !ok || s.Controller() != p.Color {
		return gs
	}
	path, ok := gs.pathFor(m.Stack, m)
	if !ok || len(path) < 2 {
		return gs
	}

	next := gs.Copy()
	moved := next.Stacks[m.Stack]
	moved.Node = path.Destination()
	next.Stacks[m.Stack] = moved
	next.record(LogEntry{
		Action: ActionMove,
		Stack:  m.Stack,
		From:   path[0],
		To:     moved.Node,
		Path:   path,
		Pieces: len(moved.Pieces),
	})

	next.resolveCaptures(m.Stack)
	next.resolveReturn(m.Stack)
	if next.colorsDecided() {
		next.finish()
		return next
	}
	next.endTurn(!next.Config.ExtraRollOnSix || next.Dice != Faces)
	return next
}

func (gs *GameState) deploy(path Path) *GameState {
	next := gs.Copy()
	p := next.CurrentPlayer()

	i := p.deployable()
	piece := p.Reserve[i]
	p.Reserve = slices.Delete(p.Reserve, i, i+1)

	id := next.NextID
	next.NextID++
	next.Stacks[id] = Stack{ID: id, Node: path.Destination(), Pieces: []Piece{piece}}
	next.record(LogEntry{
		Action: ActionDeploy,
		Piece:  piece.ID,
		Stack:  id,
		To:     path.Destination(),
		Path:   path,
	})

	// Deploys never earn another roll
	next.endTurn(true)
	return next
}

// resolveCaptures settles the moved stack against every other stack on its node.
// On a safe node nothing touches stacks of the node's color, and a mover of that
// color touches nothing at all. Otherwise same-controller stacks merge and
// foreign stacks are captured, the mover ending on top.
func (gs *GameState) resolveCaptures(id StackID) {
	mover := gs.Stacks[id]
	if gs.sheltered(mover.Node, mover.Controller()) {
		return
	}
	for _, other := range gs.StacksAt(mover.Node) {
		if other.ID == id {
			continue
		}
		controller := other.Controller()
		if gs.sheltered(mover.Node, controller) {
			continue
		}
		action := ActionMerge
		if controller != mover.Controller() {
			action = ActionCapture
		}

		pieces := make([]Piece, 0, len(other.Pieces)+len(mover.Pieces))
		pieces = append(pieces, other.Pieces...)
		mover.Pieces = append(pieces, mover.Pieces...)
		delete(gs.Stacks, other.ID)

		gs.record(LogEntry{
			Action:     action,
			Stack:      other.ID,
			To:         mover.Node,
			Controller: controller,
			Pieces:     len(other.Pieces),
		})
	}
	gs.Stacks[id] = mover
}

// sheltered reports whether stacks controlled by c are safe on node.
func (gs *GameState) sheltered(node string, c board.Color) bool {
	return gs.Config.SafeByColor && gs.Board.IsSafeFor(node, c)
}

// resolveReturn banks a stack that reached its controller's own reserve.
func (gs *GameState) resolveReturn(id StackID) {
	s := gs.Stacks[id]
	node, _ := gs.Board.Node(s.Node)
	if node.Kind != board.Reserve || node.Color != s.Controller() {
		return
	}
	owner, ok := gs.PlayerByColor(s.Controller())
	if !ok {
		return
	}

	points := 0
	for _, piece := range s.Pieces {
		if piece.Color != owner.Color {
			points++
		}
	}
	owner.Reserve = append(owner.Reserve, s.Pieces...)
	delete(gs.Stacks, id)

	gs.record(LogEntry{
		Action: ActionReturn,
		Stack:  id,
		To:     s.Node,
		Pieces: len(s.Pieces),
		Points: points,
		Total:  owner.Points(),
	})
}

func (gs *GameState) colorsDecided() bool {
	return len(gs.ColorsInPlay()) <= 1
}

// finish ends the game; the highest score wins and ties share the win.
func (gs *GameState) finish() {
	best := -1
	scores := make(map[string]int, len(gs.Players))
	for _, p := range gs.Players {
		score := p.Score()
		scores[p.ID] = score
		if score > best {
			best = score
		}
	}
	winners := []string{}
	for _, p := range gs.Players {
		if scores[p.ID] == best {
			winners = append(winners, p.ID)
		}
	}

	gs.Winners = winners
	gs.Phase = GameOverPhase
	gs.Dice = 0
	gs.Selected = NoSelection
	gs.record(LogEntry{
		Action:  ActionGameOver,
		Scores:  scores,
		Winners: winners,
	})
}

func (gs *GameState) IsOver() bool {
	return gs.Phase == GameOverPhase
}
