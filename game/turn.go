package game

import (
	"slices"

	"coppit/board"
)

// AddPlayer seats a player on the first free color and fills their reserve. The
// join that fills the table picks a random starting seat and opens the first roll.
// Joining a full or running game returns the receiver unchanged.
func (gs *GameState) AddPlayer(id, name string, bot bool, src Source) *GameState {
	if gs.Phase != WaitingPhase || len(gs.Players) >= gs.Config.MaxPlayers {
		return gs
	}
	if _, exists := gs.Player(id); exists {
		return gs
	}
	color, ok := gs.freeColor()
	if !ok {
		return gs
	}

	next := gs.Copy()
	p := Player{
		ID:        id,
		Name:      name,
		Color:     color,
		Bot:       bot,
		Connected: !bot,
		Reserve:   make([]Piece, 0, gs.Config.PiecesPerPlayer),
	}
	for i := 1; i <= gs.Config.PiecesPerPlayer; i++ {
		p.Reserve = append(p.Reserve, Piece{ID: PieceID(color, i), Color: color, Owner: id})
	}
	next.Players = append(next.Players, p)
	next.record(LogEntry{Action: ActionJoin, PlayerID: id})

	if len(next.Players) == next.Config.MaxPlayers {
		next.Current = src.Intn(len(next.Players))
		next.Phase = RollPhase
		next.record(LogEntry{Action: ActionStart})
	}
	return next
}

func (gs *GameState) freeColor() (board.Color, bool) {
	for _, c := range board.Palette {
		if _, taken := gs.PlayerByColor(c); taken {
			continue
		}
		if _, ok := gs.Board.Reserve(c); !ok {
			continue
		}
		return c, true
	}
	return "", false
}

// RemovePlayer frees a seat before the game starts.
func (gs *GameState) RemovePlayer(id string) *GameState {
	if gs.Phase != WaitingPhase {
		return gs
	}
	i := slices.IndexFunc(gs.Players, func(p Player) bool { return p.ID == id })
	if i < 0 {
		return gs
	}
	next := gs.Copy()
	next.Players = slices.Delete(next.Players, i, i+1)
	next.record(LogEntry{Action: ActionLeave, PlayerID: id})
	return next
}

// SetConnected flags whether a human player currently has a live connection.
func (gs *GameState) SetConnected(id string, connected bool) *GameState {
	p, ok := gs.Player(id)
	if !ok || p.Connected == connected {
		return gs
	}
	next := gs.Copy()
	p, _ = next.Player(id)
	p.Connected = connected
	return next
}

func (gs *GameState) Roll(src Source) *GameState {
	if gs.Phase != RollPhase {
		return gs
	}
	next := gs.Copy()
	next.Dice = RollDie(src)
	next.Selected = NoSelection
	next.Phase = SelectPiecePhase
	next.record(LogEntry{Action: ActionRoll, Value: next.Dice})
	return next
}

// SelectStack picks the stack to move. The selection can be changed until a destination is chosen.
func (gs *GameState) SelectStack(id StackID) *GameState {
	if !gs.awaitingMove() || len(gs.LegalDestinations(id)) == 0 {
		return gs
	}
	p := gs.CurrentPlayer()
	if id != ReserveStack {
		if s, ok := gs.Stacks[id]; !ok || s.Controller() != p.Color {
			return gs
		}
	}
	next := gs.Copy()
	next.Selected = id
	next.Phase = SelectDirectionPhase
	return next
}

func (gs *GameState) SelectDestination(node string) *GameState {
	if gs.Phase != SelectDirectionPhase || gs.Selected == NoSelection || node == "" {
		return gs
	}
	return gs.ApplyMove(Move{Stack: gs.Selected, Target: node})
}

func (gs *GameState) SelectDirection(dir board.Direction) *GameState {
	if gs.Phase != SelectDirectionPhase || gs.Selected == NoSelection || dir == board.Any {
		return gs
	}
	return gs.ApplyMove(Move{Stack: gs.Selected, Direction: dir})
}

// Pass ends a turn whose roll allows no move.
func (gs *GameState) Pass() *GameState {
	if !gs.awaitingMove() || gs.HasLegalMove() {
		return gs
	}
	next := gs.Copy()
	next.record(LogEntry{Action: ActionPass, Value: next.Dice})
	next.endTurn(true)
	return next
}

// endTurn clears the roll and hands the dice to the next seat, or back to the
// mover when advance is false. A reached turn cap ends the game instead.
func (gs *GameState) endTurn(advance bool) {
	gs.Dice = 0
	gs.Selected = NoSelection
	gs.Turn++
	if gs.Config.MaxTurns > 0 && gs.Turn >= gs.Config.MaxTurns {
		gs.finish()
		return
	}
	if advance {
		gs.Current = (gs.Current + 1) % len(gs.Players)
	}
	gs.Phase = RollPhase
}

// Rematch starts a new game on the same board with the same seats.
func (gs *GameState) Rematch(src Source) *GameState {
	next := NewGame(gs.RoomID, gs.Board, gs.Config)
	for _, p := range gs.Players {
		next = next.AddPlayer(p.ID, p.Name, p.Bot, src)
		if joined, ok := next.Player(p.ID); ok {
			joined.Connected = p.Connected
		}
	}
	return next
}
