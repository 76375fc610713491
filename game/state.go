package game

import (
	"encoding/binary"
	"hash/fnv"
	"slices"

	"coppit/board"
)

type Phase string

const (
	WaitingPhase         Phase = "WAITING"
	RollPhase            Phase = "ROLL"
	SelectPiecePhase     Phase = "SELECT_PIECE"
	SelectDirectionPhase Phase = "SELECT_DIRECTION"
	GameOverPhase        Phase = "GAME_OVER"
)

// GameState is the complete state of one game. Operations never mutate their
// receiver: they return a fresh copy, or the receiver itself when the input is illegal.
type GameState struct {
	RoomID   string            `json:"room_id"`
	Board    *board.Board      `json:"-"`
	Config   Config            `json:"config"`
	Players  []Player          `json:"players"` // seat order is turn order
	Current  int               `json:"current"`
	Turn     int               `json:"turn"`
	Phase    Phase             `json:"phase"`
	Dice     int               `json:"dice,omitempty"`
	Selected StackID           `json:"selected"`
	Stacks   map[StackID]Stack `json:"stacks"`
	NextID   StackID           `json:"next_id"`
	Log      []LogEntry        `json:"log"`
	Winners  []string          `json:"winners,omitempty"`
}

func NewGame(roomID string, b *board.Board, config Config) *GameState {
	return &GameState{
		RoomID:   roomID,
		Board:    b,
		Config:   config,
		Players:  []Player{},
		Phase:    WaitingPhase,
		Selected: NoSelection,
		Stacks:   map[StackID]Stack{},
		NextID:   ReserveStack + 1,
		Log:      []LogEntry{},
	}
}

// Attach binds a decoded state to its board.
func (gs *GameState) Attach(b *board.Board) {
	gs.Board = b
	if gs.Stacks == nil {
		gs.Stacks = map[StackID]Stack{}
	}
}

func (gs *GameState) Copy() *GameState {
	players := make([]Player, len(gs.Players))
	for i, p := range gs.Players {
		players[i] = p.copy()
	}

	stacks := make(map[StackID]Stack, len(gs.Stacks))
	for id, s := range gs.Stacks {
		stacks[id] = s.copy()
	}

	return &GameState{
		RoomID:   gs.RoomID,
		Board:    gs.Board, // Boards are immutable
		Config:   gs.Config,
		Players:  players,
		Current:  gs.Current,
		Turn:     gs.Turn,
		Phase:    gs.Phase,
		Dice:     gs.Dice,
		Selected: gs.Selected,
		Stacks:   stacks,
		NextID:   gs.NextID,
		// Entries are never modified, so copies share the prefix until one appends
		Log:     slices.Clip(gs.Log),
		Winners: slices.Clone(gs.Winners),
	}
}

// CurrentPlayer returns the player whose turn it is, or nil before the game starts.
func (gs *GameState) CurrentPlayer() *Player {
	if gs.Phase == WaitingPhase || gs.Current < 0 || gs.Current >= len(gs.Players) {
		return nil
	}
	return &gs.Players[gs.Current]
}

func (gs *GameState) Player(id string) (*Player, bool) {
	for i := range gs.Players {
		if gs.Players[i].ID == id {
			return &gs.Players[i], true
		}
	}
	return nil, false
}

func (gs *GameState) PlayerByColor(c board.Color) (*Player, bool) {
	for i := range gs.Players {
		if gs.Players[i].Color == c {
			return &gs.Players[i], true
		}
	}
	return nil, false
}

func (gs *GameState) IsTurnOf(playerID string) bool {
	p := gs.CurrentPlayer()
	return p != nil && p.ID == playerID
}

func (gs *GameState) Stack(id StackID) (Stack, bool) {
	s, ok := gs.Stacks[id]
	return s, ok
}

// StackIDs returns the live stack handles in ascending order.
func (gs *GameState) StackIDs() []StackID {
	ids := make([]StackID, 0, len(gs.Stacks))
	for id := range gs.Stacks {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// StacksAt returns the stacks on a node in handle order.
func (gs *GameState) StacksAt(node string) []Stack {
	stacks := []Stack{}
	for _, id := range gs.StackIDs() {
		if s := gs.Stacks[id]; s.Node == node {
			stacks = append(stacks, s)
		}
	}
	return stacks
}

// PieceCount counts every piece in reserves and on the board.
func (gs *GameState) PieceCount() int {
	count := 0
	for _, p := range gs.Players {
		count += len(p.Reserve)
	}
	for _, s := range gs.Stacks {
		count += len(s.Pieces)
	}
	return count
}

// ColorsInPlay are the colors with a piece on the board or an own piece waiting to deploy.
func (gs *GameState) ColorsInPlay() []board.Color {
	present := map[board.Color]bool{}
	for _, s := range gs.Stacks {
		for _, piece := range s.Pieces {
			present[piece.Color] = true
		}
	}
	for _, p := range gs.Players {
		if p.deployable() >= 0 {
			present[p.Color] = true
		}
	}

	colors := []board.Color{}
	for _, c := range board.Palette {
		if present[c] {
			colors = append(colors, c)
		}
	}
	return colors
}

func (gs *GameState) Hash() uint64 {
	h := fnv.New64a()
	buf := make([]byte, 8)
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf, uint64(v))
		h.Write(buf)
	}

	h.Write([]byte(gs.Phase))
	writeInt(gs.Current)
	writeInt(gs.Turn)
	writeInt(gs.Dice)
	writeInt(int(gs.Selected))
	for _, p := range gs.Players {
		h.Write([]byte(p.ID))
		for _, piece := range p.Reserve {
			h.Write([]byte(piece.ID))
		}
		writeInt(-1)
	}

	for _, id := range gs.StackIDs() {
		s := gs.Stacks[id]
		writeInt(int(id))
		h.Write([]byte(s.Node))
		for _, piece := range s.Pieces {
			h.Write([]byte(piece.ID))
		}
	}
	return h.Sum64()
}
