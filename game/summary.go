package game

import "coppit/board"

type PlayerSummary struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Color   board.Color `json:"color"`
	Bot     bool        `json:"is_bot"`
	Score   int         `json:"score"`
	Points  int         `json:"points"`
	OnBoard int         `json:"on_board"`
	Waiting int         `json:"in_reserve"`
}

type Summary struct {
	RoomID  string          `json:"room_id"`
	Phase   Phase           `json:"phase"`
	Turn    int             `json:"turn"`
	Players []PlayerSummary `json:"players"`
	Winners []string        `json:"winners,omitempty"`
}

// Summary condenses the state into per-player standings.
func (gs *GameState) Summary() Summary {
	onBoard := map[board.Color]int{}
	for _, s := range gs.Stacks {
		for _, piece := range s.Pieces {
			onBoard[piece.Color]++
		}
	}

	players := make([]PlayerSummary, 0, len(gs.Players))
	for _, p := range gs.Players {
		players = append(players, PlayerSummary{
			ID:      p.ID,
			Name:    p.Name,
			Color:   p.Color,
			Bot:     p.Bot,
			Score:   p.Score(),
			Points:  p.Points(),
			OnBoard: onBoard[p.Color],
			Waiting: len(p.Reserve),
		})
	}
	return Summary{
		RoomID:  gs.RoomID,
		Phase:   gs.Phase,
		Turn:    gs.Turn,
		Players: players,
		Winners: gs.Winners,
	}
}
