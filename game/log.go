package game

import "coppit/board"

type Action string

const (
	ActionJoin     Action = "join"
	ActionLeave    Action = "leave"
	ActionStart    Action = "start"
	ActionRoll     Action = "roll"
	ActionPass     Action = "pass"
	ActionDeploy   Action = "deploy"
	ActionMove     Action = "move"
	ActionCapture  Action = "capture"
	ActionMerge    Action = "merge"
	ActionReturn   Action = "box_return"
	ActionGameOver Action = "game_over"
)

// LogEntry records one rule event. Only the fields relevant to the action are set.
type LogEntry struct {
	Seq      int    `json:"seq"`
	Turn     int    `json:"turn"`
	PlayerID string `json:"player_id,omitempty"`
	Action   Action `json:"action"`

	Value      int            `json:"value,omitempty"`
	Piece      string         `json:"piece,omitempty"`
	Stack      StackID        `json:"stack,omitempty"`
	From       string         `json:"from,omitempty"`
	To         string         `json:"to,omitempty"`
	Path       []string       `json:"path,omitempty"`
	Controller board.Color    `json:"controller,omitempty"`
	Pieces     int            `json:"pieces,omitempty"`
	Points     int            `json:"points,omitempty"`
	Total      int            `json:"total_points,omitempty"`
	Scores     map[string]int `json:"scores,omitempty"`
	Winners    []string       `json:"winners,omitempty"`
}

func (gs *GameState) record(entry LogEntry) {
	entry.Seq = len(gs.Log) + 1
	entry.Turn = gs.Turn
	if entry.PlayerID == "" {
		if p := gs.CurrentPlayer(); p != nil {
			entry.PlayerID = p.ID
		}
	}
	gs.Log = append(gs.Log, entry)
}

// LastAction returns the most recent log entry, if any.
func (gs *GameState) LastAction() (LogEntry, bool) {
	if len(gs.Log) == 0 {
		return LogEntry{}, false
	}
	return gs.Log[len(gs.Log)-1], true
}
