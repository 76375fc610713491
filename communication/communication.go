package communication

import (
	"encoding/json"
	"fmt"

	"coppit/board"
	"coppit/game"
)

type ActionType string

const (
	RollAction              ActionType = "roll"
	SelectPieceAction       ActionType = "select_piece"
	SelectDestinationAction ActionType = "select_destination"
	SelectDirectionAction   ActionType = "select_direction"
	ResetAction             ActionType = "reset"
)

// ClientAction is what a client sends. The payload depends on the type.
type ClientAction struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type SelectPiecePayload struct {
	Stack game.StackID `json:"stack"`
}

type SelectDestinationPayload struct {
	NodeID string `json:"node_id"`
}

type SelectDirectionPayload struct {
	Direction board.Direction `json:"direction"`
}

func NewAction(t ActionType, payload any) (ClientAction, error) {
	action := ClientAction{Type: t}
	if payload == nil {
		return action, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return ClientAction{}, fmt.Errorf("encode %s payload: %w", t, err)
	}
	action.Payload = data
	return action, nil
}

type EventType string

const (
	StateUpdateEvent       EventType = "state_update"
	LegalPiecesEvent       EventType = "legal_pieces"
	LegalDestinationsEvent EventType = "legal_destinations"
	DiceRolledEvent        EventType = "dice_rolled"
	ErrorEvent             EventType = "error"
	GameOverEvent          EventType = "game_over"
)

// ServerEvent is what the server sends.
type ServerEvent struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// StateUpdate carries the full public state. The board is served separately.
type StateUpdate struct {
	State    *game.GameState `json:"state"`
	Degraded bool            `json:"degraded,omitempty"`
}

type LegalPieces struct {
	Dice   int          `json:"dice_value"`
	Stacks []game.Stack `json:"stacks"`
}

type LegalDestinations struct {
	Stack game.StackID `json:"stack"`
	Nodes []string     `json:"nodes"`
}

type DiceRolled struct {
	PlayerID string `json:"player_id"`
	Value    int    `json:"value"`
}

type Error struct {
	Message string `json:"message"`
}

type GameOver struct {
	Winners []string     `json:"winners"`
	Summary game.Summary `json:"summary"`
}

func NewEvent(t EventType, payload any) (ServerEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return ServerEvent{}, fmt.Errorf("encode %s event: %w", t, err)
	}
	return ServerEvent{Type: t, Payload: data}, nil
}

// Decode unmarshals the payload into v.
func (e ServerEvent) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode %s event: %w", e.Type, err)
	}
	return nil
}

func (a ClientAction) Decode(v any) error {
	if len(a.Payload) == 0 {
		return fmt.Errorf("%s needs a payload", a.Type)
	}
	if err := json.Unmarshal(a.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", a.Type, err)
	}
	return nil
}
