package gamemaster

import (
	"errors"
	"fmt"

	"coppit/board"
	"coppit/game"
)

type Kind string

const (
	Join              Kind = "join"
	Leave             Kind = "leave"
	Roll              Kind = "roll"
	SelectPiece       Kind = "select_piece"
	SelectDestination Kind = "select_destination"
	SelectDirection   Kind = "select_direction"
	Reset             Kind = "reset"

	// Submitted by the room itself.
	pass    Kind = "pass"
	fillBot Kind = "fill_bots"
)

// Request is one action by one player. Only the fields of its kind are read.
type Request struct {
	PlayerID  string
	Name      string
	Kind      Kind
	Stack     game.StackID
	NodeID    string
	Direction board.Direction

	// turn pins an internal pass to the turn that scheduled it
	turn int
}

// Result is the room's answer to a request. State is the snapshot after it was
// handled, whether or not it was accepted.
type Result struct {
	State        *game.GameState
	Stacks       []game.Stack
	Destinations []string
	Err          error
}

// Rejection explains why a request left the state unchanged.
type Rejection struct {
	Kind   Kind
	Reason string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s rejected: %s", r.Kind, r.Reason)
}

func reject(kind Kind, format string, args ...any) Result {
	return Result{Err: &Rejection{Kind: kind, Reason: fmt.Sprintf(format, args...)}}
}

func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

var ErrClosed = errors.New("room closed")
