package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"coppit/board"
	"coppit/communication"
	"coppit/communication/client"
	"coppit/game"
	"coppit/player"
)

const maxRejections = 10

// Remote plays one seat of a hosted room with a local strategy.
type Remote struct {
	PlayerID string
	Strategy player.Strategy

	board  *board.Board
	client *client.Client

	// the move whose stack was selected but not yet moved
	pending *game.Move
	seen    position
}

// position tells state updates apart that need a new decision.
type position struct {
	turn     int
	phase    game.Phase
	selected game.StackID
	logLen   int
}

// NewRemote wraps a joined connection. b must be the board the server plays on.
func NewRemote(c *client.Client, playerID string, strategy player.Strategy, b *board.Board) *Remote {
	return &Remote{
		PlayerID: playerID,
		Strategy: strategy,
		board:    b,
		client:   c,
	}
}

// Play answers the room's state updates until the game is over and returns the winners.
func (r *Remote) Play(ctx context.Context) ([]string, error) {
	var last *game.GameState
	rejections := 0

	for {
		event, err := r.client.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("read event: %w", err)
		}

		switch event.Type {
		case communication.StateUpdateEvent:
			var update communication.StateUpdate
			if err := event.Decode(&update); err != nil {
				return nil, err
			}
			state := update.State
			state.Attach(r.board)
			last = state
			if state.IsOver() {
				return state.Winners, nil
			}
			if err := r.act(ctx, state); err != nil {
				return nil, err
			}

		case communication.GameOverEvent:
			var over communication.GameOver
			if err := event.Decode(&over); err != nil {
				return nil, err
			}
			return over.Winners, nil

		case communication.ErrorEvent:
			var rejection communication.Error
			_ = event.Decode(&rejection)
			log.Warn().Str("player", r.PlayerID).Str("reason", rejection.Message).Msg("action rejected")

			rejections++
			if rejections > maxRejections {
				return nil, errors.New("too many rejected actions")
			}
			// Decide again on the last known state
			r.pending, r.seen = nil, position{}
			if last != nil {
				if err := r.act(ctx, last); err != nil {
					return nil, err
				}
			}
		}
	}
}

func (r *Remote) act(ctx context.Context, state *game.GameState) error {
	if !state.IsTurnOf(r.PlayerID) {
		r.pending = nil
		return nil
	}
	pos := position{turn: state.Turn, phase: state.Phase, selected: state.Selected, logLen: len(state.Log)}
	if pos == r.seen {
		return nil
	}
	r.seen = pos

	switch state.Phase {
	case game.RollPhase:
		return r.client.Roll(ctx)

	case game.SelectPiecePhase:
		move, ok := r.Strategy.Choose(state)
		if !ok {
			// The room passes rolls without a move
			return nil
		}
		r.pending = &move
		return r.client.SelectPiece(ctx, move.Stack)

	case game.SelectDirectionPhase:
		if r.pending == nil || r.pending.Stack != state.Selected {
			move, ok := r.Strategy.Choose(state)
			if !ok {
				return nil
			}
			r.pending = &move
			if move.Stack != state.Selected {
				return r.client.SelectPiece(ctx, move.Stack)
			}
		}
		move := *r.pending
		r.pending = nil
		if move.Target != "" {
			return r.client.SelectDestination(ctx, move.Target)
		}
		return r.client.SelectDirection(ctx, move.Direction)
	}
	return nil
}
