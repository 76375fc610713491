package gamemaster

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"coppit/board"
	"coppit/game"
	"coppit/player"
)

func BotID(c board.Color) string {
	return "bot_" + strings.ToLower(string(c))
}

// watchBots polls the room and plays for whichever bot holds the turn, through
// the same queue human requests go through.
func (r *Room) watchBots(strategy player.Strategy, src game.Source) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.opts.BotPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.playBot(strategy, src)
		}
	}
}

func (r *Room) playBot(strategy player.Strategy, src game.Source) {
	st := r.State()
	p := st.CurrentPlayer()
	if p == nil || !p.Bot || st.IsOver() {
		return
	}
	id := p.ID

	if !sleep(r.ctx, player.ThinkDelay(src, r.opts.BotMinDelay, r.opts.BotMaxDelay)) {
		return
	}
	st = r.State()
	if !st.IsTurnOf(id) {
		return
	}

	switch st.Phase {
	case game.RollPhase:
		r.submitBot(Request{Kind: Roll, PlayerID: id})
	case game.SelectPiecePhase, game.SelectDirectionPhase:
		move, ok := strategy.Choose(st)
		if !ok {
			// The room passes the turn on its own
			return
		}
		if res := r.submitBot(Request{Kind: SelectPiece, PlayerID: id, Stack: move.Stack}); res.Err != nil {
			return
		}
		r.submitBot(Request{Kind: SelectDestination, PlayerID: id, NodeID: move.Target})
	}
}

func (r *Room) submitBot(req Request) Result {
	res := r.Submit(r.ctx, req)
	if res.Err != nil {
		log.Debug().Str("room", r.ID).Str("bot", req.PlayerID).Err(res.Err).Msg("bot action failed")
	}
	return res
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
