package player

import "coppit/game"

type Random struct {
	src game.Source
}

func NewRandom(src game.Source) *Random {
	return &Random{src: src}
}

func (r *Random) Name() string {
	return RandomName
}

func (r *Random) Choose(gs *game.GameState) (game.Move, bool) {
	moves := gs.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, false
	}
	return moves[r.src.Intn(len(moves))], true
}
