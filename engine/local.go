package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"coppit/board"
	"coppit/experiments/metrics"
	"coppit/game"
	"coppit/meta"
	"coppit/player"
)

// Local plays a headless game between strategies, one per seat.
type Local struct {
	ID         int
	State      *game.GameState
	Strategies []player.Strategy
	src        game.Source
}

func NewLocal(id int, strategies []player.Strategy, b *board.Board, config game.Config, src game.Source) *Local {
	if len(strategies) < 2 {
		panic("need at least two players")
	}
	config.MaxPlayers = len(strategies)
	if config.MaxTurns == 0 {
		config.MaxTurns = meta.MAX_TURNS
	}

	state := game.NewGame(fmt.Sprintf("local-%d", id), b, config)
	for i, s := range strategies {
		state = state.AddPlayer(seatID(i), s.Name(), true, src)
	}

	return &Local{
		ID:         id,
		State:      state,
		Strategies: strategies,
		src:        src,
	}
}

func seatID(i int) string {
	return fmt.Sprintf("p%d", i+1)
}

// Run executes the entire game loop until the game is over.
func (e *Local) Run() ([]string, metrics.GameMetric, []metrics.MoveMetric) {
	gameMetric := metrics.GameMetric{
		ID:             e.ID,
		Matchup:        e.matchup(),
		StartingPlayer: e.State.CurrentPlayer().ID,
		StartTime:      time.Now(),
	}
	log.Debug().Int("game", e.ID).Str("starting", gameMetric.StartingPlayer).Msg("game starting")

	var moveMetrics []metrics.MoveMetric
	moves := 0
	for !e.State.IsOver() && moves < MaxMoves {
		switch e.State.Phase {
		case game.RollPhase:
			e.State = e.State.Roll(e.src)
		case game.SelectPiecePhase, game.SelectDirectionPhase:
			seat := e.State.Current
			strategy := e.Strategies[seat]
			next := e.step(strategy)
			if s, ok := strategy.(player.Searcher); ok {
				moveMetrics = append(moveMetrics, metrics.MoveMetric{
					Game:         e.ID,
					Step:         moves,
					Player:       seatID(seat),
					Strategy:     strategy.Name(),
					SearchMetric: s.LastSearch(),
				})
			}
			e.State = next
			moves++
		default:
			panic(fmt.Sprintf("local game stuck in phase %s", e.State.Phase))
		}
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = moves
	gameMetric.Turns = e.State.Turn
	gameMetric.Winners = e.State.Winners
	for _, entry := range e.State.Log {
		switch entry.Action {
		case game.ActionCapture:
			gameMetric.Captures++
		case game.ActionReturn:
			gameMetric.Returns++
		}
	}

	if !e.State.IsOver() {
		log.Warn().Int("game", e.ID).Int("moves", moves).Msg("stopped before the game ended")
	}
	return e.State.Winners, gameMetric, moveMetrics
}

// step asks the strategy for a move, falling back to the first legal move if it
// picks something the rules reject.
func (e *Local) step(strategy player.Strategy) *game.GameState {
	move, ok := strategy.Choose(e.State)
	if !ok {
		return e.State.Pass()
	}
	next := e.State.ApplyMove(move)
	if next != e.State {
		return next
	}

	log.Warn().Str("strategy", strategy.Name()).Interface("move", move).Msg("strategy chose an illegal move")
	legal := e.State.LegalMoves()
	if len(legal) == 0 {
		return e.State.Pass()
	}
	return e.State.ApplyMove(legal[0])
}

func (e *Local) matchup() string {
	names := make([]string, len(e.Strategies))
	for i, s := range e.Strategies {
		names[i] = s.Name()
	}
	return strings.Join(names, "-")
}
