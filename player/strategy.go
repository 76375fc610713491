package player

import (
	"fmt"
	"time"

	"coppit/experiments/metrics"
	"coppit/game"
	"coppit/meta"
	"coppit/searcher"
)

// Strategy decides a bot's moves. It only reads the legal-move queries and never
// changes the state it is given.
type Strategy interface {
	Name() string
	// Choose picks a move for the player to move. ok is false when there is none.
	Choose(gs *game.GameState) (move game.Move, ok bool)
}

// Searcher is a strategy that reports the cost of its last decision.
type Searcher interface {
	Strategy
	LastSearch() metrics.SearchMetric
}

const (
	HeuristicName = "heuristic"
	RandomName    = "random"
	MCTSName      = "mcts"
)

// New builds a strategy by name. src must not be shared with another goroutine.
func New(name string, src game.Source) (Strategy, error) {
	switch name {
	case HeuristicName:
		return NewHeuristic(src), nil
	case RandomName:
		return NewRandom(src), nil
	case MCTSName:
		return NewMCTS(meta.GO_ROUTINES,
			searcher.WithDuration(meta.SEARCH_BUDGET),
			searcher.WithCutoff(meta.WITH_CUTOFF),
		), nil
	}
	return nil, fmt.Errorf("unknown bot strategy %q", name)
}

// ThinkDelay samples how long a bot pretends to think.
func ThinkDelay(src game.Source, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(src.Intn(int(max-min)))
}
