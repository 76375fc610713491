package player

import (
	"sync"

	"coppit/experiments/metrics"
	"coppit/game"
	"coppit/searcher"
)

type stepKind int

const (
	rollStep stepKind = iota
	passStep
	moveStep
)

// step is a searcher.Move over the whole turn cycle: the dice roll is the
// stochastic step, a pass covers rolls without a move.
type step struct {
	kind stepKind
	move game.Move
}

func (s step) IsStochastic() bool {
	return s.kind == rollStep
}

// searchState adapts a game state to the search tree.
type searchState struct {
	gs *game.GameState
}

func newSearchState(gs *game.GameState) searchState {
	stripped := gs.Copy()
	// Rollouts never read the log and it only grows
	stripped.Log = nil
	return searchState{gs: stripped}
}

func (s searchState) Player() string {
	if p := s.gs.CurrentPlayer(); p != nil {
		return p.ID
	}
	return ""
}

func (s searchState) LegalMoves() []searcher.Move {
	switch s.gs.Phase {
	case game.RollPhase:
		return []searcher.Move{step{kind: rollStep}}
	case game.SelectPiecePhase, game.SelectDirectionPhase:
		moves := s.gs.LegalMoves()
		if len(moves) == 0 {
			return []searcher.Move{step{kind: passStep}}
		}
		steps := make([]searcher.Move, len(moves))
		for i, m := range moves {
			steps[i] = step{kind: moveStep, move: m}
		}
		return steps
	}
	return nil
}

func (s searchState) Play(m searcher.Move) searcher.State {
	st := m.(step)
	switch st.kind {
	case rollStep:
		return searchState{gs: s.gs.Roll(game.GlobalSource)}
	case passStep:
		return searchState{gs: s.gs.Pass()}
	default:
		return searchState{gs: s.gs.ApplyMove(st.move)}
	}
}

func (s searchState) Hash() searcher.StateHash {
	return searcher.StateHash(s.gs.Hash())
}

func (s searchState) Winner() string {
	if s.gs.IsOver() && len(s.gs.Winners) == 1 {
		return s.gs.Winners[0]
	}
	return ""
}

// Evaluate scores a position for the player to move by the pieces they have
// brought home, banked or are carrying, relative to an even share.
func Evaluate(state searcher.State) float64 {
	gs := state.(searchState).gs
	me := gs.CurrentPlayer()
	if me == nil || len(gs.Players) == 0 {
		return 0.5
	}

	values := map[string]float64{}
	total := 0.0
	for _, p := range gs.Players {
		v := float64(p.Score()) + float64(p.Points())
		values[p.ID] += v
		total += v
	}
	for _, s := range gs.Stacks {
		owner, ok := gs.PlayerByColor(s.Controller())
		if !ok {
			continue
		}
		v := 0.5 * float64(len(s.Pieces))
		values[owner.ID] += v
		total += v
	}
	if total == 0 {
		return 0.5
	}

	share := values[me.ID] / total * float64(len(gs.Players)) / 2
	return min(max(share, 0), 1)
}

type MCTS struct {
	mcts *searcher.MCTS
	mu   sync.Mutex
	last metrics.SearchMetric
}

// NewMCTS searches with the given budget options, scores cut-off rollouts with
// Evaluate and keeps metrics of the last search.
func NewMCTS(goroutines int, options ...searcher.Option) *MCTS {
	options = append(options, searcher.WithEvaluationFn(Evaluate), searcher.WithMetrics())
	return &MCTS{mcts: searcher.NewMCTS(goroutines, options...)}
}

func (m *MCTS) Name() string {
	return MCTSName
}

func (m *MCTS) Choose(gs *game.GameState) (game.Move, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	move, metric := m.mcts.FindNextMove(newSearchState(gs))
	m.last = metric
	st, ok := move.(step)
	if !ok || st.kind != moveStep {
		return game.Move{}, false
	}
	return st.move, true
}

func (m *MCTS) LastSearch() metrics.SearchMetric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.last
}
