package searcher

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"coppit/experiments/metrics"
)

type Option func(mcts *MCTS)

type MCTS struct {
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	evaluate   Evaluate
	metrics    metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(u *MCTS) {
		if duration > 0 {
			u.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(u *MCTS) {
		if episodes > 0 {
			u.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(u *MCTS) {
		if depth > 0 {
			u.cutoff = depth
		}
	}
}

func WithEvaluationFn(evaluate Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(goroutines int, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		goroutines: max(goroutines, 1),
		cutoff:     MaxCutoff,
		evaluate:   neutral,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return m
}

// Simulate builds a fresh tree from state and returns the root's visit policy.
// A single MCTS must not run two searches at once.
func (m *MCTS) Simulate(state State) (Policy, metrics.SearchMetric) {
	root := newDecision(nil, state)

	// Run simulations to collect statistics
	m.metrics.Start(m.goroutines, m.cutoff)
	if m.episodes > 0 {
		m.iterate(root, state)
	} else {
		m.countdown(root, state)
	}
	metric := m.metrics.Complete()

	return root.Policy(), metric
}

// FindNextMove returns the most visited root move, or nil when state has no moves.
func (m *MCTS) FindNextMove(state State) (Move, metrics.SearchMetric) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return nil, metrics.SearchMetric{}
	}
	if len(moves) == 1 {
		return moves[0], metrics.SearchMetric{}
	}
	policy, metric := m.Simulate(state)
	return policy.Best(), metric
}

func (m *MCTS) iterate(root *decision, state State) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for range task {
				m.simulate(root, state)
				m.metrics.AddEpisode()
			}
		}()
	}

	wg.Wait()
}

func (m *MCTS) countdown(root *decision, state State) {
	done := make(chan any)
	var wg sync.WaitGroup

	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					m.simulate(root, state)
					m.metrics.AddEpisode()
				}
			}
		}()
	}

	<-time.After(m.duration)
	close(done)
	wg.Wait()
}

func (m *MCTS) simulate(root Node, state State) {
	newNode, newState := selectThenExpand(root, state)
	player, score := rollout(newState, m.cutoff, m.evaluate, m.metrics)
	backup(newNode, player, score)
}

func selectThenExpand(root Node, state State) (Node, State) {
	parent := root
	child, state, selected := parent.SelectOrExpand(state)
	for selected && (child != parent) {
		parent = child
		child, state, selected = parent.SelectOrExpand(state)
	}
	return child, state
}

func rollout(state State, cutoff int, evaluate Evaluate, metrics metrics.Collector) (string, float64) {
	depth := 0
	moves := state.LegalMoves()
	// Rollout till game over or for cutoff number of moves
	for len(moves) > 0 && (depth < cutoff) {
		move := moves[rand.Intn(len(moves))] // Random rollout policy
		state = state.Play(move)
		moves = state.LegalMoves()
		depth++
	}

	if len(moves) == 0 { // Game over before cutoff
		metrics.AddFullPlayout()
		return state.Winner(), WIN
	}

	// At cutoff state, return an evaluation score from current player's perspective
	return state.Player(), evaluate(state)
}

func backup(newNode Node, player string, score float64) {
	node := newNode
	for node != nil {
		parent := node.Backup(player, score)
		node = parent
	}
}
