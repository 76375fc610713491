package searcher

import (
	"math"
	"sync"
)

type decision struct {
	sync.RWMutex
	parent   Node
	player   string
	hash     StateHash
	moves    []Move
	children []Node
	rewards  float64
	visits   int
}

func newDecision(parent Node, state State) *decision {
	moves := state.LegalMoves()
	return &decision{
		parent:   parent,
		player:   state.Player(),
		hash:     state.Hash(),
		moves:    moves,
		children: make([]Node, 0, len(moves)),
	}
}

func (d *decision) SelectOrExpand(state State) (Node, State, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.moves) == 0 { // Terminal node
		return d, state, false
	}

	if len(d.moves) > len(d.children) { // Expandable node
		child, state := d.addChild(state)
		child.applyLoss()
		return child, state, false
	}

	// Fully expanded node
	ith := d.pickChild()
	child := d.children[ith]
	child.applyLoss()
	return child, state.Play(d.moves[ith]), true
}

func (d *decision) addChild(state State) (Node, State) {
	move := d.moves[len(d.children)]
	next := state.Play(move)
	var child Node
	if move.IsStochastic() {
		child = newChance(d)
	} else {
		child = newDecision(d, next)
	}
	d.children = append(d.children, child)
	return child, next
}

func (d *decision) pickChild() int {
	// Children added by other goroutines may not have backed up yet
	policy := newUCT(CSquared, math.Max(float64(d.visits), 1))

	maxIndex := 0
	maxScore := math.Inf(-1)
	for i, child := range d.children {
		score := child.score(policy)
		if math.IsInf(score, 1) {
			return i
		}
		if score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += LOSS
	d.visits++
}

func (d *decision) score(policy *uct) float64 {
	d.RLock()
	defer d.RUnlock()

	return ucb(policy, d.rewards, d.visits)
}

func (d *decision) Backup(player string, score float64) Node {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.reverseLoss()
	}

	d.rewards += computeReward(player, score, d.parentPlayer())
	d.visits++

	return d.parent
}

// parentPlayer is the player who chose the move into this node; rewards are
// credited from their perspective so the parent's selection maximizes them.
func (d *decision) parentPlayer() string {
	switch parent := d.parent.(type) {
	case *decision:
		return parent.player
	case *chance:
		return parent.player
	}
	return d.player
}

func (d *decision) reverseLoss() {
	d.rewards -= LOSS
	d.visits--
}

func (d *decision) Visits() int {
	d.RLock()
	defer d.RUnlock()

	return d.visits
}

func (d *decision) Policy() Policy {
	d.RLock()
	defer d.RUnlock()

	policy := Policy{}
	if d.visits == 0 {
		return policy
	}
	total := 0
	for _, child := range d.children {
		total += child.Visits()
	}
	for i, child := range d.children {
		if total > 0 {
			policy[d.moves[i]] = float64(child.Visits()) / float64(total)
		}
	}
	return policy
}

func (d *decision) bestMove() Move {
	d.RLock()
	defer d.RUnlock()

	if len(d.children) == 0 {
		return nil
	}
	bestIndex := 0
	maxVisits := d.children[0].Visits()
	for i, child := range d.children[1:] {
		if v := child.Visits(); v > maxVisits {
			maxVisits = v
			bestIndex = i + 1
		}
	}
	return d.moves[bestIndex]
}
