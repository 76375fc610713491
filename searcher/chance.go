package searcher

import "sync"

// chance follows a stochastic move. Its children are the outcomes seen so far.
type chance struct {
	sync.RWMutex
	parent   Node
	player   string
	children []*decision
	rewards  float64
	visits   int
}

func newChance(parent *decision) *chance {
	return &chance{
		parent: parent,
		player: parent.player,
	}
}

func (c *chance) SelectOrExpand(state State) (Node, State, bool) {
	c.Lock()
	defer c.Unlock()

	// Select if explored outcome
	selected := true
	child := c.selects(state.Hash())
	// Expand if unexplored outcome
	if child == nil {
		child = newDecision(c, state)
		c.children = append(c.children, child)
		selected = false
	}

	child.applyLoss()
	return child, state, selected
}

func (c *chance) selects(hash StateHash) *decision {
	for _, child := range c.children {
		if child.hash == hash {
			return child
		}
	}
	return nil
}

func (c *chance) applyLoss() {
	c.Lock()
	defer c.Unlock()

	c.rewards += LOSS
	c.visits++
}

func (c *chance) score(policy *uct) float64 {
	c.RLock()
	defer c.RUnlock()

	return ucb(policy, c.rewards, c.visits)
}

func (c *chance) Backup(player string, score float64) Node {
	c.Lock()
	defer c.Unlock()

	c.reverseLoss()

	c.rewards += computeReward(player, score, c.player)
	c.visits++

	return c.parent
}

func (c *chance) reverseLoss() {
	c.rewards -= LOSS
	c.visits--
}

func (c *chance) Visits() int {
	c.RLock()
	defer c.RUnlock()

	return c.visits
}
