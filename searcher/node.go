package searcher

import "math"

type Node interface {
	SelectOrExpand(state State) (child Node, childState State, selected bool)
	Backup(player string, score float64) Node
	Visits() int
	applyLoss()
	score(policy *uct) float64
}

func ucb(policy *uct, rewards float64, visits int) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}
	return policy.evaluate(rewards, float64(visits))
}
