package engine

import (
	"coppit/experiments/metrics"
)

const MaxMoves = 10000

type Engine interface {
	// Run plays a game till it is over or a max number of moves is reached
	Run() (winners []string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
