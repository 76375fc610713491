package searcher

import "math"

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}

// Policy is the share of root visits per move.
type Policy map[Move]float64

// Best returns the most visited move, or nil for an empty policy.
func (p Policy) Best() Move {
	var best Move
	bestShare := -1.0
	for move, share := range p {
		if share > bestShare {
			best, bestShare = move, share
		}
	}
	return best
}
