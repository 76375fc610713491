// meta/meta.go
package meta

import "time"

// GO_ROUTINES defines the number of goroutines to use.
const GO_ROUTINES = 8

// EPISODES defines the number of episodes for MCTS in experiments.
const EPISODES = 150

// SEARCH_BUDGET bounds a single MCTS decision for bots in live rooms.
const SEARCH_BUDGET = 300 * time.Millisecond

// WITH_CUTOFF defines the cutoff value for MCTS.
const WITH_CUTOFF = 100

// MAX_TURNS ends self-play games that would otherwise run forever.
const MAX_TURNS = 300
