package searcher

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

const WIN = 1.0  // Reward for winning outcome
const LOSS = 0.0 // Reward for losing outcome, also used as the virtual loss

const MaxCutoff = 1 << 30

// Move is an action of a State. Stochastic moves lead to chance nodes whose
// outcomes are told apart by the resulting state's hash.
type Move interface {
	IsStochastic() bool
}

type StateHash uint64

// State should be immutable - operations on State always return a new copy
type State interface {
	Player() string
	LegalMoves() []Move // empty once the game is over
	Play(Move) State
	Hash() StateHash
	Winner() string // "" while running or on a shared result
}

// Evaluate scores a non-terminal state between LOSS and WIN from the
// perspective of the player to move.
type Evaluate func(State) float64

func neutral(State) float64 {
	return (WIN + LOSS) / 2
}

func computeReward(player string, score float64, nodePlayer string) float64 {
	if nodePlayer == player {
		return score
	}
	return WIN + LOSS - score
}
