package game

import "golang.org/x/exp/rand"

const Faces = 6

// Source supplies the engine's randomness: dice rolls and the starting seat.
type Source interface {
	Intn(n int) int
}

// NewSource returns a deterministic source. It is not safe for concurrent use.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(uint64(seed)))
}

type globalSource struct{}

func (globalSource) Intn(n int) int {
	return rand.Intn(n)
}

// GlobalSource draws from the package-level generator and is safe for concurrent use.
var GlobalSource Source = globalSource{}

func RollDie(src Source) int {
	return src.Intn(Faces) + 1
}
