package searcher

type mockMove struct {
	id         int
	stochastic bool
}

func (m mockMove) IsStochastic() bool {
	return m.stochastic
}

type mockState struct {
	player string
	moves  []Move
	played []Move
	hash   StateHash
}

func (m mockState) Player() string {
	return m.player
}

func (m mockState) LegalMoves() []Move {
	return m.moves
}

func (m mockState) Play(move Move) State {
	played := append([]Move{}, m.played...)
	return mockState{player: m.player, played: append(played, move), hash: m.hash + 1}
}

func (m mockState) Hash() StateHash {
	return m.hash
}

func (m mockState) Winner() string {
	return ""
}

// choiceGame is a one-decision game: "alice" picks a move and the game ends.
// A safe move always wins, a gamble wins on heads only, and a blunder always loses.
type choiceGame struct {
	chosen  *choiceMove
	outcome int // 0 undecided, 1 heads, 2 tails
	coin    func() int
}

type choiceMove struct {
	name       string
	stochastic bool
}

func (m *choiceMove) IsStochastic() bool {
	return m.stochastic
}

var (
	safeMove    = &choiceMove{name: "safe"}
	gambleMove  = &choiceMove{name: "gamble", stochastic: true}
	blunderMove = &choiceMove{name: "blunder"}
)

func (g choiceGame) Player() string {
	return "alice"
}

func (g choiceGame) LegalMoves() []Move {
	if g.chosen != nil {
		return nil
	}
	return []Move{blunderMove, gambleMove, safeMove}
}

func (g choiceGame) Play(move Move) State {
	next := choiceGame{chosen: move.(*choiceMove), coin: g.coin}
	if next.chosen.stochastic {
		next.outcome = g.coin()
	}
	return next
}

func (g choiceGame) Hash() StateHash {
	if g.chosen == nil {
		return 0
	}
	return StateHash(len(g.chosen.name)*10 + g.outcome)
}

func (g choiceGame) Winner() string {
	switch {
	case g.chosen == safeMove:
		return "alice"
	case g.chosen == gambleMove && g.outcome == 1:
		return "alice"
	case g.chosen != nil:
		return "bob"
	}
	return ""
}
