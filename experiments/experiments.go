package experiments

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"coppit/board"
	"coppit/engine"
	"coppit/experiments/metrics"
	"coppit/game"
	"coppit/meta"
	"coppit/player"
	"coppit/searcher"
)

const (
	NumGames   = 30 // Per match up
	TimeBudget = 10 * time.Millisecond
)

// Seat builds the strategy for one seat of a game from its own random source.
type Seat func(src game.Source) player.Strategy

func Named(name string) Seat {
	return func(src game.Source) player.Strategy {
		s, err := player.New(name, src)
		if err != nil {
			panic(err)
		}
		return s
	}
}

func MCTS(goroutines int, options ...searcher.Option) Seat {
	return func(game.Source) player.Strategy {
		return player.NewMCTS(goroutines, options...)
	}
}

type Experiment struct {
	Name     string
	Matchups [][]Seat
	Games    int
	Seed     int64
	Board    *board.Board
	Config   game.Config
	// Root is the directory the experiments/ tree is written under.
	Root string
}

// Baselines pairs the heuristic bot against random play and a fixed-time MCTS
// against the heuristic, alternating who takes the first seat.
func Baselines(b *board.Board, config game.Config, root string) Experiment {
	mcts := MCTS(meta.GO_ROUTINES, searcher.WithDuration(TimeBudget), searcher.WithCutoff(meta.WITH_CUTOFF))
	heuristic, random := Named(player.HeuristicName), Named(player.RandomName)
	return Experiment{
		Name: "baselines",
		Matchups: [][]Seat{
			{heuristic, random},
			{random, heuristic},
			{mcts, heuristic},
			{heuristic, mcts},
		},
		Games:  NumGames,
		Seed:   1,
		Board:  b,
		Config: config,
		Root:   root,
	}
}

// Cutoff plays MCTS with full playouts against MCTS cut off at various depths.
func Cutoff(b *board.Board, config game.Config, root string) Experiment {
	baseline := MCTS(meta.GO_ROUTINES, searcher.WithDuration(TimeBudget))
	matchups := [][]Seat{}
	for _, depth := range []int{10, 50, 100, 200} {
		matchups = append(matchups, []Seat{baseline, MCTS(meta.GO_ROUTINES, searcher.WithDuration(TimeBudget), searcher.WithCutoff(depth))})
	}
	return Experiment{Name: "cutoff", Matchups: matchups, Games: NumGames, Seed: 1, Board: b, Config: config, Root: root}
}

func ByName(name string, b *board.Board, config game.Config, root string) (Experiment, error) {
	switch name {
	case "baselines":
		return Baselines(b, config, root), nil
	case "cutoff":
		return Cutoff(b, config, root), nil
	}
	return Experiment{}, fmt.Errorf("unknown experiment %q", name)
}

// Run plays every matchup and writes the game and move records, returning the output directory.
func (x Experiment) Run() (string, error) {
	count := 0
	gameMetrics := []metrics.GameMetric{}
	moveMetrics := []metrics.MoveMetric{}

	log.Info().Str("experiment", x.Name).Int("matchups", len(x.Matchups)).Msg("starting experiment")

	for mi, matchup := range x.Matchups {
		for i := 0; i < x.Games; i++ {
			count++
			seed := x.Seed + int64(count)
			seats := make([]player.Strategy, len(matchup))
			for si, seat := range matchup {
				seats[si] = seat(game.NewSource(seed*int64(len(matchup)+1) + int64(si)))
			}

			e := engine.NewLocal(count, seats, x.Board, x.Config, game.NewSource(seed))
			winners, gameMetric, moves := e.Run()
			gameMetrics = append(gameMetrics, gameMetric)
			moveMetrics = append(moveMetrics, moves...)

			log.Info().
				Int("matchup", mi+1).
				Int("game", i+1).
				Str("players", gameMetric.Matchup).
				Strs("winners", winners).
				Int("turns", gameMetric.Turns).
				Msg("completed game")
		}
	}

	log.Info().Str("experiment", x.Name).Int("games", count).Msg("completed experiment")

	writer, err := metrics.NewWriter(x.Root, x.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteGameMetrics(gameMetrics); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveMetrics(moveMetrics); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored experiment records")
	return writer.Dir(), nil
}
