package experiments

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"coppit/board"
	"coppit/game"
	"coppit/player"
)

func TestRun(t *testing.T) {
	config := game.DefaultConfig()
	config.MaxTurns = 200
	x := Experiment{
		Name: "smoke",
		Matchups: [][]Seat{
			{Named(player.HeuristicName), Named(player.RandomName)},
		},
		Games:  2,
		Seed:   5,
		Board:  board.Standard(),
		Config: config,
		Root:   t.TempDir(),
	}

	dir, err := x.Run()

	require.NoError(t, err)
	for _, file := range []string{"game_records.csv", "move_records.csv"} {
		_, err := os.Stat(filepath.Join(dir, file))
		require.NoError(t, err, "Should write %s", file)
	}
}

func TestByName(t *testing.T) {
	x, err := ByName("cutoff", board.Standard(), game.DefaultConfig(), t.TempDir())
	require.NoError(t, err)
	require.Len(t, x.Matchups, 4)

	_, err = ByName("speedup", board.Standard(), game.DefaultConfig(), t.TempDir())
	require.Error(t, err)
}
