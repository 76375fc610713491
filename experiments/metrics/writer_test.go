package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "smoke")
	require.NoError(t, err)

	start := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	err = w.WriteGameMetrics([]GameMetric{{
		ID: 1, Matchup: "heuristic-random", StartingPlayer: "p2", Winners: []string{"p1", "p2"},
		StartTime: start, EndTime: start.Add(time.Second), Duration: time.Second,
		TotalMoves: 40, Turns: 55, Captures: 3, Returns: 1,
	}})
	require.NoError(t, err)

	err = w.WriteMoveMetrics([]MoveMetric{{Game: 1, Step: 4, Player: "p1", Strategy: "mcts",
		SearchMetric: SearchMetric{Goroutines: 2, Episodes: 30, Cutoff: 10, FullPlayouts: 5}}})
	require.NoError(t, err)

	games := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
	require.Len(t, games, 2, "Header plus one row")
	require.Equal(t, "winners", games[0][3])
	require.Equal(t, []string{"1", "heuristic-random", "p2", "p1|p2", "2025-01-02T03:04:05Z", "2025-01-02T03:04:06Z", "1s", "40", "55", "3", "1"}, games[1])

	moves := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
	require.Len(t, moves, 2)
	require.Equal(t, []string{"1", "4", "p1", "mcts", "2", "0s", "30", "10", "5"}, moves[1])
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start(4, 50)
	c.AddEpisode()
	c.AddEpisode()
	c.AddFullPlayout()

	m := c.Complete()

	require.Equal(t, 4, m.Goroutines)
	require.Equal(t, 50, m.Cutoff)
	require.Equal(t, 2, m.Episodes)
	require.Equal(t, 1, m.FullPlayouts)
	require.Equal(t, SearchMetric{}, NewDummyCollector().Complete())
}
