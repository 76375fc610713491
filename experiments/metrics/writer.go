package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Writer struct {
	baseDir string
}

// NewWriter creates experiments/<name>/<timestamp> under root.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, "experiments", name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteGameMetrics(games []GameMetric) error {
	header := []string{"id", "matchup", "starting_player", "winners", "start_time", "end_time", "duration", "moves", "turns", "captures", "returns"}
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rows = append(rows, []string{
			strconv.Itoa(g.ID),
			g.Matchup,
			g.StartingPlayer,
			strings.Join(g.Winners, "|"),
			g.StartTime.Format(time.RFC3339),
			g.EndTime.Format(time.RFC3339),
			g.Duration.String(),
			strconv.Itoa(g.TotalMoves),
			strconv.Itoa(g.Turns),
			strconv.Itoa(g.Captures),
			strconv.Itoa(g.Returns),
		})
	}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveMetrics(moves []MoveMetric) error {
	header := []string{"game", "step", "player", "strategy", "goroutines", "duration", "episodes", "cutoff", "full_playouts"}
	rows := make([][]string, 0, len(moves))
	for _, m := range moves {
		rows = append(rows, []string{
			strconv.Itoa(m.Game),
			strconv.Itoa(m.Step),
			m.Player,
			m.Strategy,
			strconv.Itoa(m.Goroutines),
			m.Duration.String(),
			strconv.Itoa(m.Episodes),
			strconv.Itoa(m.Cutoff),
			strconv.Itoa(m.FullPlayouts),
		})
	}
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) write(file string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", file, err)
	}
	return nil
}
