package board

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStandard(t *testing.T) {
	b := Standard()

	t.Run("node count", func(t *testing.T) {
		require.Equal(t, RingSize+len(Palette)+len(Cardinals)*ArmLength+1, b.Len(),
			"Should hold the ring, the reserves, the arms and the center")
	})

	t.Run("ring wraps around", func(t *testing.T) {
		next, ok := b.Clockwise("outer_47")
		require.True(t, ok)
		require.Equal(t, "outer_0", next, "Clockwise from the last ring node should wrap")

		prev, ok := b.CounterClockwise("outer_0")
		require.True(t, ok)
		require.Equal(t, "outer_47", prev, "Counter-clockwise from the first ring node should wrap")
	})

	t.Run("reserves and entries", func(t *testing.T) {
		for i, c := range Palette {
			reserve, ok := b.Reserve(c)
			require.True(t, ok)
			require.Equal(t, ReserveID(c), reserve)

			entry, ok := b.Entry(c)
			require.True(t, ok)
			require.Equal(t, RingID(i*RingSize/len(Palette)), entry, "Entry should be the reserve's first neighbor")
			require.True(t, b.IsSafeFor(entry, c), "Entry should be safe for its own color")
		}
		require.False(t, b.IsSafeFor("outer_0", Blue), "Entry should not shelter other colors")
	})

	t.Run("center arms", func(t *testing.T) {
		center, ok := b.Center()
		require.True(t, ok)
		require.Equal(t, CenterID, center)

		for _, d := range Cardinals {
			arm, ok := b.CenterArm(d)
			require.True(t, ok)
			require.Equal(t, ArmID(d, 1), arm)
		}
		_, ok = b.CenterArm(Clockwise)
		require.False(t, ok, "Rotational directions have no center arm")
	})

	t.Run("junctions join the cross", func(t *testing.T) {
		n, ok := b.Node("outer_6")
		require.True(t, ok)
		require.Equal(t, Junction, n.Kind)
		require.Contains(t, n.Neighbors, ArmID(North, ArmLength))
	})
}

func TestDistance(t *testing.T) {
	b := Standard()

	t.Run("ring to reserve", func(t *testing.T) {
		d, ok := b.Distance("outer_2", "box_red")
		require.True(t, ok)
		require.Equal(t, 3, d)
	})

	t.Run("center to reserve", func(t *testing.T) {
		d, ok := b.Distance(CenterID, "box_red")
		require.True(t, ok)
		require.Equal(t, ArmLength+1+6+1, d, "Should walk the north arm then the ring back to the entry")
	})

	t.Run("same node", func(t *testing.T) {
		path, ok := b.ShortestPath("outer_5", "outer_5")
		require.True(t, ok)
		require.Equal(t, []string{"outer_5"}, path)
	})

	t.Run("unknown node", func(t *testing.T) {
		_, ok := b.Distance("nowhere", "box_red")
		require.False(t, ok)
	})

	t.Run("path is shortest", func(t *testing.T) {
		path, ok := b.ShortestPath("outer_46", "box_red")
		require.True(t, ok)
		require.Equal(t, []string{"outer_46", "outer_47", "outer_0", "box_red"}, path)
	})
}

func TestParse(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		data, err := json.Marshal(Standard())
		require.NoError(t, err)

		b, err := Parse(strings.NewReader(string(data)))
		require.NoError(t, err)
		require.Equal(t, Standard().Len(), b.Len())

		next, _ := b.Clockwise("outer_12")
		require.Equal(t, "outer_13", next)
		entry, _ := b.Entry(Yellow)
		require.Equal(t, "outer_36", entry)
	})

	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"nodes": [`},
		{"no nodes", `{"meta": {}, "nodes": []}`},
		{"unknown neighbor", `{"nodes": [{"id": "a", "neighbors": ["b"], "tags": ["NORMAL"]}]}`},
		{"unknown tag", `{"nodes": [{"id": "a", "neighbors": [], "tags": ["LAVA"]}]}`},
		{"safe node without color", `{"nodes": [{"id": "a", "neighbors": [], "tags": ["SAFE_COLOR"]}]}`},
		{"duplicate id", `{"nodes": [{"id": "a", "tags": ["CROSS"]}, {"id": "a", "tags": ["CROSS"]}]}`},
		{"one-way link", `{"nodes": [
			{"id": "a", "neighbors": ["b"], "tags": ["CROSS"]},
			{"id": "b", "neighbors": [], "tags": ["CROSS"]}]}`},
		{"inconsistent ring", `{"nodes": [
			{"id": "a", "neighbors": ["b", "c"], "tags": ["NORMAL"]},
			{"id": "b", "neighbors": ["a", "c"], "tags": ["NORMAL"]},
			{"id": "c", "neighbors": ["a", "b"], "tags": ["NORMAL"]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.ErrorIs(t, err, ErrMalformed, "Should reject a malformed board")
		})
	}

	t.Run("small ring", func(t *testing.T) {
		b, err := Parse(strings.NewReader(`{"nodes": [
			{"id": "a", "neighbors": ["b", "c", "box"], "tags": ["SAFE_COLOR"], "color": "RED"},
			{"id": "b", "neighbors": ["c", "a"], "tags": ["NORMAL"]},
			{"id": "c", "neighbors": ["a", "b"], "tags": ["NORMAL"]},
			{"id": "box", "neighbors": ["a"], "tags": ["BOX"], "color": "RED"}]}`))
		require.NoError(t, err)

		entry, ok := b.Entry(Red)
		require.True(t, ok)
		require.Equal(t, "a", entry)
		next, _ := b.Clockwise("c")
		require.Equal(t, "a", next)
	})
}

func TestLoad(t *testing.T) {
	_, err := Load("does/not/exist.json")
	require.Error(t, err, "Should fail for a missing file")
}
