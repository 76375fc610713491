package board

import (
	"fmt"
	"math"
	"strings"
)

const (
	RingSize  = 48
	ArmLength = 3
)

// Standard builds the four-player board: a 48-node ring, a reserve and safe
// entry per color, and a four-armed cross whose arms meet the ring at junctions.
func Standard() *Board {
	b, err := build(standardDocument())
	if err != nil {
		panic(fmt.Sprintf("standard board is invalid: %v", err))
	}
	return b
}

func RingID(i int) string {
	return fmt.Sprintf("outer_%d", ((i%RingSize)+RingSize)%RingSize)
}

func ReserveID(c Color) string {
	return "box_" + strings.ToLower(string(c))
}

func ArmID(dir Direction, i int) string {
	return fmt.Sprintf("cross_%s_%d", strings.ToLower(string(dir)[:1]), i)
}

const CenterID = "cross_c"

func standardDocument() document {
	const radius = 12.0
	seg := RingSize / len(Palette)
	quarter := seg / 2

	entries := make(map[int]Color, len(Palette))
	for i, c := range Palette {
		entries[i*seg] = c
	}
	junctions := make(map[int]Direction, len(Cardinals))
	for i, d := range Cardinals {
		junctions[i*seg+quarter] = d
	}

	nodes := []nodeRecord{}
	position := func(i int) (float64, float64) {
		theta := -math.Pi/2 - 2*math.Pi*float64(quarter)/RingSize + 2*math.Pi*float64(i)/RingSize
		return round(radius * math.Cos(theta)), round(radius * math.Sin(theta))
	}

	for i := 0; i < RingSize; i++ {
		x, y := position(i)
		rec := nodeRecord{
			ID:        RingID(i),
			X:         x,
			Y:         y,
			Neighbors: []string{RingID(i + 1), RingID(i - 1)},
			Tags:      []string{"NORMAL"},
		}
		if c, ok := entries[i]; ok {
			rec.Tags = []string{"SAFE_COLOR"}
			rec.Color = c
			rec.Neighbors = append(rec.Neighbors, ReserveID(c))
		}
		if d, ok := junctions[i]; ok {
			rec.Tags = []string{"JUNCTION"}
			rec.Neighbors = append(rec.Neighbors, ArmID(d, ArmLength))
		}
		nodes = append(nodes, rec)
	}

	for i, c := range Palette {
		x, y := position(i * seg)
		nodes = append(nodes, nodeRecord{
			ID:        ReserveID(c),
			X:         round(x * 1.25),
			Y:         round(y * 1.25),
			Neighbors: []string{RingID(i * seg)},
			Tags:      []string{"RESERVE"},
			Color:     c,
		})
	}

	center := nodeRecord{ID: CenterID, Tags: []string{"CROSS"}}
	for i, d := range Cardinals {
		center.Neighbors = append(center.Neighbors, ArmID(d, 1))
		dx, dy := position(i*seg + quarter)
		for k := 1; k <= ArmLength; k++ {
			inner, outer := CenterID, RingID(i*seg+quarter)
			if k > 1 {
				inner = ArmID(d, k-1)
			}
			if k < ArmLength {
				outer = ArmID(d, k+1)
			}
			scale := float64(k) / float64(ArmLength+1)
			nodes = append(nodes, nodeRecord{
				ID:        ArmID(d, k),
				X:         round(dx * scale),
				Y:         round(dy * scale),
				Neighbors: []string{outer, inner},
				Tags:      []string{"CROSS"},
			})
		}
	}
	nodes = append(nodes, center)

	return document{
		Meta:  map[string]any{"name": "standard", "players": len(Palette)},
		Nodes: nodes,
	}
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
