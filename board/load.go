package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
)

var ErrMalformed = errors.New("malformed board")

type document struct {
	Meta  map[string]any `json:"meta"`
	Nodes []nodeRecord   `json:"nodes"`
}

type nodeRecord struct {
	ID        string   `json:"id"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Neighbors []string `json:"neighbors"`
	Tags      []string `json:"tags"`
	Color     Color    `json:"color,omitempty"`
}

// Load reads a board document from disk.
func Load(path string) (*Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open board %s: %w", path, err)
	}
	defer f.Close()

	b, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load board %s: %w", path, err)
	}
	return b, nil
}

// Parse decodes and validates a board document.
func Parse(r io.Reader) (*Board, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return build(doc)
}

func build(doc document) (*Board, error) {
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("%w: no nodes", ErrMalformed)
	}

	b := &Board{
		nodes:    make(map[string]*Node, len(doc.Nodes)),
		cw:       make(map[string]string),
		ccw:      make(map[string]string),
		reserves: make(map[Color]string),
	}
	if name, ok := doc.Meta["name"].(string); ok {
		b.Name = name
	}

	for _, rec := range doc.Nodes {
		if rec.ID == "" {
			return nil, fmt.Errorf("%w: node without id", ErrMalformed)
		}
		if _, dup := b.nodes[rec.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node %s", ErrMalformed, rec.ID)
		}
		kind, err := kindOf(rec.Tags)
		if err != nil {
			return nil, fmt.Errorf("%w: node %s: %v", ErrMalformed, rec.ID, err)
		}
		node := &Node{
			ID:        rec.ID,
			X:         rec.X,
			Y:         rec.Y,
			Neighbors: slices.Clone(rec.Neighbors),
			Kind:      kind,
		}
		if kind == Reserve || kind == SafeColor {
			if !rec.Color.Valid() {
				return nil, fmt.Errorf("%w: node %s: %s node needs a color, got %q", ErrMalformed, rec.ID, kind, rec.Color)
			}
			node.Color = rec.Color
		}
		b.nodes[rec.ID] = node
		b.order = append(b.order, rec.ID)
	}

	for _, id := range b.order {
		if err := b.link(b.nodes[id]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	for id, next := range b.cw {
		if b.ccw[next] != id {
			return nil, fmt.Errorf("%w: ring is not consistent at %s: clockwise %s leads back to %s", ErrMalformed, id, next, b.ccw[next])
		}
	}
	return b, nil
}

func kindOf(tags []string) (Kind, error) {
	kind := Plain
	rank := 0
	for _, tag := range tags {
		var k Kind
		var r int
		switch tag {
		case "RESERVE", "BOX":
			k, r = Reserve, 4
		case "CROSS", "CENTER":
			k, r = Cross, 3
		case "JUNCTION":
			k, r = Junction, 2
		case "SAFE_COLOR":
			k, r = SafeColor, 1
		case "NORMAL", "START":
			continue
		default:
			return Plain, fmt.Errorf("unknown tag %q", tag)
		}
		if r > rank {
			kind, rank = k, r
		}
	}
	return kind, nil
}

func (b *Board) link(n *Node) error {
	for _, nb := range n.Neighbors {
		other, ok := b.nodes[nb]
		if !ok {
			return fmt.Errorf("node %s: unknown neighbor %s", n.ID, nb)
		}
		if nb == n.ID {
			return fmt.Errorf("node %s: lists itself as neighbor", n.ID)
		}
		if !slices.Contains(other.Neighbors, n.ID) {
			return fmt.Errorf("node %s: neighbor %s does not link back", n.ID, nb)
		}
	}

	switch n.Kind {
	case Reserve:
		if len(n.Neighbors) == 0 || !b.nodes[n.Neighbors[0]].OnRing() {
			return fmt.Errorf("reserve %s: first neighbor must be its ring entry", n.ID)
		}
		if _, dup := b.reserves[n.Color]; dup {
			return fmt.Errorf("reserve %s: second reserve for %s", n.ID, n.Color)
		}
		b.reserves[n.Color] = n.ID
	case Cross:
		if len(n.Neighbors) == len(Cardinals) && !b.hasRingNeighbor(n) {
			if b.center != "" {
				return fmt.Errorf("cross %s: second center, %s already is one", n.ID, b.center)
			}
			b.center = n.ID
		}
	default:
		var ring []string
		for _, nb := range n.Neighbors {
			if b.nodes[nb].OnRing() {
				ring = append(ring, nb)
			}
		}
		if len(ring) != 2 {
			return fmt.Errorf("ring node %s: expected 2 ring neighbors, got %d", n.ID, len(ring))
		}
		b.cw[n.ID] = ring[0]
		b.ccw[n.ID] = ring[1]
	}
	return nil
}

func (b *Board) hasRingNeighbor(n *Node) bool {
	for _, nb := range n.Neighbors {
		if b.nodes[nb].OnRing() {
			return true
		}
	}
	return false
}

func (b *Board) MarshalJSON() ([]byte, error) {
	doc := document{
		Meta:  map[string]any{"name": b.Name, "nodes": len(b.order)},
		Nodes: make([]nodeRecord, 0, len(b.order)),
	}
	for _, n := range b.Nodes() {
		rec := nodeRecord{
			ID:        n.ID,
			X:         n.X,
			Y:         n.Y,
			Neighbors: n.Neighbors,
			Tags:      []string{n.Kind.String()},
			Color:     n.Color,
		}
		doc.Nodes = append(doc.Nodes, rec)
	}
	return json.Marshal(doc)
}
