package board

import "fmt"

type Color string

const (
	Red    Color = "RED"
	Green  Color = "GREEN"
	Blue   Color = "BLUE"
	Yellow Color = "YELLOW"
)

// Palette lists the player colors in the order seats are assigned.
var Palette = []Color{Red, Green, Blue, Yellow}

func (c Color) Valid() bool {
	switch c {
	case Red, Green, Blue, Yellow:
		return true
	}
	return false
}

// Kind is the closed set of node variants. Reserve and SafeColor nodes carry a Color.
type Kind int

const (
	Plain Kind = iota
	Reserve
	SafeColor
	Junction
	Cross
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "NORMAL"
	case Reserve:
		return "RESERVE"
	case SafeColor:
		return "SAFE_COLOR"
	case Junction:
		return "JUNCTION"
	case Cross:
		return "CROSS"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Direction selects how a stack leaves its node. The zero value lets the explorer try every way out.
type Direction string

const (
	Any              Direction = ""
	Clockwise        Direction = "CW"
	CounterClockwise Direction = "CCW"
	North            Direction = "NORTH"
	East             Direction = "EAST"
	South            Direction = "SOUTH"
	West             Direction = "WEST"
)

// Cardinals are the center arms, in the order the center node lists its neighbors.
var Cardinals = []Direction{North, East, South, West}

func (d Direction) Valid() bool {
	switch d {
	case Any, Clockwise, CounterClockwise, North, East, South, West:
		return true
	}
	return false
}

func (d Direction) Rotational() bool {
	return d == Clockwise || d == CounterClockwise
}

func (d Direction) Cardinal() bool {
	switch d {
	case North, East, South, West:
		return true
	}
	return false
}

type Node struct {
	ID        string
	X, Y      float64
	Neighbors []string
	Kind      Kind
	Color     Color // only for Reserve and SafeColor
}

// OnRing reports whether the node belongs to the outer ring.
func (n *Node) OnRing() bool {
	switch n.Kind {
	case Plain, SafeColor, Junction:
		return true
	}
	return false
}

// Board is the immutable node graph shared by every game on it.
type Board struct {
	Name     string
	nodes    map[string]*Node
	order    []string
	cw       map[string]string
	ccw      map[string]string
	reserves map[Color]string
	center   string
}

func (b *Board) Node(id string) (*Node, bool) {
	n, ok := b.nodes[id]
	return n, ok
}

// Nodes returns the nodes in document order.
func (b *Board) Nodes() []*Node {
	nodes := make([]*Node, 0, len(b.order))
	for _, id := range b.order {
		nodes = append(nodes, b.nodes[id])
	}
	return nodes
}

func (b *Board) Len() int {
	return len(b.order)
}

func (b *Board) Clockwise(id string) (string, bool) {
	next, ok := b.cw[id]
	return next, ok
}

func (b *Board) CounterClockwise(id string) (string, bool) {
	next, ok := b.ccw[id]
	return next, ok
}

// Step returns the ring neighbor of id in a rotational direction.
func (b *Board) Step(id string, dir Direction) (string, bool) {
	switch dir {
	case Clockwise:
		return b.Clockwise(id)
	case CounterClockwise:
		return b.CounterClockwise(id)
	}
	return "", false
}

// Reserve returns the reserve node of a color.
func (b *Board) Reserve(c Color) (string, bool) {
	id, ok := b.reserves[c]
	return id, ok
}

// Entry returns the ring node a color's pieces deploy onto.
func (b *Board) Entry(c Color) (string, bool) {
	id, ok := b.reserves[c]
	if !ok {
		return "", false
	}
	return b.nodes[id].Neighbors[0], true
}

// Center returns the cross center, if the board has one.
func (b *Board) Center() (string, bool) {
	return b.center, b.center != ""
}

// CenterArm returns the first node of the arm leaving the center in a cardinal direction.
func (b *Board) CenterArm(dir Direction) (string, bool) {
	if b.center == "" {
		return "", false
	}
	for i, d := range Cardinals {
		if d == dir {
			return b.nodes[b.center].Neighbors[i], true
		}
	}
	return "", false
}

// IsSafeFor reports whether the node shelters stacks controlled by c.
func (b *Board) IsSafeFor(id string, c Color) bool {
	n, ok := b.nodes[id]
	return ok && n.Kind == SafeColor && n.Color == c
}
