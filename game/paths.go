package game

import (
	"slices"

	"coppit/board"
)

// Path is a node sequence from a start node to a destination, both included.
type Path []string

func (p Path) Destination() string {
	return p[len(p)-1]
}

// EnumeratePaths lists every path of exactly steps moves from start. Ring nodes
// follow the direction (both ways for Any), junctions may also turn onto the cross,
// and cross nodes go to any neighbor. No path visits a node twice and reserves are
// never entered.
func EnumeratePaths(b *board.Board, start string, steps int, dir board.Direction) []Path {
	if _, ok := b.Node(start); !ok || steps < 0 {
		return nil
	}
	paths := []Path{}
	walk := Path{start}
	explore(b, walk, steps, dir, &paths)
	return paths
}

func explore(b *board.Board, walk Path, remaining int, dir board.Direction, paths *[]Path) {
	if remaining == 0 {
		*paths = append(*paths, slices.Clone(walk))
		return
	}
	for _, next := range nextSteps(b, walk, dir) {
		if slices.Contains(walk, next) {
			continue
		}
		explore(b, append(walk, next), remaining-1, dir, paths)
	}
}

func nextSteps(b *board.Board, walk Path, dir board.Direction) []string {
	current := walk[len(walk)-1]
	node, _ := b.Node(current)

	switch node.Kind {
	case board.Plain, board.SafeColor:
		return ringSteps(b, current, dir)
	case board.Junction:
		steps := ringSteps(b, current, dir)
		for _, nb := range node.Neighbors {
			if n, _ := b.Node(nb); n.Kind == board.Cross {
				steps = append(steps, nb)
			}
		}
		return steps
	case board.Cross:
		if center, ok := b.Center(); ok && current == center && len(walk) == 1 && dir.Cardinal() {
			arm, _ := b.CenterArm(dir)
			return []string{arm}
		}
		steps := []string{}
		for _, nb := range node.Neighbors {
			if n, _ := b.Node(nb); n.Kind != board.Reserve {
				steps = append(steps, nb)
			}
		}
		return steps
	}
	return nil
}

func ringSteps(b *board.Board, current string, dir board.Direction) []string {
	if dir.Rotational() {
		next, _ := b.Step(current, dir)
		return []string{next}
	}
	cw, _ := b.Clockwise(current)
	ccw, _ := b.CounterClockwise(current)
	return []string{cw, ccw}
}

// Destinations returns the distinct endpoints of paths in first-seen order.
func Destinations(paths []Path) []string {
	seen := map[string]bool{}
	dests := []string{}
	for _, p := range paths {
		d := p.Destination()
		if !seen[d] {
			seen[d] = true
			dests = append(dests, d)
		}
	}
	return dests
}

// DeployPaths enters a color's pieces at its entry node and travels the rest of
// the roll along the ring. A roll of 1 lands on the entry itself.
func DeployPaths(b *board.Board, c board.Color, roll int, dir board.Direction) []Path {
	entry, ok := b.Entry(c)
	if !ok || roll < 1 {
		return nil
	}
	if roll == 1 {
		return []Path{{entry}}
	}
	if dir.Rotational() {
		return EnumeratePaths(b, entry, roll-1, dir)
	}
	paths := EnumeratePaths(b, entry, roll-1, board.Clockwise)
	return append(paths, EnumeratePaths(b, entry, roll-1, board.CounterClockwise)...)
}

// ReturnPath is the shortest route from a node to a color's reserve, provided
// its length matches the roll exactly.
func ReturnPath(b *board.Board, from string, c board.Color, roll int) (Path, bool) {
	reserve, ok := b.Reserve(c)
	if !ok {
		return nil, false
	}
	path, ok := b.ShortestPath(from, reserve)
	if !ok || len(path)-1 != roll {
		return nil, false
	}
	return path, true
}
