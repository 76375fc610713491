package board

import "slices"

// Distance is the number of edges on a shortest path between two nodes,
// following neighbor links regardless of node kind.
func (b *Board) Distance(from, to string) (int, bool) {
	path, ok := b.ShortestPath(from, to)
	if !ok {
		return 0, false
	}
	return len(path) - 1, true
}

// ShortestPath returns the first shortest path found by a breadth-first search
// that visits neighbors in listed order. The path includes both endpoints.
func (b *Board) ShortestPath(from, to string) ([]string, bool) {
	if _, ok := b.nodes[from]; !ok {
		return nil, false
	}
	if _, ok := b.nodes[to]; !ok {
		return nil, false
	}
	if from == to {
		return []string{from}, true
	}

	parent := map[string]string{from: ""}
	queue := []string{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, nb := range b.nodes[current].Neighbors {
			if _, seen := parent[nb]; seen {
				continue
			}
			parent[nb] = current
			if nb == to {
				return unwind(parent, to), true
			}
			queue = append(queue, nb)
		}
	}
	return nil, false
}

func unwind(parent map[string]string, to string) []string {
	path := []string{}
	for id := to; id != ""; id = parent[id] {
		path = append(path, id)
	}
	slices.Reverse(path)
	return path
}
