package graph

import (
	"github.com/chazu/polycube/pkg/block"
	"github.com/chazu/polycube/pkg/grid"
)

// cellsAdjacent reports whether any cell of a is one unit away from any
// cell of b along exactly one axis.
func cellsAdjacent(a, b []grid.Cell) bool {
	for _, ca := range a {
		for _, cb := range b {
			if ca.Manhattan(cb) == 1 {
				return true
			}
		}
	}
	return false
}

// Adjacent reports whether two blocks share a face. A block is never
// adjacent to itself.
func Adjacent(a, b *block.Block) bool {
	if a == b {
		return false
	}
	return cellsAdjacent(a.WorldCells(), b.WorldCells())
}

// FindConnected returns the connected component of seed under
// face-adjacency, walking blocks breadth-first. The seed comes first;
// the rest follow in discovery order, ties broken by position in blocks.
func FindConnected(blocks []*block.Block, seed *block.Block) []*block.Block {
	if seed == nil {
		return nil
	}

	// World cells are computed once per block rather than per pair.
	cells := make(map[*block.Block][]grid.Cell, len(blocks)+1)
	cells[seed] = seed.WorldCells()
	for _, b := range blocks {
		if _, ok := cells[b]; !ok {
			cells[b] = b.WorldCells()
		}
	}

	visited := map[*block.Block]bool{seed: true}
	component := []*block.Block{seed}
	queue := []*block.Block{seed}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, b := range blocks {
			if visited[b] {
				continue
			}
			if cellsAdjacent(cells[cur], cells[b]) {
				visited[b] = true
				component = append(component, b)
				queue = append(queue, b)
			}
		}
	}
	return component
}

// IDs returns the ids of blocks in order.
func IDs(blocks []*block.Block) []block.ID {
	ids := make([]block.ID, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}
	return ids
}

// shapeConnected reports whether the cells of one shape form a single
// face-connected polycube.
func shapeConnected(cells []grid.Cell) bool {
	if len(cells) <= 1 {
		return true
	}
	seen := map[grid.Cell]bool{cells[0]: true}
	queue := []grid.Cell{cells[0]}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range cells {
			if !seen[c] && cur.Manhattan(c) == 1 {
				seen[c] = true
				queue = append(queue, c)
			}
		}
	}
	return len(seen) == countDistinct(cells)
}

func countDistinct(cells []grid.Cell) int {
	set := make(map[grid.Cell]struct{}, len(cells))
	for _, c := range cells {
		set[c] = struct{}{}
	}
	return len(set)
}
