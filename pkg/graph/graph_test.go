package graph

import (
	"testing"

	"github.com/chazu/polycube/pkg/block"
	"github.com/chazu/polycube/pkg/grid"
	"github.com/go-gl/mathgl/mgl64"
)

var mono = []grid.Cell{{0, 0, 0}}

func at(id block.ID, x, y, z float64, cells ...grid.Cell) *block.Block {
	if len(cells) == 0 {
		cells = mono
	}
	return block.New(id, "", cells, "", mgl64.Vec3{x, y, z})
}

func idSet(blocks []*block.Block) map[block.ID]bool {
	set := make(map[block.ID]bool, len(blocks))
	for _, b := range blocks {
		set[b.ID] = true
	}
	return set
}

func sameSet(a, b map[block.ID]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b[id] {
			return false
		}
	}
	return true
}

func TestAdjacent(t *testing.T) {
	a := at(0, 0, 0, 0)
	tests := []struct {
		name  string
		other *block.Block
		want  bool
	}{
		{"face neighbour x", at(1, 1, 0, 0), true},
		{"face neighbour -y", at(1, 0, -1, 0), true},
		{"edge diagonal", at(1, 1, 1, 0), false},
		{"corner diagonal", at(1, 1, 1, 1), false},
		{"two apart", at(1, 2, 0, 0), false},
		{"overlapping", at(1, 0, 0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Adjacent(a, tt.other); got != tt.want {
				t.Errorf("Adjacent = %v, want %v", got, tt.want)
			}
			if got := Adjacent(tt.other, a); got != tt.want {
				t.Errorf("Adjacent (reversed) = %v, want %v", got, tt.want)
			}
		})
	}
	if Adjacent(a, a) {
		t.Error("a block must not be adjacent to itself")
	}
}

func TestAdjacentUsesAnyCellPair(t *testing.T) {
	// A's far cell (-1,0,0) touches B's cell at (-1,0,1) only.
	a := at(0, 0, 0, 0, grid.Cell{0, 0, 0}, grid.Cell{-1, 0, 0})
	b := at(1, -1, 0, 1, grid.Cell{0, 0, 0}, grid.Cell{0, 0, 1})
	if !Adjacent(a, b) {
		t.Fatal("expected adjacency through non-origin cells")
	}
}

func TestFindConnectedSymmetric(t *testing.T) {
	a := at(0, 0, 0, 0)
	b := at(1, 1, 0, 0)
	c := at(2, 5, 0, 0)
	blocks := []*block.Block{a, b, c}

	fromA := idSet(FindConnected(blocks, a))
	fromB := idSet(FindConnected(blocks, b))
	if !sameSet(fromA, fromB) {
		t.Fatalf("components differ: %v vs %v", fromA, fromB)
	}
	if !sameSet(fromA, map[block.ID]bool{0: true, 1: true}) {
		t.Fatalf("unexpected component %v", fromA)
	}
}

func TestFindConnectedTransitive(t *testing.T) {
	a := at(0, 0, 0, 0)
	b := at(1, 1, 0, 0)
	c := at(2, 2, 0, 0)
	d := at(3, 2, 1, 0)
	far := at(4, 9, 9, 9)
	blocks := []*block.Block{far, d, c, b, a}

	comp := FindConnected(blocks, a)
	if comp[0] != a {
		t.Fatalf("seed must come first, got block %d", comp[0].ID)
	}
	got := idSet(comp)
	want := map[block.ID]bool{0: true, 1: true, 2: true, 3: true}
	if !sameSet(got, want) {
		t.Fatalf("component = %v, want %v", got, want)
	}
}

func TestFindConnectedIsolated(t *testing.T) {
	a := at(0, 0, 0, 0)
	comp := FindConnected([]*block.Block{a, at(1, 3, 0, 0)}, a)
	if len(comp) != 1 || comp[0] != a {
		t.Fatalf("expected only the seed, got %v", IDs(comp))
	}
	if FindConnected(nil, nil) != nil {
		t.Fatal("nil seed should yield nil")
	}
}

func TestFindConnectedDeterministic(t *testing.T) {
	a := at(0, 0, 0, 0)
	b := at(1, 1, 0, 0)
	c := at(2, -1, 0, 0)
	d := at(3, 0, 0, 1)
	blocks := []*block.Block{a, b, c, d}

	first := IDs(FindConnected(blocks, a))
	for i := 0; i < 10; i++ {
		again := IDs(FindConnected(blocks, a))
		if len(again) != len(first) {
			t.Fatalf("run %d: length changed", i)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d: order changed: %v vs %v", i, again, first)
			}
		}
	}
}
