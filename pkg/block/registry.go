package block

import (
	"fmt"

	"github.com/chazu/polycube/pkg/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// Registry owns the session's blocks in creation order and indexes them
// by id. Blocks are never removed.
type Registry struct {
	blocks []*Block
	index  map[ID]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[ID]int)}
}

// Add registers a block. Ids must be unique.
func (r *Registry) Add(b *Block) error {
	if _, exists := r.index[b.ID]; exists {
		return fmt.Errorf("block: id %d already registered", b.ID)
	}
	r.index[b.ID] = len(r.blocks)
	r.blocks = append(r.blocks, b)
	return nil
}

// Get returns the block with the given id, or nil.
func (r *Registry) Get(id ID) *Block {
	i, ok := r.index[id]
	if !ok {
		return nil
	}
	return r.blocks[i]
}

// All returns the blocks in creation order. The slice must not be modified.
func (r *Registry) All() []*Block {
	return r.blocks
}

// Len returns the number of blocks.
func (r *Registry) Len() int {
	return len(r.blocks)
}

// Hit is the result of picking a block with a ray.
type Hit struct {
	BlockID ID
	Cell    int // index into the block's Cells
	T       float64
	Point   mgl64.Vec3
}

// Pick tests every cell surface of every block and returns the nearest
// hit along the ray.
func (r *Registry) Pick(ray geom.Ray) (Hit, bool) {
	var best Hit
	found := false
	for _, b := range r.blocks {
		for i := range b.Cells {
			min, max := b.CellBounds(i)
			t, ok := geom.IntersectBox(ray, min, max)
			if !ok {
				continue
			}
			if !found || t < best.T {
				best = Hit{BlockID: b.ID, Cell: i, T: t, Point: ray.At(t)}
				found = true
			}
		}
	}
	return best, found
}
