// Package tessellate turns a block's committed cells into a triangle mesh
// using a geometry kernel. The mesh is rebuilt from scratch whenever the
// committed cells change; it never carries animation state.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/polycube/pkg/block"
	"github.com/chazu/polycube/pkg/grid"
	"github.com/chazu/polycube/pkg/kernel"
)

// ErrNoCells is returned for a shape without cells.
var ErrNoCells = errors.New("tessellate: shape has no cells")

// Cells builds the union of unit boxes at the given offsets. The result is
// in the block's local space.
func Cells(cells []grid.Cell, k kernel.Kernel) (kernel.Solid, error) {
	if len(cells) == 0 {
		return nil, ErrNoCells
	}
	var solid kernel.Solid
	for _, c := range cells {
		unit := k.Translate(k.Box(1, 1, 1), float64(c.X), float64(c.Y), float64(c.Z))
		if solid == nil {
			solid = unit
			continue
		}
		solid = k.Union(solid, unit)
	}
	return solid, nil
}

// Block produces the mesh for b's committed cells, tagged with its id and
// color.
func Block(b *block.Block, k kernel.Kernel) (*kernel.Mesh, error) {
	solid, err := Cells(b.Cells, k)
	if err != nil {
		return nil, fmt.Errorf("tessellate: block %d: %w", b.ID, err)
	}
	m, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: block %d: %w", b.ID, err)
	}
	m.BlockID = int(b.ID)
	m.Color = b.Color
	return m, nil
}

// All tessellates every block in order.
func All(blocks []*block.Block, k kernel.Kernel) ([]*kernel.Mesh, error) {
	meshes := make([]*kernel.Mesh, 0, len(blocks))
	for _, b := range blocks {
		m, err := Block(b, k)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}
