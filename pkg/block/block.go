// Package block defines the rigid polycube pieces manipulated by the
// interaction engine and the registry that owns them.
package block

import (
	"github.com/chazu/polycube/pkg/grid"
	"github.com/go-gl/mathgl/mgl64"
)

// ID identifies a block for the lifetime of a session.
type ID int

// half is the offset from a cell's min corner to its center.
var half = mgl64.Vec3{0.5, 0.5, 0.5}

// Block is a rigid polycube. Cells is the committed shape; rotation
// replaces it. Position is integral at rest and real-valued while the
// block is dragged or animated.
type Block struct {
	ID       ID
	Name     string
	Color    string
	Cells    []grid.Cell
	Position mgl64.Vec3
}

// New creates a block. The cell slice is copied.
func New(id ID, name string, cells []grid.Cell, color string, pos mgl64.Vec3) *Block {
	cs := make([]grid.Cell, len(cells))
	copy(cs, cells)
	return &Block{
		ID:       id,
		Name:     name,
		Color:    color,
		Cells:    cs,
		Position: pos,
	}
}

// GridPosition returns the position rounded to the lattice.
func (b *Block) GridPosition() grid.Cell {
	return grid.RoundVec(b.Position)
}

// WorldCells returns the lattice cells the block occupies, rounding the
// current position.
func (b *Block) WorldCells() []grid.Cell {
	origin := b.GridPosition()
	out := make([]grid.Cell, len(b.Cells))
	for i, c := range b.Cells {
		out[i] = origin.Add(c)
	}
	return out
}

// PivotPoint is the center of the origin cell. Quarter turns of the cell
// offsets correspond to rigid rotation of the block about this point.
func (b *Block) PivotPoint() mgl64.Vec3 {
	return b.Position.Add(half)
}

// GeometricCenter returns the mean of the cell centers in world space.
// The block must have at least one cell.
func (b *Block) GeometricCenter() mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, c := range b.Cells {
		sum = sum.Add(c.Vec())
	}
	return b.Position.Add(sum.Mul(1 / float64(len(b.Cells)))).Add(half)
}

// FloorY is the lowest origin height at which every cell of the block
// sits at y >= 0.
func (b *Block) FloorY() float64 {
	return float64(-grid.MinY(b.Cells))
}

// ClampToFloor raises p so that a block with this shape placed at p
// keeps every cell at y >= 0.
func (b *Block) ClampToFloor(p mgl64.Vec3) mgl64.Vec3 {
	if floor := b.FloorY(); p[1] < floor {
		p[1] = floor
	}
	return p
}

// Snap rounds the position onto the lattice.
func (b *Block) Snap() {
	b.Position = grid.SnapVec(b.Position)
}

// CellBounds returns the world-space box of the i-th cell.
func (b *Block) CellBounds(i int) (min, max mgl64.Vec3) {
	min = b.Position.Add(b.Cells[i].Vec())
	return min, min.Add(mgl64.Vec3{1, 1, 1})
}
