// Package kernel defines the abstract geometry kernel interface used to
// turn a block's committed cells into a renderable mesh. Implementations
// (sdfx) provide solid modeling behind this interface so the backend can
// be swapped without touching the interaction engine.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Box creates a box with its minimum corner at the origin.
	Box(x, y, z float64) Solid

	// Union returns the union of two solids.
	Union(a, b Solid) Solid

	// Translate moves a solid by (x, y, z).
	Translate(s Solid, x, y, z float64) Solid

	// ToMesh tessellates a solid.
	ToMesh(s Solid) (*Mesh, error)
}
