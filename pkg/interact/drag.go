package interact

import (
	"math"

	"github.com/chazu/polycube/pkg/block"
	"github.com/chazu/polycube/pkg/geom"
	"github.com/chazu/polycube/pkg/grid"
	"github.com/go-gl/mathgl/mgl64"
)

// Drag translates a block, or the whole selection group it belongs to,
// across an axis-aligned plane in whole-cell steps.
type Drag struct {
	camera Camera
	sel    *Selection
	anims  animators

	active bool
	group  bool
	target *block.Block
	start  mgl64.Vec3 // target position at press

	planePoint  mgl64.Vec3
	planeNormal mgl64.Vec3
	offset      mgl64.Vec3

	members []*block.Block
	starts  []mgl64.Vec3
}

func newDrag(camera Camera, sel *Selection, anims animators) *Drag {
	return &Drag{camera: camera, sel: sel, anims: anims}
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool {
	return d.active
}

// Group reports whether the running drag moves the selection group.
func (d *Drag) Group() bool {
	return d.group
}

// dragPlaneNormal picks the axis whose plane faces the camera most
// directly.
func dragPlaneNormal(view mgl64.Vec3) mgl64.Vec3 {
	abs := mgl64.Vec3{math.Abs(view[0]), math.Abs(view[1]), math.Abs(view[2])}
	return grid.NearestDirection(abs).Axis().Vec()
}

// Start begins dragging b using the ray from the press. The offset between
// the block position and the press point stays fixed for the whole drag.
// It is refused while a moving block animates or when the press ray misses
// the drag plane.
func (d *Drag) Start(b *block.Block, press geom.Ray) bool {
	if d.active {
		return false
	}
	group := d.sel.Contains(b)
	members := []*block.Block{b}
	if group {
		members = d.sel.Members()
	}
	if d.anims.busy(members...) {
		return false
	}

	point := b.GeometricCenter()
	normal := dragPlaneNormal(d.camera.ViewDirection())
	hit, _, ok := geom.IntersectPlane(press, point, normal)
	if !ok {
		return false
	}

	d.active = true
	d.group = group
	d.target = b
	d.start = b.Position
	d.planePoint, d.planeNormal = point, normal
	d.offset = b.Position.Sub(hit)
	d.members = append(d.members[:0], members...)
	d.starts = d.starts[:0]
	for _, m := range members {
		d.starts = append(d.starts, m.Position)
	}
	d.sel.suspendGizmo()
	return true
}

// Move follows the pointer. A ray parallel to the plane leaves everything
// where it is.
func (d *Drag) Move(ray geom.Ray) {
	if !d.active {
		return
	}
	hit, _, ok := geom.IntersectPlane(ray, d.planePoint, d.planeNormal)
	if !ok {
		return
	}
	snapped := grid.SnapVec(hit.Add(d.offset))

	if !d.group {
		d.target.Position = d.target.ClampToFloor(snapped)
		return
	}
	delta := snapped.Sub(d.start)
	for i, m := range d.members {
		m.Position = m.ClampToFloor(d.starts[i].Add(delta))
	}
}

// End snaps every moved block onto the lattice and brings the gizmo back
// at the center's new pivot. It returns the moved blocks.
func (d *Drag) End() []*block.Block {
	if !d.active {
		return nil
	}
	moved := d.members
	for _, m := range moved {
		m.Snap()
	}
	d.active = false
	d.target = nil
	d.members = nil
	d.starts = nil
	d.sel.resumeGizmo()
	return moved
}
