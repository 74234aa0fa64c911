package interact

import (
	"math"

	"github.com/chazu/polycube/pkg/geom"
	"github.com/chazu/polycube/pkg/grid"
	"github.com/go-gl/mathgl/mgl64"
)

// commitAngle is how far the pointer must sweep around a ring before one
// quarter turn is issued.
const commitAngle = math.Pi / 4

// Gizmo converts a drag around one of three axis rings into discrete
// quarter-turn commands.
type Gizmo struct {
	Radius    float64
	Tolerance float64

	active bool
	axis   grid.Axis
	pivot   mgl64.Vec3
	u, v    mgl64.Vec3
	lastHit mgl64.Vec3
	last    float64
	acc     float64
}

// Active reports whether a ring is being dragged.
func (g *Gizmo) Active() bool {
	return g.active
}

// Axis returns the ring being dragged.
func (g *Gizmo) Axis() grid.Axis {
	return g.axis
}

// ringSamples is how many points approximate a ring when measuring its
// distance from a ray.
const ringSamples = 64

// HitTest finds the ring under the ray. A ring is hit when the ray meets
// its plane within Tolerance of Radius from the pivot; the hit closest to
// the ray origin wins. When no plane is crossed near a ring, a ring the
// ray grazes within Tolerance in 3D is hit instead, which picks rings
// seen nearly edge-on.
func (g *Gizmo) HitTest(ray geom.Ray, pivot mgl64.Vec3) (grid.Axis, bool) {
	var best grid.Axis
	bestT := math.Inf(1)
	found := false
	for _, axis := range grid.Axes {
		hit, t, ok := geom.IntersectPlane(ray, pivot, axis.Vec())
		if !ok {
			continue
		}
		if math.Abs(hit.Sub(pivot).Len()-g.Radius) > g.Tolerance {
			continue
		}
		if t < bestT {
			best, bestT, found = axis, t, true
		}
	}
	if found {
		return best, true
	}

	for _, axis := range grid.Axes {
		// A ray inside the ring plane cannot measure angles in it.
		if math.Abs(ray.Dir.Dot(axis.Vec())) < 1e-9 {
			continue
		}
		dist, t := g.ringDistance(ray, pivot, axis)
		if dist > g.Tolerance {
			continue
		}
		if t < bestT {
			best, bestT, found = axis, t, true
		}
	}
	return best, found
}

// ringDistance returns the closest approach between the ray and the ring
// for axis, and the ray parameter at which it occurs.
func (g *Gizmo) ringDistance(ray geom.Ray, pivot mgl64.Vec3, axis grid.Axis) (dist, t float64) {
	dist = math.Inf(1)
	l := ray.Dir.Len()
	if l == 0 {
		return dist, 0
	}
	dir := ray.Dir.Mul(1 / l)
	u, v := ringFrame(axis.Vec())
	for i := 0; i < ringSamples; i++ {
		a := 2 * math.Pi * float64(i) / ringSamples
		p := pivot.Add(u.Mul(g.Radius * math.Cos(a))).Add(v.Mul(g.Radius * math.Sin(a)))
		s := p.Sub(ray.Origin).Dot(dir)
		if s < 0 {
			continue
		}
		if d := ray.Origin.Add(dir.Mul(s)).Sub(p).Len(); d < dist {
			dist, t = d, s/l
		}
	}
	return dist, t
}

// ringFrame returns an orthonormal basis (u, v) of the plane normal to
// axis, with u derived from world X, or world Y when axis is nearly X.
func ringFrame(axis mgl64.Vec3) (u, v mgl64.Vec3) {
	ref := mgl64.Vec3{1, 0, 0}
	if math.Abs(axis.Dot(ref)) > 0.9 {
		ref = mgl64.Vec3{0, 1, 0}
	}
	u = ref.Sub(axis.Mul(ref.Dot(axis))).Normalize()
	return u, axis.Cross(u)
}

// Begin starts dragging the ring for axis. It fails when the ray misses
// the ring plane.
func (g *Gizmo) Begin(axis grid.Axis, ray geom.Ray, pivot mgl64.Vec3) bool {
	normal := axis.Vec()
	hit, _, ok := geom.IntersectPlane(ray, pivot, normal)
	if !ok {
		return false
	}
	g.active = true
	g.axis = axis
	g.pivot = pivot
	g.u, g.v = ringFrame(normal)
	g.lastHit = hit
	g.last = geom.AngleInPlane(hit.Sub(pivot), g.u, g.v)
	g.acc = 0
	return true
}

// Drag accumulates the signed sweep since the previous sample, measured
// around the ring's current pivot. When the pivot has moved, the previous
// sample is re-measured around it first so the move adds no sweep. Once
// the sweep reaches 45° it returns the quarter-turn direction (+axis for
// a positive sweep) and resets the accumulator.
func (g *Gizmo) Drag(ray geom.Ray, pivot mgl64.Vec3) (grid.Direction, bool) {
	if !g.active {
		return 0, false
	}
	if pivot != g.pivot {
		g.pivot = pivot
		g.last = geom.AngleInPlane(g.lastHit.Sub(pivot), g.u, g.v)
	}
	hit, _, ok := geom.IntersectPlane(ray, g.pivot, g.axis.Vec())
	if !ok {
		return 0, false
	}
	angle := geom.AngleInPlane(hit.Sub(g.pivot), g.u, g.v)
	g.acc += geom.WrapAngle(angle - g.last)
	g.last = angle
	g.lastHit = hit

	if math.Abs(g.acc) < commitAngle {
		return 0, false
	}
	dir := grid.DirectionOf(g.axis, g.acc > 0)
	g.acc = 0
	return dir, true
}

// End stops the ring drag.
func (g *Gizmo) End() {
	g.active = false
	g.acc = 0
}
