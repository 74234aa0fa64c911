// Package interact is the gesture layer of the polycube engine. It turns
// pointer and keyboard input into selection, grid-snapped drags and
// quarter-turn group rotations, and drives the per-block animators from a
// single host tick.
//
// The renderer, camera and orbit navigation stay with the host and are
// reached only through the interfaces in this file.
package interact

import (
	"github.com/chazu/polycube/pkg/anim"
	"github.com/chazu/polycube/pkg/block"
	"github.com/chazu/polycube/pkg/geom"
	"github.com/chazu/polycube/pkg/grid"
	"github.com/chazu/polycube/pkg/kernel"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera reports the host camera frame in world space.
type Camera interface {
	ViewDirection() mgl64.Vec3
	Up() mgl64.Vec3
}

// GizmoState is what the host needs to draw the rotation rings.
type GizmoState struct {
	Visible  bool       `json:"visible"`
	At       mgl64.Vec3 `json:"at"`
	Radius   float64    `json:"radius"`
	Hovering bool       `json:"hovering"`
	Hover    grid.Axis  `json:"hover"`
}

// Scene receives presentation updates.
type Scene interface {
	SetHighlight(id block.ID, on bool)
	SetGizmo(state GizmoState)
	SetTransform(id block.ID, p anim.Presentation)
	SetMesh(id block.ID, m *kernel.Mesh)
}

// Navigation toggles the host's orbit controls.
type Navigation interface {
	SetNavigationEnabled(enabled bool)
}

// Host bundles everything a Session consumes from its environment.
type Host interface {
	Camera
	Scene
	Navigation
}

// PointerEvent is a pointer sample. X and Y are client pixels; Ray is the
// world-space pick ray the host unprojected through its camera.
type PointerEvent struct {
	X   float64  `json:"x"`
	Y   float64  `json:"y"`
	Ray geom.Ray `json:"ray"`
}

func (e PointerEvent) distance(o PointerEvent) float64 {
	return mgl64.Vec2{e.X - o.X, e.Y - o.Y}.Len()
}

// FlipDirection names a camera-relative quarter turn.
type FlipDirection string

const (
	FlipUp    FlipDirection = "up"
	FlipDown  FlipDirection = "down"
	FlipLeft  FlipDirection = "left"
	FlipRight FlipDirection = "right"
)
