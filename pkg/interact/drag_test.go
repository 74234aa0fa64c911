package interact

import (
	"testing"

	"github.com/chazu/polycube/pkg/geom"
	"github.com/chazu/polycube/pkg/grid"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// front returns a pointer event whose ray looks along -z onto world (x, y).
func front(px, py, x, y float64) PointerEvent {
	return PointerEvent{
		X:   px,
		Y:   py,
		Ray: geom.Ray{Origin: mgl64.Vec3{x, y, 10}, Dir: mgl64.Vec3{0, 0, -1}},
	}
}

func TestDragPlaneFacesCamera(t *testing.T) {
	tests := []struct {
		view mgl64.Vec3
		want mgl64.Vec3
	}{
		{mgl64.Vec3{0, -1, 0}, mgl64.Vec3{0, 1, 0}},
		{mgl64.Vec3{0.2, -0.9, 0.3}, mgl64.Vec3{0, 1, 0}},
		{mgl64.Vec3{0, -0.3, -0.9}, mgl64.Vec3{0, 0, 1}},
		{mgl64.Vec3{-0.8, 0.1, 0.5}, mgl64.Vec3{1, 0, 0}},
		// Diagonal views keep the earliest axis.
		{mgl64.Vec3{-1, -1, 0}, mgl64.Vec3{1, 0, 0}},
		{mgl64.Vec3{0, 1, -1}, mgl64.Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dragPlaneNormal(tt.view), "view %v", tt.view)
	}
}

func TestDragSingleBlock(t *testing.T) {
	host := newFakeHost()
	a := cube(0, 0, 0, 0)
	s := newTestSession(t, host, a)
	var log selectionLog
	s.OnSelectionChanged(log.record)

	s.PointerDown(down(100, 100, 0.5, 0.5))
	assert.Equal(t, ModePendingClick, s.Mode())
	assert.False(t, host.navEnabled)

	s.PointerMove(down(101, 100, 0.6, 0.5))
	assert.Equal(t, ModePendingClick, s.Mode(), "below threshold")
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, a.Position)

	s.PointerMove(down(110, 100, 3.4, 2.6))
	assert.Equal(t, ModeDraggingSingle, s.Mode())
	assert.Equal(t, mgl64.Vec3{3, 0, 2}, a.Position)

	s.PointerUp(down(110, 100, 3.4, 2.6))
	assert.Equal(t, ModeIdle, s.Mode())
	assert.Equal(t, mgl64.Vec3{3, 0, 2}, a.Position)
	assert.True(t, host.navEnabled)
	assert.Zero(t, log.calls, "a drag never selects")
	assert.Nil(t, s.Selection().Center())
}

func TestDragGroupKeepsRelativeLayout(t *testing.T) {
	host := newFakeHost()
	a, b, c := cube(0, 0, 0, 0), cube(1, 1, 0, 0), cube(2, 5, 0, 5)
	s := newTestSession(t, host, a, b, c)
	var log selectionLog
	s.OnSelectionChanged(log.record)

	click(s, 0.5, 0.5)
	require.Equal(t, 1, log.calls)
	require.Len(t, s.Selection().Members(), 2)

	s.PointerDown(down(100, 100, 1.5, 0.5))
	require.Equal(t, ModePendingClick, s.Mode())
	s.PointerMove(down(120, 100, 3.6, 2.4))
	assert.Equal(t, ModeDraggingGroup, s.Mode())
	assert.False(t, host.gizmo.Visible, "gizmo hidden while dragging")

	assert.Equal(t, mgl64.Vec3{2, 0, 2}, a.Position)
	assert.Equal(t, mgl64.Vec3{3, 0, 2}, b.Position)
	assert.Equal(t, mgl64.Vec3{5, 0, 5}, c.Position)

	s.PointerUp(down(120, 100, 3.6, 2.4))
	assert.True(t, host.gizmo.Visible)
	assert.Equal(t, mgl64.Vec3{2.5, 0.5, 2.5}, host.gizmo.At, "gizmo follows the center")
	assert.Equal(t, 1, log.calls, "selection unchanged by the drag")
}

func TestDragClampsToFloor(t *testing.T) {
	host := newFakeHost()
	host.view, host.up = mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 1, 0}
	a := cube(0, 0, 2, 0)
	hang := shape(1, mgl64.Vec3{4, 3, 0}, grid.Cell{0, 0, 0}, grid.Cell{0, -1, 0})
	s := newTestSession(t, host, a, hang)

	s.PointerDown(front(100, 100, 0.5, 2.5))
	s.PointerMove(front(100, 200, 0.5, -3))
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, a.Position)
	s.PointerUp(front(100, 200, 0.5, -3))

	s.PointerDown(front(100, 100, 4.5, 3.5))
	s.PointerMove(front(100, 200, 4.5, -6))
	s.PointerUp(front(100, 200, 4.5, -6))
	assert.Equal(t, mgl64.Vec3{4, 1, 0}, hang.Position, "hanging cell stays on the floor")
	assert.True(t, allCellsAboveFloor(s.Blocks()))
}

func TestDragIgnoresParallelRay(t *testing.T) {
	host := newFakeHost()
	a := cube(0, 0, 0, 0)
	s := newTestSession(t, host, a)

	s.PointerDown(down(100, 100, 0.5, 0.5))
	s.PointerMove(down(110, 100, 2.5, 0.5))
	require.Equal(t, mgl64.Vec3{2, 0, 0}, a.Position)

	flat := PointerEvent{X: 200, Y: 100, Ray: geom.Ray{Origin: mgl64.Vec3{0, 0.5, 0}, Dir: mgl64.Vec3{1, 0, 0}}}
	s.PointerMove(flat)
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, a.Position)
	s.PointerUp(flat)
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, a.Position)
}

func TestDragRefusedWhileAnimating(t *testing.T) {
	host := newFakeHost()
	a := shape(0, mgl64.Vec3{0, 0, 0}, lShape...)
	s := newTestSession(t, host, a)
	var log selectionLog
	s.OnSelectionChanged(log.record)

	s.SelectBlockByID(0)
	require.True(t, s.RotateSelection(grid.YPos))

	s.PointerDown(down(100, 100, 0.5, 0.5))
	s.PointerMove(down(120, 100, 3.5, 0.5))
	assert.Equal(t, ModeIdle, s.Mode())
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, a.Position)

	s.PointerUp(down(120, 100, 3.5, 0.5))
	assert.Equal(t, 1, log.calls, "refused drag neither selects nor deselects")
	assert.True(t, host.navEnabled)
}
