package interact

import (
	"testing"
	"time"

	"github.com/chazu/polycube/pkg/anim"
	"github.com/chazu/polycube/pkg/block"
	"github.com/chazu/polycube/pkg/geom"
	"github.com/chazu/polycube/pkg/grid"
	"github.com/chazu/polycube/pkg/kernel"
	"github.com/chazu/polycube/pkg/kernel/sdfx"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

// fakeHost records everything the engine pushes to it.
type fakeHost struct {
	view, up   mgl64.Vec3
	highlight  map[block.ID]bool
	gizmo      GizmoState
	gizmoCalls int
	transforms map[block.ID]anim.Presentation
	pushes     int
	meshes     map[block.ID]int
	navEnabled bool
	navToggles int
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		view:       mgl64.Vec3{0, -1, 0},
		up:         mgl64.Vec3{0, 0, -1},
		highlight:  make(map[block.ID]bool),
		transforms: make(map[block.ID]anim.Presentation),
		meshes:     make(map[block.ID]int),
		navEnabled: true,
	}
}

func (h *fakeHost) ViewDirection() mgl64.Vec3 { return h.view }
func (h *fakeHost) Up() mgl64.Vec3            { return h.up }

func (h *fakeHost) SetHighlight(id block.ID, on bool) { h.highlight[id] = on }

func (h *fakeHost) SetGizmo(st GizmoState) {
	h.gizmo = st
	h.gizmoCalls++
}

func (h *fakeHost) SetTransform(id block.ID, p anim.Presentation) {
	h.transforms[id] = p
	h.pushes++
}

func (h *fakeHost) SetMesh(id block.ID, _ *kernel.Mesh) { h.meshes[id]++ }

func (h *fakeHost) SetNavigationEnabled(on bool) {
	h.navEnabled = on
	h.navToggles++
}

func (h *fakeHost) highlighted() []block.ID {
	var ids []block.ID
	for id, on := range h.highlight {
		if on {
			ids = append(ids, id)
		}
	}
	return ids
}

var _ Host = (*fakeHost)(nil)

// selectionLog captures selection callbacks.
type selectionLog struct {
	calls  int
	ids    []block.ID
	center *block.ID
}

func (l *selectionLog) record(ids []block.ID, center *block.ID) {
	l.calls++
	l.ids = ids
	l.center = center
}

// ---------------------------------------------------------------------------
// Builders
// ---------------------------------------------------------------------------

var unit = []grid.Cell{{0, 0, 0}}

func cube(id block.ID, x, y, z float64) *block.Block {
	return block.New(id, "", unit, "", mgl64.Vec3{x, y, z})
}

func shape(id block.ID, pos mgl64.Vec3, cells ...grid.Cell) *block.Block {
	return block.New(id, "", cells, "", pos)
}

// testKernel meshes at the coarsest useful resolution.
func testKernel() kernel.Kernel {
	return sdfx.New(2)
}

func newTestSession(t *testing.T, host *fakeHost, blocks ...*block.Block) *Session {
	t.Helper()
	s, err := NewSession(blocks, host, Options{})
	require.NoError(t, err)
	return s
}

// down returns a pointer event at client (px, py) whose ray looks straight
// down onto world (x, z).
func down(px, py, x, z float64) PointerEvent {
	return PointerEvent{
		X:   px,
		Y:   py,
		Ray: geom.Ray{Origin: mgl64.Vec3{x, 10, z}, Dir: mgl64.Vec3{0, -1, 0}},
	}
}

// settle ticks until no block animates.
func settle(t *testing.T, s *Session) {
	t.Helper()
	for i := 0; i < 100 && s.Animating(); i++ {
		s.Tick(16 * time.Millisecond)
	}
	require.False(t, s.Animating(), "animations did not finish")
	s.Tick(0)
}

// click presses and releases at the same point above world (x, z).
func click(s *Session, x, z float64) {
	ev := down(100, 100, x, z)
	s.PointerDown(ev)
	s.PointerUp(ev)
}

// allCellsAboveFloor reports whether every occupied cell has y >= 0.
func allCellsAboveFloor(bs []*block.Block) bool {
	for _, b := range bs {
		for _, c := range b.WorldCells() {
			if c.Y < 0 {
				return false
			}
		}
	}
	return true
}
