package interact

import (
	"github.com/chazu/polycube/pkg/block"
	"github.com/chazu/polycube/pkg/graph"
	"go.uber.org/zap"
)

// DefaultDragThreshold is the pointer travel, in pixels, that turns a
// press on a block into a drag.
const DefaultDragThreshold = 3.0

// Router dispatches pointer gestures. A press on a block selects nothing
// until release; moving past the threshold first turns it into a drag
// instead, so a click never moves a block and a drag never selects.
type Router struct {
	registry  *block.Registry
	sel       *Selection
	drag      *Drag
	gizmo     *Gizmo
	rotator   *Rotator
	nav       Navigation
	threshold float64
	log       *zap.Logger

	mode      Mode
	pressed   bool
	press     PointerEvent
	candidate *block.Block
	navOff    bool
}

// Mode returns the current gesture state.
func (r *Router) Mode() Mode {
	return r.mode
}

// acceptsRotation reports whether a rotation command may start. A block
// press or drag owns the group until release.
func (r *Router) acceptsRotation() bool {
	return r.mode == ModeIdle || r.mode == ModeGizmoRotating
}

func (r *Router) suspendNavigation() {
	if !r.navOff {
		r.nav.SetNavigationEnabled(false)
		r.navOff = true
	}
}

func (r *Router) restoreNavigation() {
	if r.navOff {
		r.nav.SetNavigationEnabled(true)
		r.navOff = false
	}
}

// PointerDown tests the gizmo rings first, then block surfaces.
func (r *Router) PointerDown(ev PointerEvent) {
	if r.mode != ModeIdle {
		return
	}
	r.pressed = true
	r.press = ev
	r.candidate = nil

	if center := r.sel.Center(); center != nil && r.sel.GizmoVisible() {
		pivot := center.PivotPoint()
		if axis, ok := r.gizmo.HitTest(ev.Ray, pivot); ok && r.gizmo.Begin(axis, ev.Ray, pivot) {
			r.mode = ModeGizmoRotating
			r.sel.setHover(axis, true)
			r.suspendNavigation()
			r.log.Debug("gizmo drag started", zap.Stringer("axis", axis))
			return
		}
	}

	if hit, ok := r.registry.Pick(ev.Ray); ok {
		r.candidate = r.registry.Get(hit.BlockID)
		r.mode = ModePendingClick
		r.suspendNavigation()
	}
}

// PointerMove promotes a pending click to a drag once the threshold is
// crossed and forwards motion to the running gesture. With no gesture it
// updates ring hover.
func (r *Router) PointerMove(ev PointerEvent) {
	switch r.mode {
	case ModePendingClick:
		if ev.distance(r.press) < r.threshold {
			return
		}
		if !r.drag.Start(r.candidate, r.press.Ray) {
			// Refused: swallow the rest of this gesture.
			r.mode = ModeIdle
			r.candidate = nil
			r.pressed = false
			return
		}
		r.mode = ModeDraggingSingle
		if r.drag.Group() {
			r.mode = ModeDraggingGroup
		}
		r.log.Debug("drag started",
			zap.Int("block", int(r.candidate.ID)),
			zap.Stringer("mode", r.mode))
		r.drag.Move(ev.Ray)

	case ModeDraggingSingle, ModeDraggingGroup:
		r.drag.Move(ev.Ray)

	case ModeGizmoRotating:
		center := r.sel.Center()
		if center == nil {
			return
		}
		if dir, ok := r.gizmo.Drag(ev.Ray, center.PivotPoint()); ok {
			r.rotator.RotateGroup(dir)
		}

	case ModeIdle:
		if r.pressed {
			return
		}
		center := r.sel.Center()
		if center == nil || !r.sel.GizmoVisible() {
			return
		}
		axis, ok := r.gizmo.HitTest(ev.Ray, center.PivotPoint())
		r.sel.setHover(axis, ok)
	}
}

// PointerUp finishes the gesture. A pending click selects the candidate's
// connected component; a short press on empty space deselects.
func (r *Router) PointerUp(ev PointerEvent) {
	defer r.restoreNavigation()

	switch r.mode {
	case ModeGizmoRotating:
		r.gizmo.End()
		r.sel.setHover(0, false)

	case ModeDraggingSingle, ModeDraggingGroup:
		moved := r.drag.End()
		r.log.Debug("drag ended", zap.Int("moved", len(moved)))

	case ModePendingClick:
		r.click(r.candidate)

	case ModeIdle:
		if r.pressed && ev.distance(r.press) < r.threshold && r.emptyAt(ev) {
			r.sel.DeselectAll()
		}
	}

	r.mode = ModeIdle
	r.pressed = false
	r.candidate = nil
}

// DoubleClick isolates the block under the pointer.
func (r *Router) DoubleClick(ev PointerEvent) {
	if r.mode != ModeIdle {
		return
	}
	if hit, ok := r.registry.Pick(ev.Ray); ok {
		r.sel.IsolateBlock(r.registry.Get(hit.BlockID))
	}
}

func (r *Router) click(b *block.Block) {
	if b == nil || r.sel.Center() == b {
		return
	}
	r.selectComponent(b)
}

func (r *Router) selectComponent(b *block.Block) {
	group := graph.FindConnected(r.registry.All(), b)
	r.sel.SelectGroupWithCenter(group, b)
}

// emptyAt reports whether nothing interactive lies under the pointer.
func (r *Router) emptyAt(ev PointerEvent) bool {
	if center := r.sel.Center(); center != nil && r.sel.GizmoVisible() {
		if _, ok := r.gizmo.HitTest(ev.Ray, center.PivotPoint()); ok {
			return false
		}
	}
	_, ok := r.registry.Pick(ev.Ray)
	return !ok
}

// cancel abandons any gesture in progress without side effects beyond
// snapping dragged blocks.
func (r *Router) cancel() {
	if r.gizmo.Active() {
		r.gizmo.End()
	}
	if r.drag.Active() {
		r.drag.End()
	}
	r.mode = ModeIdle
	r.pressed = false
	r.candidate = nil
	r.restoreNavigation()
}
