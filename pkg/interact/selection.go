package interact

import (
	"github.com/chazu/polycube/pkg/block"
	"github.com/chazu/polycube/pkg/graph"
	"github.com/chazu/polycube/pkg/grid"
)

// SelectionFunc receives the selected member ids and the center id, or an
// empty list and nil after a deselect.
type SelectionFunc func(ids []block.ID, center *block.ID)

// Selection owns the active group and its center block. The group is a
// snapshot taken when it is selected; it is not recomputed when members
// are later dragged apart.
type Selection struct {
	scene    Scene
	radius   float64
	onChange SelectionFunc

	members []*block.Block
	center  *block.Block

	suspended bool
	hovering  bool
	hover     grid.Axis
}

func newSelection(scene Scene, radius float64) *Selection {
	return &Selection{scene: scene, radius: radius}
}

// SelectGroupWithCenter replaces the selection with group, pivoting on
// center.
func (s *Selection) SelectGroupWithCenter(group []*block.Block, center *block.Block) {
	s.clearHighlight()
	s.members = append([]*block.Block(nil), group...)
	s.center = center
	for _, b := range s.members {
		s.scene.SetHighlight(b.ID, true)
	}
	s.hovering = false
	s.refreshGizmo()

	id := center.ID
	s.emit(&id)
}

// IsolateBlock selects b on its own, ignoring its neighbours.
func (s *Selection) IsolateBlock(b *block.Block) {
	s.SelectGroupWithCenter([]*block.Block{b}, b)
}

// DeselectAll clears the selection and hides the gizmo.
func (s *Selection) DeselectAll() {
	s.clearHighlight()
	s.members = nil
	s.center = nil
	s.hovering = false
	s.refreshGizmo()
	s.emit(nil)
}

// Members returns the selected blocks. The slice must not be modified.
func (s *Selection) Members() []*block.Block {
	return s.members
}

// Center returns the pivot block, or nil when nothing is selected.
func (s *Selection) Center() *block.Block {
	return s.center
}

// Contains reports whether b is a member of the active group.
func (s *Selection) Contains(b *block.Block) bool {
	for _, m := range s.members {
		if m == b {
			return true
		}
	}
	return false
}

// GizmoVisible reports whether the rings are shown: a center is selected
// and no drag is hiding them.
func (s *Selection) GizmoVisible() bool {
	return s.center != nil && !s.suspended
}

func (s *Selection) suspendGizmo() {
	s.suspended = true
	s.refreshGizmo()
}

func (s *Selection) resumeGizmo() {
	s.suspended = false
	s.refreshGizmo()
}

func (s *Selection) setHover(axis grid.Axis, ok bool) {
	if s.hovering == ok && (!ok || s.hover == axis) {
		return
	}
	s.hovering, s.hover = ok, axis
	s.refreshGizmo()
}

// refreshGizmo pushes the ring state, placing it at the center's pivot.
func (s *Selection) refreshGizmo() {
	st := GizmoState{Visible: s.GizmoVisible(), Radius: s.radius}
	if s.center != nil {
		st.At = s.center.PivotPoint()
	}
	if st.Visible && s.hovering {
		st.Hovering, st.Hover = true, s.hover
	}
	s.scene.SetGizmo(st)
}

func (s *Selection) clearHighlight() {
	for _, b := range s.members {
		s.scene.SetHighlight(b.ID, false)
	}
}

func (s *Selection) emit(center *block.ID) {
	if s.onChange == nil {
		return
	}
	s.onChange(graph.IDs(s.members), center)
}
