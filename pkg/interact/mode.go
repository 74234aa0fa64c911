package interact

// Mode is the pointer router's gesture state.
type Mode int

const (
	ModeIdle Mode = iota
	// ModePendingClick: a block was pressed but the pointer has not moved
	// past the drag threshold. Nothing has been selected yet.
	ModePendingClick
	ModeDraggingSingle
	ModeDraggingGroup
	ModeGizmoRotating
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModePendingClick:
		return "pending-click"
	case ModeDraggingSingle:
		return "dragging-single"
	case ModeDraggingGroup:
		return "dragging-group"
	case ModeGizmoRotating:
		return "gizmo-rotating"
	default:
		return "unknown"
	}
}
