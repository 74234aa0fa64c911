package interact

import (
	"fmt"
	"time"

	"github.com/chazu/polycube/pkg/anim"
	"github.com/chazu/polycube/pkg/block"
	"github.com/chazu/polycube/pkg/collision"
	"github.com/chazu/polycube/pkg/graph"
	"github.com/chazu/polycube/pkg/grid"
	"github.com/chazu/polycube/pkg/kernel"
	"github.com/chazu/polycube/pkg/tessellate"
	"go.uber.org/zap"
)

// Gizmo ring defaults, in world units.
const (
	DefaultGizmoRadius    = 1.6
	DefaultGizmoTolerance = 0.25
)

// Options tunes a Session. Zero fields take their defaults.
type Options struct {
	DragThreshold     float64
	GizmoRadius       float64
	GizmoTolerance    float64
	AnimationDuration time.Duration

	// Kernel meshes block shapes for the host. When nil the host is
	// expected to build geometry from the cells itself and SetMesh is
	// never called.
	Kernel kernel.Kernel
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.DragThreshold <= 0 {
		o.DragThreshold = DefaultDragThreshold
	}
	if o.GizmoRadius <= 0 {
		o.GizmoRadius = DefaultGizmoRadius
	}
	if o.GizmoTolerance <= 0 {
		o.GizmoTolerance = DefaultGizmoTolerance
	}
	if o.AnimationDuration <= 0 {
		o.AnimationDuration = anim.DefaultDuration
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Session is one interactive editing session over a fixed set of blocks.
// It is driven by a single thread: the host calls Tick once per frame and
// delivers input between ticks. A Session is not safe for concurrent use.
type Session struct {
	host     Host
	kernel   kernel.Kernel
	log      *zap.Logger
	registry *block.Registry
	anims    animators
	sel      *Selection
	drag     *Drag
	gizmo    *Gizmo
	rotator  *Rotator
	router   *Router
	collide  *collision.Detector

	now       time.Duration
	presented map[block.ID]anim.Presentation
	disposed  bool
}

// NewSession registers blocks in order and pushes their initial meshes
// and transforms to the host.
func NewSession(blocks []*block.Block, host Host, opts Options) (*Session, error) {
	opts = opts.withDefaults()

	reg := block.NewRegistry()
	for _, b := range blocks {
		if len(b.Cells) == 0 {
			return nil, fmt.Errorf("interact: block %d has no cells", b.ID)
		}
		if err := reg.Add(b); err != nil {
			return nil, fmt.Errorf("interact: %w", err)
		}
	}

	s := &Session{
		host:      host,
		kernel:    opts.Kernel,
		log:       opts.Logger,
		registry:  reg,
		anims:     newAnimators(blocks, opts.AnimationDuration),
		collide:   &collision.Detector{},
		presented: make(map[block.ID]anim.Presentation, len(blocks)),
	}
	s.sel = newSelection(host, opts.GizmoRadius)
	s.drag = newDrag(host, s.sel, s.anims)
	s.gizmo = &Gizmo{Radius: opts.GizmoRadius, Tolerance: opts.GizmoTolerance}
	s.rotator = newRotator(s.sel, s.anims, func() time.Duration { return s.now }, s.log)
	s.router = &Router{
		registry:  reg,
		sel:       s.sel,
		drag:      s.drag,
		gizmo:     s.gizmo,
		rotator:   s.rotator,
		nav:       host,
		threshold: opts.DragThreshold,
		log:       s.log,
	}

	if s.kernel != nil {
		meshes, err := tessellate.All(reg.All(), s.kernel)
		if err != nil {
			return nil, fmt.Errorf("interact: %w", err)
		}
		for _, m := range meshes {
			host.SetMesh(block.ID(m.BlockID), m)
		}
	}
	s.pushTransforms()
	s.sel.refreshGizmo()

	s.log.Info("session created", zap.Int("blocks", reg.Len()))
	return s, nil
}

// OnSelectionChanged registers the selection callback.
func (s *Session) OnSelectionChanged(fn SelectionFunc) {
	if s.disposed {
		return
	}
	s.sel.onChange = fn
}

// OnCollisionChanged registers the collision callback. It receives the
// sorted ids of every block sharing a cell with another block.
func (s *Session) OnCollisionChanged(fn func(ids []block.ID)) {
	if s.disposed {
		return
	}
	s.collide.OnChange = fn
}

// Blocks returns the session's blocks in creation order.
func (s *Session) Blocks() []*block.Block {
	return s.registry.All()
}

// Block returns the block with id, or nil.
func (s *Session) Block(id block.ID) *block.Block {
	return s.registry.Get(id)
}

// Selection exposes the active selection.
func (s *Session) Selection() *Selection {
	return s.sel
}

// Mode returns the pointer router's gesture state.
func (s *Session) Mode() Mode {
	return s.router.Mode()
}

// Animating reports whether any block is mid-animation.
func (s *Session) Animating() bool {
	return s.anims.any()
}

// Collisions returns the last reported collision set.
func (s *Session) Collisions() []block.ID {
	return s.collide.Current()
}

// Tick advances session time by dt, steps every animator in block order,
// pushes changed transforms, then re-scans for collisions unless a block
// is still animating.
func (s *Session) Tick(dt time.Duration) {
	if s.disposed {
		return
	}
	if dt > 0 {
		s.now += dt
	}

	centerMoved := false
	for _, b := range s.registry.All() {
		a := s.anims[b.ID]
		if !a.Animating() {
			continue
		}
		moving := a.Moving()
		done := a.Update(s.now)
		if done.Any() {
			s.log.Debug("animation finished",
				zap.Int("block", int(b.ID)),
				zap.Bool("orientation", done.Orientation),
				zap.Bool("position", done.Position))
		}
		if done.Orientation {
			if err := s.rebuildMesh(b); err != nil {
				s.log.Error("mesh rebuild failed", zap.Int("block", int(b.ID)), zap.Error(err))
			}
		}
		// Orientation alone leaves the pivot in place.
		if moving && b == s.sel.Center() {
			centerMoved = true
		}
	}
	if centerMoved {
		s.sel.refreshGizmo()
	}
	s.pushTransforms()

	if s.collide.Update(s.registry.All(), s.anims.any()) {
		s.log.Debug("collisions changed", zap.Ints("ids", idsToInts(s.collide.Current())))
	}
}

// PointerDown forwards a press to the router.
func (s *Session) PointerDown(ev PointerEvent) {
	if s.disposed {
		return
	}
	s.router.PointerDown(ev)
}

// PointerMove forwards pointer motion to the router.
func (s *Session) PointerMove(ev PointerEvent) {
	if s.disposed {
		return
	}
	s.router.PointerMove(ev)
}

// PointerUp forwards a release to the router.
func (s *Session) PointerUp(ev PointerEvent) {
	if s.disposed {
		return
	}
	s.router.PointerUp(ev)
}

// DoubleClick isolates the block under the pointer.
func (s *Session) DoubleClick(ev PointerEvent) {
	if s.disposed {
		return
	}
	s.router.DoubleClick(ev)
}

// KeyDown maps arrow keys to FlipSelection and Escape to a deselect.
// Keys arriving mid-gesture are ignored.
func (s *Session) KeyDown(key string) {
	if s.disposed || s.router.Mode() != ModeIdle {
		return
	}
	switch key {
	case "ArrowUp":
		s.FlipSelection(FlipUp)
	case "ArrowDown":
		s.FlipSelection(FlipDown)
	case "ArrowLeft":
		s.FlipSelection(FlipLeft)
	case "ArrowRight":
		s.FlipSelection(FlipRight)
	case "Escape":
		if s.sel.Center() != nil {
			s.sel.DeselectAll()
		}
	}
}

// SelectBlockByID selects the connected component of id with id as the
// center. Unknown ids are ignored.
func (s *Session) SelectBlockByID(id block.ID) {
	if s.disposed {
		return
	}
	b := s.registry.Get(id)
	if b == nil {
		return
	}
	s.sel.SelectGroupWithCenter(graph.FindConnected(s.registry.All(), b), b)
}

// FlipSelection rotates the selection a quarter turn relative to the
// camera: up and down tip it about the camera's right axis, left and right
// spin it about the camera's up axis. The axis snaps to the nearest
// cardinal direction. It reports whether a rotation started; a block press
// or drag in progress refuses it.
func (s *Session) FlipSelection(dir FlipDirection) bool {
	if s.disposed || !s.router.acceptsRotation() {
		return false
	}
	axis, ok := s.flipAxis(dir)
	if !ok {
		return false
	}
	return s.rotator.RotateGroup(axis)
}

// RotateSelection rotates the selection a quarter turn about dir.
func (s *Session) RotateSelection(dir grid.Direction) bool {
	if s.disposed || !s.router.acceptsRotation() {
		return false
	}
	return s.rotator.RotateGroup(dir)
}

func (s *Session) flipAxis(dir FlipDirection) (grid.Direction, bool) {
	view := s.host.ViewDirection()
	up := s.host.Up()
	right := view.Cross(up)

	switch dir {
	case FlipUp:
		return grid.NearestDirection(right).Opposite(), true
	case FlipDown:
		return grid.NearestDirection(right), true
	case FlipLeft:
		return grid.NearestDirection(up).Opposite(), true
	case FlipRight:
		return grid.NearestDirection(up), true
	default:
		return 0, false
	}
}

// Dispose abandons any gesture, hides the gizmo, clears highlights,
// restores navigation and drops the callbacks. Later calls do nothing.
func (s *Session) Dispose() {
	if s.disposed {
		return
	}
	s.router.cancel()
	s.sel.onChange = nil
	s.collide.OnChange = nil
	s.sel.clearHighlight()
	s.sel.members = nil
	s.sel.center = nil
	s.sel.refreshGizmo()
	s.host.SetNavigationEnabled(true)
	s.disposed = true
	s.log.Info("session disposed")
}

func (s *Session) rebuildMesh(b *block.Block) error {
	if s.kernel == nil {
		return nil
	}
	m, err := tessellate.Block(b, s.kernel)
	if err != nil {
		return fmt.Errorf("interact: mesh block %d: %w", b.ID, err)
	}
	s.host.SetMesh(b.ID, m)
	return nil
}

// pushTransforms sends the presentation of every block whose overlay
// changed since the last push. Drags move blocks between ticks and are
// picked up here too.
func (s *Session) pushTransforms() {
	for _, b := range s.registry.All() {
		p := s.anims[b.ID].Presentation()
		if last, ok := s.presented[b.ID]; ok && last == p {
			continue
		}
		s.presented[b.ID] = p
		s.host.SetTransform(b.ID, p)
	}
}

func idsToInts(ids []block.ID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
