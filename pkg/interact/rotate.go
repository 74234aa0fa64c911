package interact

import (
	"time"

	"github.com/chazu/polycube/pkg/anim"
	"github.com/chazu/polycube/pkg/block"
	"github.com/chazu/polycube/pkg/grid"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Rotator turns the selection group a quarter turn about its center.
type Rotator struct {
	sel   *Selection
	anims animators
	clock func() time.Duration
	log   *zap.Logger
}

func newRotator(sel *Selection, anims animators, clock func() time.Duration, log *zap.Logger) *Rotator {
	return &Rotator{sel: sel, anims: anims, clock: clock, log: log}
}

// plan is the outcome of rotating one member.
type plan struct {
	b      *block.Block
	target mgl64.Vec3
	cells  []grid.Cell
}

// RotateGroup rotates every member by 90° about dir around the center
// block's position. If the rotated group would dip below the floor, the
// whole group is raised by the same amount. It returns false when nothing
// is selected or a member is still animating.
func (r *Rotator) RotateGroup(dir grid.Direction) bool {
	center := r.sel.Center()
	members := r.sel.Members()
	if center == nil || len(members) == 0 {
		return false
	}
	if r.anims.busy(members...) {
		r.log.Debug("rotation refused while animating", zap.Stringer("dir", dir))
		return false
	}

	pivot := center.Position
	q := grid.Quarter(dir)
	plans := make([]plan, len(members))
	minY := 0
	for i, m := range members {
		target := m.Position
		if m != center {
			target = pivot.Add(grid.SnapVec(q.Rotate(m.Position.Sub(pivot))))
		}
		cells := grid.RotateCells(m.Cells, dir)
		if y := grid.RoundVec(target).Y + grid.MinY(cells); i == 0 || y < minY {
			minY = y
		}
		plans[i] = plan{b: m, target: target, cells: cells}
	}

	var lift mgl64.Vec3
	if minY < 0 {
		lift = mgl64.Vec3{0, float64(-minY), 0}
	}

	now := r.clock()
	for _, p := range plans {
		a := r.anims[p.b.ID]
		a.StartOrientation(dir, now)
		target := p.target.Add(lift)
		if target == p.b.Position {
			continue
		}
		a.StartPosition(target, &anim.Arc{Pivot: pivot, Dir: dir, Lift: lift}, now)
	}
	r.log.Debug("group rotated",
		zap.Stringer("dir", dir),
		zap.Int("center", int(center.ID)),
		zap.Int("members", len(members)),
		zap.Float64("lift", lift[1]))
	return true
}
