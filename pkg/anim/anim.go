// Package anim turns discrete grid mutations into continuous motion.
// Each block owns an Animator with two independent machines: orientation
// (a quarter-turn spin toward pending cells) and position (a straight or
// arcing move toward a target). Progress is a function of session time
// only, so animation speed does not depend on the tick rate.
package anim

import (
	"time"

	"github.com/chazu/polycube/pkg/block"
	"github.com/chazu/polycube/pkg/grid"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultDuration is the length of one rotation or move.
const DefaultDuration = 200 * time.Millisecond

// Arc makes a position animation swing around Pivot by a quarter turn
// about Dir instead of travelling in a straight line. Lift is added in
// proportion to the eased progress; it carries the floor correction of a
// group rotation so the swing still ends on its target.
type Arc struct {
	Pivot mgl64.Vec3
	Dir   grid.Direction
	Lift  mgl64.Vec3
}

// Presentation is the continuous overlay a renderer applies on top of the
// committed cells: a vertex v of the block's local cell mesh is drawn at
// Pivot + Rotation·(Position + v − Pivot).
type Presentation struct {
	Position mgl64.Vec3 `json:"position"`
	Rotation mgl64.Quat `json:"rotation"`
	Pivot    mgl64.Vec3 `json:"pivot"`
}

// Completed reports which machines finished during an Update.
type Completed struct {
	Orientation bool
	Position    bool
}

// Any reports whether either machine finished.
func (c Completed) Any() bool {
	return c.Orientation || c.Position
}

type orientation struct {
	dir     grid.Direction
	start   time.Duration
	target  mgl64.Quat
	current mgl64.Quat
	pending []grid.Cell
}

type movement struct {
	start time.Duration
	from  mgl64.Vec3
	to    mgl64.Vec3
	arc   *Arc
}

// Animator drives one block. The zero value is not usable; call New.
type Animator struct {
	Duration time.Duration

	b      *block.Block
	orient *orientation
	move   *movement
}

// New creates an idle animator for b.
func New(b *block.Block) *Animator {
	return &Animator{Duration: DefaultDuration, b: b}
}

// Orienting reports whether a rotation is in progress.
func (a *Animator) Orienting() bool {
	return a.orient != nil
}

// Moving reports whether a position animation is in progress.
func (a *Animator) Moving() bool {
	return a.move != nil
}

// Animating reports whether either machine is active.
func (a *Animator) Animating() bool {
	return a.orient != nil || a.move != nil
}

// StartOrientation begins a quarter turn about dir. The rotated cell list
// is computed up front; the block keeps its committed cells until the spin
// completes. It returns false if a rotation is already running.
func (a *Animator) StartOrientation(dir grid.Direction, now time.Duration) bool {
	if a.orient != nil {
		return false
	}
	a.orient = &orientation{
		dir:     dir,
		start:   now,
		target:  grid.Quarter(dir),
		current: mgl64.QuatIdent(),
		pending: grid.RotateCells(a.b.Cells, dir),
	}
	return true
}

// StartPosition begins moving the block to target, along arc when non-nil.
// A move already in progress is replaced, starting from where the block is.
func (a *Animator) StartPosition(target mgl64.Vec3, arc *Arc, now time.Duration) {
	a.move = &movement{
		start: now,
		from:  a.b.Position,
		to:    target,
		arc:   arc,
	}
}

func (a *Animator) progress(start, now time.Duration) float64 {
	if a.Duration <= 0 {
		return 1
	}
	return float64(now-start) / float64(a.Duration)
}

// Update advances both machines to session time now. Completed rotations
// commit their pending cells to the block; completed moves snap exactly
// to their target.
func (a *Animator) Update(now time.Duration) Completed {
	var done Completed

	if o := a.orient; o != nil {
		t := a.progress(o.start, now)
		if t >= 1 {
			a.b.Cells = o.pending
			a.orient = nil
			done.Orientation = true
		} else {
			o.current = mgl64.QuatSlerp(mgl64.QuatIdent(), o.target, EaseInOutQuad(t))
		}
	}

	if m := a.move; m != nil {
		t := a.progress(m.start, now)
		switch {
		case t >= 1:
			a.b.Position = m.to
			a.move = nil
			done.Position = true
		case m.arc != nil:
			e := EaseInOutQuad(t)
			q := mgl64.QuatRotate(e*grid.QuarterTurn, m.arc.Dir.Vec())
			a.b.Position = m.arc.Pivot.Add(q.Rotate(m.from.Sub(m.arc.Pivot))).Add(m.arc.Lift.Mul(e))
		default:
			e := EaseInOutQuad(t)
			a.b.Position = m.from.Add(m.to.Sub(m.from).Mul(e))
		}
	}

	return done
}

// Presentation returns the overlay to draw this tick.
func (a *Animator) Presentation() Presentation {
	rot := mgl64.QuatIdent()
	if a.Orienting() {
		rot = a.orient.current
	}
	return Presentation{
		Position: a.b.Position,
		Rotation: rot,
		Pivot:    a.b.PivotPoint(),
	}
}
