// Package grid defines the integer lattice that blocks live on: cells,
// the six cardinal directions and exact quarter-turn rotation of cell
// offsets.
package grid

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Cell is an integer grid coordinate. As a block offset it names the unit
// cube [X,X+1)×[Y,Y+1)×[Z,Z+1) relative to the block origin.
type Cell struct {
	X, Y, Z int
}

// Add returns c + o.
func (c Cell) Add(o Cell) Cell {
	return Cell{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

// Vec converts the cell to a float vector.
func (c Cell) Vec() mgl64.Vec3 {
	return mgl64.Vec3{float64(c.X), float64(c.Y), float64(c.Z)}
}

// Manhattan returns |dx|+|dy|+|dz| between two cells.
func (c Cell) Manhattan(o Cell) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y) + abs(c.Z-o.Z)
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// RoundVec rounds every component of v to the nearest integer.
func RoundVec(v mgl64.Vec3) Cell {
	return Cell{int(math.Round(v[0])), int(math.Round(v[1])), int(math.Round(v[2]))}
}

// SnapVec rounds every component of v but keeps it as a float vector.
func SnapVec(v mgl64.Vec3) mgl64.Vec3 {
	return RoundVec(v).Vec()
}

// MinY returns the smallest Y among cells. It returns 0 for an empty list.
func MinY(cells []Cell) int {
	if len(cells) == 0 {
		return 0
	}
	m := cells[0].Y
	for _, c := range cells[1:] {
		if c.Y < m {
			m = c.Y
		}
	}
	return m
}

// ---------------------------------------------------------------------------
// Axes and cardinal directions
// ---------------------------------------------------------------------------

// Axis is one of the three world axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Axes lists the axes in gizmo ring order.
var Axes = [3]Axis{AxisX, AxisY, AxisZ}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "unknown"
	}
}

// Vec returns the positive unit vector of the axis.
func (a Axis) Vec() mgl64.Vec3 {
	var v mgl64.Vec3
	v[a] = 1
	return v
}

// Direction is one of the six cardinal unit directions. The declaration
// order is the tie-break order used by NearestDirection.
type Direction int

const (
	XPos Direction = iota
	XNeg
	YPos
	YNeg
	ZPos
	ZNeg
)

// Directions lists all cardinal directions in enumeration order.
var Directions = [6]Direction{XPos, XNeg, YPos, YNeg, ZPos, ZNeg}

// DirectionOf returns the cardinal direction along axis with the given sign.
func DirectionOf(a Axis, positive bool) Direction {
	d := Direction(int(a) * 2)
	if !positive {
		d++
	}
	return d
}

// Axis returns the axis the direction lies on.
func (d Direction) Axis() Axis {
	return Axis(int(d) / 2)
}

// Sign returns +1 or -1.
func (d Direction) Sign() float64 {
	if int(d)%2 == 0 {
		return 1
	}
	return -1
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	return DirectionOf(d.Axis(), d.Sign() < 0)
}

// Vec returns the unit vector of the direction.
func (d Direction) Vec() mgl64.Vec3 {
	return d.Axis().Vec().Mul(d.Sign())
}

func (d Direction) String() string {
	if d.Sign() > 0 {
		return "+" + d.Axis().String()
	}
	return "-" + d.Axis().String()
}

// NearestDirection returns the cardinal direction with the largest dot
// product against v. Ties keep the earliest direction in enumeration order.
func NearestDirection(v mgl64.Vec3) Direction {
	best := XPos
	bestDot := math.Inf(-1)
	for _, d := range Directions {
		if dot := v.Dot(d.Vec()); dot > bestDot {
			best, bestDot = d, dot
		}
	}
	return best
}

// ---------------------------------------------------------------------------
// Quarter turns
// ---------------------------------------------------------------------------

// QuarterTurn is the rotation angle of one discrete rotation step.
const QuarterTurn = math.Pi / 2

// Quarter returns the quaternion for a +90° right-handed rotation about d.
func Quarter(d Direction) mgl64.Quat {
	return mgl64.QuatRotate(QuarterTurn, d.Vec())
}

// RotateCell rotates c by 90° about d and rounds away floating-point drift.
func RotateCell(c Cell, d Direction) Cell {
	return RoundVec(Quarter(d).Rotate(c.Vec()))
}

// RotateCells returns a new slice with every cell rotated by 90° about d.
func RotateCells(cells []Cell, d Direction) []Cell {
	out := make([]Cell, len(cells))
	for i, c := range cells {
		out[i] = RotateCell(c, d)
	}
	return out
}
