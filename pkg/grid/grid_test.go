package grid

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotateCellQuarterTurns(t *testing.T) {
	tests := []struct {
		name string
		in   Cell
		dir  Direction
		want Cell
	}{
		{"x onto -z about +y", Cell{1, 0, 0}, YPos, Cell{0, 0, -1}},
		{"z onto x about +y", Cell{0, 0, 1}, YPos, Cell{1, 0, 0}},
		{"y onto z about +x", Cell{0, 1, 0}, XPos, Cell{0, 0, 1}},
		{"x onto y about +z", Cell{1, 0, 0}, ZPos, Cell{0, 1, 0}},
		{"x onto z about -y", Cell{1, 0, 0}, YNeg, Cell{0, 0, 1}},
		{"origin fixed", Cell{}, ZNeg, Cell{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RotateCell(tt.in, tt.dir))
		})
	}
}

func TestRotateCellsPeriodicity(t *testing.T) {
	orig := []Cell{{0, 0, 0}, {-1, 0, 0}, {0, 0, 1}, {2, -3, 5}, {1, 1, 1}}
	for _, d := range Directions {
		cells := orig
		for i := 0; i < 4; i++ {
			cells = RotateCells(cells, d)
		}
		assert.Equal(t, orig, cells, "four quarter turns about %s", d)
	}
}

func TestRotateCellsOppositeUndoes(t *testing.T) {
	orig := []Cell{{0, 0, 0}, {1, 2, 0}, {0, -1, 3}}
	for _, d := range Directions {
		got := RotateCells(RotateCells(orig, d), d.Opposite())
		assert.Equal(t, orig, got, "about %s", d)
	}
}

func TestRotateCellsDoesNotAlias(t *testing.T) {
	orig := []Cell{{1, 0, 0}}
	out := RotateCells(orig, YPos)
	require.Len(t, out, 1)
	assert.Equal(t, Cell{1, 0, 0}, orig[0])
}

func TestNearestDirection(t *testing.T) {
	assert.Equal(t, XPos, NearestDirection(mgl64.Vec3{0.9, 0.1, -0.2}))
	assert.Equal(t, ZNeg, NearestDirection(mgl64.Vec3{0.1, 0.2, -0.7}))
	assert.Equal(t, YNeg, NearestDirection(mgl64.Vec3{0, -1, 0}))
}

func TestNearestDirectionTieBreak(t *testing.T) {
	// Exact diagonals resolve by enumeration order X+, X-, Y+, Y-, Z+, Z-.
	assert.Equal(t, XPos, NearestDirection(mgl64.Vec3{1, 1, 0}))
	assert.Equal(t, XNeg, NearestDirection(mgl64.Vec3{-1, 0, 1}))
	assert.Equal(t, YPos, NearestDirection(mgl64.Vec3{0, 1, -1}))
	assert.Equal(t, XPos, NearestDirection(mgl64.Vec3{}))
}

func TestDirectionHelpers(t *testing.T) {
	for _, a := range Axes {
		pos := DirectionOf(a, true)
		neg := DirectionOf(a, false)
		assert.Equal(t, a, pos.Axis())
		assert.Equal(t, a, neg.Axis())
		assert.Equal(t, 1.0, pos.Sign())
		assert.Equal(t, -1.0, neg.Sign())
		assert.Equal(t, neg, pos.Opposite())
		assert.Equal(t, a.Vec(), pos.Vec())
	}
	assert.Equal(t, "-z", ZNeg.String())
}

func TestRoundVecAndMinY(t *testing.T) {
	assert.Equal(t, Cell{1, -2, 0}, RoundVec(mgl64.Vec3{0.9999999, -2.0000001, 1e-12}))
	assert.Equal(t, -3, MinY([]Cell{{0, 1, 0}, {0, -3, 0}, {5, 0, 0}}))
	assert.Equal(t, 0, MinY(nil))
	assert.Equal(t, 3, Cell{0, 0, 0}.Manhattan(Cell{1, -1, 1}))
}
