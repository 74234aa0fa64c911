// Package geom holds the small amount of ray geometry the interaction
// layer needs: picking rays against planes and axis-aligned boxes and
// measuring angles inside a plane.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// parallelEpsilon is the smallest |dir·normal| treated as a real crossing.
const parallelEpsilon = 1e-9

// Ray is a half-line in world space. Dir does not need to be normalized.
type Ray struct {
	Origin mgl64.Vec3 `json:"origin"`
	Dir    mgl64.Vec3 `json:"dir"`
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// IntersectPlane intersects the ray with the plane through point with the
// given normal. ok is false when the ray runs parallel to the plane or the
// plane lies behind the origin.
func IntersectPlane(r Ray, point, normal mgl64.Vec3) (hit mgl64.Vec3, t float64, ok bool) {
	denom := r.Dir.Dot(normal)
	if math.Abs(denom) < parallelEpsilon {
		return mgl64.Vec3{}, 0, false
	}
	t = point.Sub(r.Origin).Dot(normal) / denom
	if t < 0 {
		return mgl64.Vec3{}, 0, false
	}
	return r.At(t), t, true
}

// IntersectBox returns the nearest non-negative parameter at which the ray
// enters the box [min,max]. A ray starting inside the box reports its exit.
func IntersectBox(r Ray, min, max mgl64.Vec3) (float64, bool) {
	tNear := math.Inf(-1)
	tFar := math.Inf(1)
	for i := 0; i < 3; i++ {
		if math.Abs(r.Dir[i]) < parallelEpsilon {
			if r.Origin[i] < min[i] || r.Origin[i] > max[i] {
				return 0, false
			}
			continue
		}
		t1 := (min[i] - r.Origin[i]) / r.Dir[i]
		t2 := (max[i] - r.Origin[i]) / r.Dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tNear = math.Max(tNear, t1)
		tFar = math.Min(tFar, t2)
		if tNear > tFar {
			return 0, false
		}
	}
	if tFar < 0 {
		return 0, false
	}
	if tNear < 0 {
		return tFar, true
	}
	return tNear, true
}

// AngleInPlane returns the angle of p in the in-plane frame (u, v).
func AngleInPlane(p, u, v mgl64.Vec3) float64 {
	return math.Atan2(p.Dot(v), p.Dot(u))
}

// WrapAngle maps a onto the half-open interval (-π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}
