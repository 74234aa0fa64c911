package anim

// EaseInOutQuad maps linear progress t in [0,1] onto a curve that starts
// and ends slowly. Input outside [0,1] is clamped.
func EaseInOutQuad(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 2 * t * t
	default:
		u := -2*t + 2
		return 1 - u*u/2
	}
}
