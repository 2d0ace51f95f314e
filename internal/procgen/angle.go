package procgen

import "math"

const tau = 2 * math.Pi

// NormAngle wraps a into [0, 2π).
func NormAngle(a float64) float64 {
	a = math.Mod(a, tau)
	if a < 0 {
		a += tau
	}
	return a
}

// AngleDist returns the signed shortest angular distance from a to b,
// in (-π, π].
func AngleDist(a, b float64) float64 {
	d := math.Mod(b-a, tau)
	if d > math.Pi {
		d -= tau
	}
	if d <= -math.Pi {
		d += tau
	}
	return d
}

// LerpAngle interpolates from a toward b by t along the shortest arc.
func LerpAngle(a, b, t float64) float64 {
	return NormAngle(a + AngleDist(a, b)*t)
}
