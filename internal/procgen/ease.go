package procgen

// Smooth moves current toward target by factor k per step. With fixed target
// the closed form after n steps is target - (target-current0)*(1-k)^n.
func Smooth(current, target, k float64) float64 {
	return current + (target-current)*k
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp clamps v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CubicOut is the cubic ease-out curve: fast start, slow settle.
func CubicOut(t float64) float64 {
	t = Clamp01(t)
	inv := 1 - t
	return 1 - inv*inv*inv
}
