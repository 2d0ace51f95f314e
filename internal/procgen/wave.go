package procgen

import "math"

// Beat cycle period bounds. The cycle shortens linearly as the edge score
// rises: a calm signal beats every 3s, a critical one every 400ms.
const (
	BeatPeriodCalmMs     = 3000.0
	BeatPeriodCriticalMs = 400.0
)

// ecgBump is one Gaussian component of the synthetic heartbeat.
type ecgBump struct {
	center float64 // phase offset in [0,1)
	width  float64
	amp    float64
}

// P-wave, QRS complex (Q dip, R spike, S dip), T-wave.
var ecgShape = []ecgBump{
	{center: 0.10, width: 0.030, amp: 0.12},
	{center: 0.22, width: 0.012, amp: -0.10},
	{center: 0.25, width: 0.010, amp: 1.00},
	{center: 0.28, width: 0.012, amp: -0.18},
	{center: 0.45, width: 0.045, amp: 0.25},
}

// BeatPeriod returns the beat cycle length in milliseconds for an edge score
// in [0, 1].
func BeatPeriod(edge float64) float64 {
	return Lerp(BeatPeriodCalmMs, BeatPeriodCriticalMs, Clamp01(edge))
}

// Heartbeat evaluates the synthetic waveform at normalized phase t in [0, 1),
// scaled by intensity. The output is periodic in t with period 1 and fully
// deterministic; callers add their own noise on top.
func Heartbeat(t, intensity float64) float64 {
	t = t - math.Floor(t)
	v := 0.0
	for _, b := range ecgShape {
		// Evaluate the bump at the nearest periodic image of t.
		d := t - b.center
		if d > 0.5 {
			d -= 1
		} else if d < -0.5 {
			d += 1
		}
		v += b.amp * math.Exp(-(d*d)/(2*b.width*b.width))
	}
	return v * intensity
}
