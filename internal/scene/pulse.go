package scene

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ravlen/nervescope/internal/nerve"
	"github.com/ravlen/nervescope/internal/procgen"
	"github.com/ravlen/nervescope/internal/signal"
)

const (
	pulseHistory     = 800
	pulseBeatGain    = 0.22
	pulseNoiseGain   = 0.035
	pulseThreadGap   = 38.0 // vertical domain spread at zero fragility
	pulseVisibleTail = 600
)

// Pulse is the waveform/history engine: a synthetic heartbeat riding on the
// smoothed edge score, with per-domain history threads that bundle together
// as fragility rises.
type Pulse struct {
	w, h float64

	main    *procgen.Ring
	domains [signal.NumDomains]*procgen.Ring

	// beatPhase is the normalized position in the current beat cycle; the
	// cycle shortens as the edge score rises.
	beatPhase float64

	snap nerve.Snapshot
	rng  *rand.Rand

	scratch []float64 // reused tail buffer, no per-frame allocation
}

func NewPulse(w, h int, seed int64) *Pulse {
	p := &Pulse{
		main:    procgen.NewRing(pulseHistory),
		rng:     rand.New(rand.NewSource(seed)),
		scratch: make([]float64, 0, pulseVisibleTail),
	}
	for i := range p.domains {
		p.domains[i] = procgen.NewRing(pulseHistory)
	}
	p.Resize(w, h)
	return p
}

func (p *Pulse) Name() string { return "pulse" }

// Resize only remaps the drawing; the ring buffers keep their history.
func (p *Pulse) Resize(w, h int) {
	p.w, p.h = float64(w), float64(h)
}

func (p *Pulse) Update(snap nerve.Snapshot, dt float64) {
	p.snap = snap

	p.beatPhase += dt * 1000 / procgen.BeatPeriod(snap.Edge)
	p.beatPhase -= math.Floor(p.beatPhase)

	// The stored history already contains the beat, not just the raw
	// smoothed signal.
	beat := procgen.Heartbeat(p.beatPhase, 0.3+0.7*snap.Edge) * pulseBeatGain
	jitter := (p.rng.Float64() - 0.5) * pulseNoiseGain * snap.Edge
	p.main.Push(snap.Edge + beat + jitter)

	for d := 0; d < signal.NumDomains; d++ {
		p.domains[d].Push(snap.Domains[d])
	}
}

// traceY maps a sample value onto screen height around the given baseline.
func (p *Pulse) traceY(baseline, v, gain float64) float64 {
	return baseline - v*gain
}

func (p *Pulse) drawRing(r *procgen.Ring, baseline, gain float64, c rl.Color, alphaScale float64) {
	n := pulseVisibleTail
	if n > r.Len() {
		n = r.Len()
	}
	if n < 2 {
		return
	}
	p.scratch = r.Tail(p.scratch, n)
	step := p.w / float64(pulseVisibleTail-1)
	px := p.w - float64(n-1)*step
	py := p.traceY(baseline, p.scratch[0], gain)
	for i := 1; i < n; i++ {
		x := p.w - float64(n-1-i)*step
		y := p.traceY(baseline, p.scratch[i], gain)
		// Newer samples draw brighter, so the trace decays leftward.
		age := float64(i) / float64(n)
		rl.DrawLineEx(vec2(px, py), vec2(x, y), 1.4, fade(c, alphaScale*(0.15+0.85*age)))
		px, py = x, y
	}
}

func (p *Pulse) Draw() {
	mid := p.h * 0.45

	// Baseline grid.
	rl.DrawLineV(vec2(0, mid), vec2(p.w, mid), fade(colFaint, 0.3))

	// Domain threads below the main trace, bundled by fragility: higher
	// coupling pulls their baselines together.
	spread := pulseThreadGap * (1 - p.snap.Fragility*0.85)
	bundleBase := p.h * 0.75
	for d := 0; d < signal.NumDomains; d++ {
		baseline := bundleBase + (float64(d)-2)*spread
		p.drawRing(p.domains[d], baseline, p.h*0.12, colDim, 0.35+0.4*p.snap.Domains[d])
	}

	// Main trace on top.
	p.drawRing(p.main, mid, p.h*0.3, colBright, 1)

	// Beat cursor.
	bx := p.w - 1
	by := p.traceY(mid, p.snap.Edge+procgen.Heartbeat(p.beatPhase, 0.3+0.7*p.snap.Edge)*pulseBeatGain, p.h*0.3)
	rl.DrawCircleV(vec2(bx, by), 3, fade(colGlow, 0.9))
}
