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
	// The hand sweeps 180 degrees from the safe extreme to the danger
	// extreme as the edge score climbs 0→1.
	clockSafeAngle = math.Pi * 0.75
	clockSweep     = math.Pi

	clockTicks         = 60
	clockThreadPool    = 240
	clockHandEase      = 0.05
	clockThreadSegs    = 14
	clockEmitRateScale = 0.25
)

type threadParticle struct {
	x, y   float64
	vx, vy float64
	life   float64
	decay  float64
	domain int
}

// Clock is the angular gauge engine: a single eased hand angle, five wavy
// domain threads, and a glow that wakes up near the danger extreme.
type Clock struct {
	cx, cy float64
	radius float64

	handAngle float64
	t         float64

	particles []threadParticle

	snap nerve.Snapshot
	rng  *rand.Rand
}

func NewClock(w, h int, seed int64) *Clock {
	c := &Clock{
		handAngle: clockSafeAngle,
		particles: make([]threadParticle, clockThreadPool),
		rng:       rand.New(rand.NewSource(seed)),
	}
	c.Resize(w, h)
	return c
}

func (c *Clock) Name() string { return "clock" }

func (c *Clock) Resize(w, h int) {
	c.cx, c.cy = float64(w)/2, float64(h)/2
	c.radius = math.Min(c.cx, c.cy) * 0.8
}

// dangerAngle is the hand position at edge score 1.
func dangerAngle() float64 {
	return procgen.NormAngle(clockSafeAngle + clockSweep)
}

// handTarget maps an edge score onto the sweep arc.
func handTarget(edge float64) float64 {
	return procgen.NormAngle(clockSafeAngle + procgen.Clamp01(edge)*clockSweep)
}

// dangerProximity is 1 at the danger extreme falling to 0 at the antipode,
// squared so the glow only wakes near the end of the sweep.
func dangerProximity(handAngle float64) float64 {
	d := 1 - math.Abs(procgen.AngleDist(handAngle, dangerAngle()))/math.Pi
	return d * d
}

// tremble is a render-only jitter: incommensurate sines so the sum never
// settles into a visible repeat. It is never fed back into the eased state.
func (c *Clock) tremble(edge float64) float64 {
	return (math.Sin(c.t*13.7) + 0.6*math.Sin(c.t*7.31) + 0.3*math.Sin(c.t*23.17)) *
		0.025 * edge
}

func (c *Clock) Update(snap nerve.Snapshot, dt float64) {
	c.snap = snap
	c.t += dt
	c.handAngle = procgen.LerpAngle(c.handAngle, handTarget(snap.Edge), clockHandEase)

	c.emitThreadParticles(snap, dt)
	c.stepParticles(dt)
}

// threadAngle is the fixed angular offset of a domain's thread from the hand.
func (c *Clock) threadAngle(d int) float64 {
	return procgen.NormAngle(c.handAngle + (float64(d)-2)*0.38)
}

// threadPoint evaluates the wavy polyline of domain d at fraction f of its
// length.
func (c *Clock) threadPoint(d int, f, length float64) (float64, float64) {
	angle := c.threadAngle(d)
	wave := math.Sin(f*9+c.t*2.1+float64(d)*1.7) * 6 * f
	r := f * length
	x := c.cx + math.Cos(angle)*r - math.Sin(angle)*wave
	y := c.cy + math.Sin(angle)*r + math.Cos(angle)*wave
	return x, y
}

func (c *Clock) threadLength(score float64) float64 {
	return (0.25 + 0.65*procgen.Clamp01(score)) * c.radius
}

// emitThreadParticles stochastically spawns short-lived sparks along each
// thread at a rate proportional to that domain's score.
func (c *Clock) emitThreadParticles(snap nerve.Snapshot, dt float64) {
	for d := 0; d < signal.NumDomains; d++ {
		score := snap.Domains[d]
		if c.rng.Float64() > score*clockEmitRateScale {
			continue
		}
		slot := c.findSlot()
		if slot < 0 {
			return
		}
		f := 0.3 + c.rng.Float64()*0.7
		x, y := c.threadPoint(d, f, c.threadLength(score))
		c.particles[slot] = threadParticle{
			x: x, y: y,
			vx:     (c.rng.Float64() - 0.5) * 30,
			vy:     (c.rng.Float64() - 0.5) * 30,
			life:   1,
			decay:  1.5 + c.rng.Float64()*2,
			domain: d,
		}
	}
}

func (c *Clock) findSlot() int {
	for i := range c.particles {
		if c.particles[i].life <= 0 {
			return i
		}
	}
	return -1
}

func (c *Clock) stepParticles(dt float64) {
	for i := range c.particles {
		p := &c.particles[i]
		if p.life <= 0 {
			continue
		}
		p.x += p.vx * dt
		p.y += p.vy * dt
		p.life -= p.decay * dt
	}
}

func (c *Clock) Draw() {
	snap := c.snap
	renderAngle := procgen.NormAngle(c.handAngle + c.tremble(snap.Edge))
	danger := dangerAngle()
	prox := dangerProximity(c.handAngle)

	// Dial ring.
	rl.DrawCircleLinesV(vec2(c.cx, c.cy), float32(c.radius), fade(colFaint, 0.8))

	// Tick marks brighten near the hand and near the danger extreme.
	for i := 0; i < clockTicks; i++ {
		a := float64(i) / clockTicks * 2 * math.Pi
		nearHand := 1 - math.Abs(procgen.AngleDist(a, renderAngle))/math.Pi
		nearDanger := 1 - math.Abs(procgen.AngleDist(a, danger))/math.Pi
		glow := 0.15 + 0.5*math.Pow(nearHand, 6) + 0.6*prox*math.Pow(nearDanger, 8)

		inner := 0.92
		if i%5 == 0 {
			inner = 0.86
		}
		x1 := c.cx + math.Cos(a)*c.radius*inner
		y1 := c.cy + math.Sin(a)*c.radius*inner
		x2 := c.cx + math.Cos(a)*c.radius*0.97
		y2 := c.cy + math.Sin(a)*c.radius*0.97
		rl.DrawLineEx(vec2(x1, y1), vec2(x2, y2), 1.5, fade(colDim, glow))
	}

	// Danger glow.
	if prox > 0.1 {
		gx := c.cx + math.Cos(danger)*c.radius*0.9
		gy := c.cy + math.Sin(danger)*c.radius*0.9
		rl.DrawCircleV(vec2(gx, gy), float32(6+prox*18), fade(colGlow, prox*0.35))
	}

	// Domain threads.
	for d := 0; d < signal.NumDomains; d++ {
		length := c.threadLength(snap.Domains[d])
		px, py := c.cx, c.cy
		for s := 1; s <= clockThreadSegs; s++ {
			f := float64(s) / clockThreadSegs
			x, y := c.threadPoint(d, f, length)
			alpha := (0.2 + 0.6*snap.Domains[d]) * (1 - f*0.5)
			rl.DrawLineEx(vec2(px, py), vec2(x, y), 1.2, fade(colDim, alpha))
			px, py = x, y
		}
	}

	// Thread sparks.
	for i := range c.particles {
		p := &c.particles[i]
		if p.life <= 0 {
			continue
		}
		rl.DrawCircleV(vec2(p.x, p.y), 1.6, fade(colBright, p.life*0.8))
	}

	// The hand, drawn over everything.
	hx := c.cx + math.Cos(renderAngle)*c.radius*0.88
	hy := c.cy + math.Sin(renderAngle)*c.radius*0.88
	tailX := c.cx - math.Cos(renderAngle)*c.radius*0.12
	tailY := c.cy - math.Sin(renderAngle)*c.radius*0.12
	rl.DrawLineEx(vec2(tailX, tailY), vec2(hx, hy), 2.5, fade(colBright, 0.9))
	rl.DrawCircleV(vec2(c.cx, c.cy), 4, colBright)
}
