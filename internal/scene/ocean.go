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
	oceanCellSize     = 20.0
	oceanParticles    = 2000
	oceanPointerReach = 150.0
	oceanNoiseFreq    = 0.1
)

// oceanParticle drifts through the flow field until its life runs out or it
// leaves the viewport, then respawns. The pool is fixed; nothing allocates
// per frame.
type oceanParticle struct {
	x, y   float64
	life   float64
	decay  float64
	size   float64
	domain int
}

// attractor is one moving "current" per domain. Pull strength tracks the
// domain's smoothed score; influence falls off linearly with distance.
type attractor struct {
	x, y     float64
	heading  float64
	strength float64
	radius   float64
}

// Ocean is the flow-field particle engine: a grid of directions recomputed
// from coherent noise every tick, advecting a fixed particle pool.
type Ocean struct {
	w, h       float64
	cols, rows int
	field      []float64 // angle per cell, row-major

	phase float64
	depth float64 // smoothed dive amount, chases the edge score

	noise      *procgen.Field
	attractors [signal.NumDomains]attractor
	particles  []oceanParticle

	pointerX, pointerY float64
	pointerOn          bool

	edge float64
	rng  *rand.Rand
}

// NewOcean creates the engine for a w×h viewport.
func NewOcean(w, h int, seed int64) *Ocean {
	o := &Ocean{
		noise:     procgen.NewField(seed),
		rng:       rand.New(rand.NewSource(seed)),
		particles: make([]oceanParticle, oceanParticles),
	}
	o.Resize(w, h)
	for i := range o.particles {
		o.respawn(&o.particles[i])
	}
	for i := range o.attractors {
		o.attractors[i] = attractor{
			x:       o.rng.Float64() * o.w,
			y:       o.rng.Float64() * o.h,
			heading: o.rng.Float64() * 2 * math.Pi,
		}
	}
	return o
}

func (o *Ocean) Name() string { return "ocean" }

// Resize recomputes the grid for the new viewport. The particle pool and
// attractors carry over untouched.
func (o *Ocean) Resize(w, h int) {
	o.w, o.h = float64(w), float64(h)
	o.cols = int(o.w/oceanCellSize) + 1
	o.rows = int(o.h/oceanCellSize) + 1
	o.field = make([]float64, o.cols*o.rows)
}

// SetPointer feeds the pointer-proximity vector into the field blend.
func (o *Ocean) SetPointer(x, y float64, active bool) {
	o.pointerX, o.pointerY, o.pointerOn = x, y, active
}

func (o *Ocean) respawn(p *oceanParticle) {
	p.x = o.rng.Float64() * o.w
	p.y = o.rng.Float64() * o.h
	p.life = 0.4 + o.rng.Float64()*0.6
	p.decay = 0.001 + o.rng.Float64()*0.004
	p.size = 1 + o.rng.Float64()*2.5
	p.domain = o.rng.Intn(signal.NumDomains)
}

func (o *Ocean) Update(snap nerve.Snapshot, dt float64) {
	o.edge = snap.Edge
	o.phase += dt * (0.08 + 0.2*snap.Edge)
	o.depth = procgen.Lerp(o.depth, snap.Edge, 0.03)

	o.moveAttractors(snap, dt)
	o.recomputeField(snap)
	o.advectParticles(snap)
}

// moveAttractors drifts each domain current along a noise-steered heading.
func (o *Ocean) moveAttractors(snap nerve.Snapshot, dt float64) {
	for i := range o.attractors {
		a := &o.attractors[i]
		score := snap.Domains[i]
		a.strength = score
		a.radius = 100 + 150*score

		wander := o.noise.AtSigned(float64(i)*7.3, o.phase*0.5, 0) * 1.5
		a.heading = procgen.NormAngle(a.heading + wander*dt)
		speed := (10 + 40*score) * dt
		a.x += math.Cos(a.heading) * speed
		a.y += math.Sin(a.heading) * speed

		// Wrap rather than bounce so currents sweep through.
		if a.x < 0 {
			a.x += o.w
		} else if a.x > o.w {
			a.x -= o.w
		}
		if a.y < 0 {
			a.y += o.h
		} else if a.y > o.h {
			a.y -= o.h
		}
	}
}

// recomputeField resamples every cell: coherent noise scaled by turbulence,
// then blended by shortest-path angle lerp toward each attractor and the
// pointer. Raw scalar lerp would take the long way across the 0/2π wrap.
func (o *Ocean) recomputeField(snap nerve.Snapshot) {
	turbulence := 2 + snap.Edge*2
	for row := 0; row < o.rows; row++ {
		for col := 0; col < o.cols; col++ {
			cx := float64(col) * oceanCellSize
			cy := float64(row) * oceanCellSize

			angle := procgen.NormAngle(
				o.noise.At(float64(col)*oceanNoiseFreq, float64(row)*oceanNoiseFreq, o.phase) *
					2 * math.Pi * turbulence)

			for i := range o.attractors {
				a := &o.attractors[i]
				dx, dy := a.x-cx, a.y-cy
				dist := math.Hypot(dx, dy)
				if dist >= a.radius || a.strength <= 0 {
					continue
				}
				influence := (1 - dist/a.radius) * a.strength
				angle = procgen.LerpAngle(angle, math.Atan2(dy, dx), influence*0.6)
			}

			if o.pointerOn {
				dx, dy := o.pointerX-cx, o.pointerY-cy
				dist := math.Hypot(dx, dy)
				if dist < oceanPointerReach {
					influence := 1 - dist/oceanPointerReach
					angle = procgen.LerpAngle(angle, math.Atan2(dy, dx), influence*0.8)
				}
			}

			o.field[row*o.cols+col] = angle
		}
	}
}

// angleAt samples the field cell containing (x, y).
func (o *Ocean) angleAt(x, y float64) float64 {
	col := int(x / oceanCellSize)
	row := int(y / oceanCellSize)
	if col < 0 {
		col = 0
	} else if col >= o.cols {
		col = o.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= o.rows {
		row = o.rows - 1
	}
	return o.field[row*o.cols+col]
}

func (o *Ocean) advectParticles(snap nerve.Snapshot) {
	speed := 0.6 + snap.Edge*2.4
	sink := o.depth * 0.5
	for i := range o.particles {
		p := &o.particles[i]
		angle := o.angleAt(p.x, p.y)
		p.x += math.Cos(angle) * speed
		p.y += math.Sin(angle)*speed + sink
		p.life -= p.decay * (1 + o.rng.Float64())

		if p.life <= 0 || p.x < -oceanCellSize || p.x > o.w+oceanCellSize ||
			p.y < -oceanCellSize || p.y > o.h+oceanCellSize {
			o.respawn(p)
		}
	}
}

// brightness is the bioluminescence curve: monotonic in the edge score,
// shaded by how deep the particle sits.
func (o *Ocean) brightness(p *oceanParticle) float64 {
	depthShade := 1 - (p.y/o.h)*0.5
	return procgen.Clamp01((0.15 + 0.85*o.edge) * p.life * depthShade)
}

func (o *Ocean) Draw() {
	// Faint field visualization underneath the particles.
	for row := 0; row < o.rows; row += 2 {
		for col := 0; col < o.cols; col += 2 {
			cx := float64(col) * oceanCellSize
			cy := float64(row) * oceanCellSize
			angle := o.field[row*o.cols+col]
			tip := vec2(cx+math.Cos(angle)*7, cy+math.Sin(angle)*7)
			rl.DrawLineV(vec2(cx, cy), tip, fade(colFaint, 0.25))
		}
	}

	for i := range o.particles {
		p := &o.particles[i]
		b := o.brightness(p)
		c := colDim
		if p.domain == int(signal.Markets) {
			c = colBright
		}
		rl.DrawCircleV(vec2(p.x, p.y), float32(p.size), fade(c, 0.1+0.9*b))
	}

	// Attractor halos scale with their pull.
	for i := range o.attractors {
		a := &o.attractors[i]
		if a.strength <= 0.02 {
			continue
		}
		rl.DrawCircleLinesV(vec2(a.x, a.y), float32(a.radius*0.25), fade(colDim, a.strength*0.4))
	}
}
