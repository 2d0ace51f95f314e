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
	fractureFragments = 120
	fractureCracks    = 24
	fractureEase      = 0.03
	crackFadeBand     = 0.08
	maxSeparation     = 1.8 // in sphere radii, at full local fracture
	threadMinSep      = 0.25
	threadMaxDist     = 1.2
	threadFragility   = 0.5
)

type vec3 struct{ x, y, z float64 }

func (v vec3) add(o vec3) vec3      { return vec3{v.x + o.x, v.y + o.y, v.z + o.z} }
func (v vec3) scale(s float64) vec3 { return vec3{v.x * s, v.y * s, v.z * s} }
func (v vec3) dist(o vec3) float64 {
	dx, dy, dz := v.x-o.x, v.y-o.y, v.z-o.z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// fragment sits at a fixed spot on the unit sphere until the global fracture
// amount passes its release threshold, then drifts outward along its vector.
type fragment struct {
	base      vec3
	drift     vec3
	threshold float64
	domain    int
	pos       vec3 // current, recomputed each tick
}

// crackLine is a fixed polar polyline revealed past its threshold.
type crackLine struct {
	angles    []float64 // polar angle per vertex
	radii     []float64 // radius fraction per vertex
	threshold float64
}

// Fracture is the fragment-separation engine: a sphere that shatters in
// stages as the smoothed fracture amount climbs.
type Fracture struct {
	cx, cy float64
	scale  float64

	fragments []fragment
	cracks    []crackLine

	fractureAmount float64
	rotation       float64

	snap nerve.Snapshot
	rng  *rand.Rand
}

// spiralPoint places index i of n on the unit sphere via the equal-area
// golden-angle spiral, so fragments are stable and non-clustering.
func spiralPoint(i, n int) vec3 {
	z := 1 - 2*(float64(i)+0.5)/float64(n)
	r := math.Sqrt(1 - z*z)
	phi := float64(i) * math.Pi * (3 - math.Sqrt(5))
	return vec3{r * math.Cos(phi), r * math.Sin(phi), z}
}

// localFracture staggers the shatter: fragments with higher release
// thresholds stay put longer. Always 0 at or below the threshold.
func localFracture(amount, threshold float64) float64 {
	if threshold >= 1 {
		return 0
	}
	return procgen.Clamp01((amount - threshold) / (1 - threshold))
}

func NewFracture(w, h int, seed int64) *Fracture {
	f := &Fracture{
		rng:       rand.New(rand.NewSource(seed)),
		fragments: make([]fragment, fractureFragments),
		cracks:    make([]crackLine, fractureCracks),
	}
	for i := range f.fragments {
		base := spiralPoint(i, fractureFragments)
		dir := vec3{
			base.x + (f.rng.Float64()-0.5)*0.6,
			base.y + (f.rng.Float64()-0.5)*0.6,
			base.z + (f.rng.Float64()-0.5)*0.6,
		}
		norm := math.Sqrt(dir.x*dir.x + dir.y*dir.y + dir.z*dir.z)
		f.fragments[i] = fragment{
			base:      base,
			drift:     dir.scale(1 / norm),
			threshold: 0.05 + f.rng.Float64()*0.8,
			domain:    i % signal.NumDomains,
			pos:       base,
		}
	}
	for i := range f.cracks {
		f.cracks[i] = f.makeCrack(i)
	}
	f.Resize(w, h)
	return f
}

// makeCrack builds a jagged polar polyline radiating from near the center.
func (f *Fracture) makeCrack(i int) crackLine {
	segs := 5 + f.rng.Intn(5)
	baseAngle := float64(i)/fractureCracks*2*math.Pi + f.rng.Float64()*0.3
	angles := make([]float64, segs)
	radii := make([]float64, segs)
	for s := 0; s < segs; s++ {
		angles[s] = baseAngle + (f.rng.Float64()-0.5)*0.5
		radii[s] = (float64(s) + 1) / float64(segs)
	}
	return crackLine{
		angles:    angles,
		radii:     radii,
		threshold: 0.1 + f.rng.Float64()*0.7,
	}
}

func (f *Fracture) Name() string { return "fracture" }

func (f *Fracture) Resize(w, h int) {
	f.cx, f.cy = float64(w)/2, float64(h)/2
	f.scale = math.Min(f.cx, f.cy) * 0.55
}

func (f *Fracture) Update(snap nerve.Snapshot, dt float64) {
	f.snap = snap
	f.fractureAmount = procgen.Smooth(f.fractureAmount, snap.Edge, fractureEase)
	f.rotation += dt * (0.1 + 0.25*snap.Edge)

	for i := range f.fragments {
		fr := &f.fragments[i]
		eased := procgen.CubicOut(localFracture(f.fractureAmount, fr.threshold))
		fr.pos = fr.base.add(fr.drift.scale(eased * maxSeparation))
	}
}

// project rotates a fragment position about the y axis and drops it onto the
// screen with a mild depth scale.
func (f *Fracture) project(v vec3) (float64, float64, float64) {
	c, s := math.Cos(f.rotation), math.Sin(f.rotation)
	x := v.x*c + v.z*s
	z := -v.x*s + v.z*c
	depth := 1 / (1.8 + z*0.5)
	return f.cx + x*f.scale*depth*1.8, f.cy + v.y*f.scale*depth*1.8, z
}

// crackVisibility fades a crack in over a short band past its threshold.
func crackVisibility(amount float64, c *crackLine) float64 {
	return procgen.Clamp01((amount - c.threshold) / crackFadeBand)
}

func (f *Fracture) Draw() {
	// Cracks first, under the fragments. A crack flickers: frames fail a
	// random draw weighted by its visibility.
	for i := range f.cracks {
		c := &f.cracks[i]
		vis := crackVisibility(f.fractureAmount, c)
		if vis <= 0 || f.rng.Float64() > 0.3+0.7*vis {
			continue
		}
		px := f.cx + math.Cos(c.angles[0])*c.radii[0]*f.scale*0.2
		py := f.cy + math.Sin(c.angles[0])*c.radii[0]*f.scale*0.2
		for s := 1; s < len(c.angles); s++ {
			x := f.cx + math.Cos(c.angles[s])*c.radii[s]*f.scale
			y := f.cy + math.Sin(c.angles[s])*c.radii[s]*f.scale
			rl.DrawLineEx(vec2(px, py), vec2(x, y), 1.2, fade(colDim, vis*0.6))
			px, py = x, y
		}
	}

	// Fragility threads: the one place fragility drives geometry directly.
	if f.snap.Fragility > threadFragility {
		f.drawThreads()
	}

	for i := range f.fragments {
		fr := &f.fragments[i]
		x, y, z := f.project(fr.pos)
		if z < -0.95 {
			continue // back hemisphere stays dark
		}
		sep := localFracture(f.fractureAmount, fr.threshold)
		size := 2.5 + (z+1)*1.2
		alpha := 0.35 + 0.45*(z+1)/2 + 0.2*sep
		c := colDim
		if sep > 0 {
			c = colBright
		}
		rl.DrawCircleV(vec2(x, y), float32(size), fade(c, alpha))
	}
}

// drawThreads joins pairs of already-separated fragments from different
// domains whose distance and the global fragility clear their thresholds.
func (f *Fracture) drawThreads() {
	strength := (f.snap.Fragility - threadFragility) / (1 - threadFragility)
	for i := range f.fragments {
		a := &f.fragments[i]
		if localFracture(f.fractureAmount, a.threshold) < threadMinSep {
			continue
		}
		// Sparse pairing keeps this O(n) per frame.
		j := (i*7 + 13) % len(f.fragments)
		b := &f.fragments[j]
		if a.domain == b.domain {
			continue
		}
		if localFracture(f.fractureAmount, b.threshold) < threadMinSep {
			continue
		}
		if a.pos.dist(b.pos) > threadMaxDist {
			continue
		}
		ax, ay, az := f.project(a.pos)
		bx, by, bz := f.project(b.pos)
		if az < -0.95 || bz < -0.95 {
			continue
		}
		rl.DrawLineEx(vec2(ax, ay), vec2(bx, by), 1, fade(colGlow, strength*0.35))
	}
}
