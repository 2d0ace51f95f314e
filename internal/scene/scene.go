// Package scene holds the four interchangeable rendering engines. Each owns
// its geometry and particle pools, consumes the shared nerve snapshot once
// per frame in Update, and confines every drawing call to Draw.
package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ravlen/nervescope/internal/nerve"
)

// Scene is one engine on the carousel. Update must stay free of drawing
// calls; Resize recomputes layout without resetting accumulated state.
type Scene interface {
	Name() string
	Update(snap nerve.Snapshot, dt float64)
	Draw()
	Resize(w, h int)
}

// PointerAware scenes react to the pointer position in viewport units.
type PointerAware interface {
	SetPointer(x, y float64, active bool)
}

// Monochrome palette shared by all scenes.
var (
	colBg     = rl.NewColor(8, 10, 14, 255)
	colFaint  = rl.NewColor(60, 70, 80, 255)
	colDim    = rl.NewColor(110, 125, 140, 255)
	colBright = rl.NewColor(215, 230, 240, 255)
	colGlow   = rl.NewColor(255, 250, 235, 255)
)

// Background returns the shared clear color.
func Background() rl.Color { return colBg }

func fade(c rl.Color, alpha float64) rl.Color {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return rl.Fade(c, float32(alpha))
}

func vec2(x, y float64) rl.Vector2 {
	return rl.NewVector2(float32(x), float32(y))
}
