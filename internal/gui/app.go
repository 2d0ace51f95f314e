// Package gui runs the native render loop: one window, one nerve session,
// four scenes on a carousel.
package gui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ravlen/nervescope/internal/config"
	"github.com/ravlen/nervescope/internal/nerve"
	"github.com/ravlen/nervescope/internal/scene"
)

// Theme colors (monochrome, matching the scene palette).
var (
	colText    = rl.NewColor(140, 150, 160, 255)
	colTextDim = rl.NewColor(70, 78, 86, 255)
	colSelect  = rl.NewColor(240, 245, 250, 255)
	colLive    = rl.NewColor(120, 220, 160, 255)
	colSim     = rl.NewColor(220, 180, 110, 255)
)

// App owns the window, the shared nerve session, and the scene carousel.
// Everything mutates on the render-loop goroutine; the nerve's fetch
// goroutine talks back only through its internal channel.
type App struct {
	Nerve    *nerve.Nerve
	Scenes   []scene.Scene
	Active   int
	ShowHUD  bool
	Width    int
	Height   int
	lastTick time.Time
}

// NewApp builds the app with all four scenes sharing one nerve.
func NewApp(n *nerve.Nerve, cfg *config.Config) *App {
	w, h := cfg.Width, cfg.Height
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	app := &App{
		Nerve:   n,
		ShowHUD: true,
		Width:   w,
		Height:  h,
		Scenes: []scene.Scene{
			scene.NewOcean(w, h, seed),
			scene.NewClock(w, h, seed+1),
			scene.NewFracture(w, h, seed+2),
			scene.NewPulse(w, h, seed+3),
		},
	}
	for i, sc := range app.Scenes {
		if sc.Name() == cfg.Scene {
			app.Active = i
		}
	}
	return app
}

// Run opens the window and blocks until it closes.
func Run(n *nerve.Nerve, cfg *config.Config) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), "nervescope")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.FPS))
	rl.SetExitKey(0)

	app := NewApp(n, cfg)
	app.lastTick = time.Now()
	for !rl.WindowShouldClose() {
		if app.Update() {
			return
		}
		app.Draw()
	}
}

// Update handles input and advances the session and the active scene by one
// frame. It returns true when the user quits.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return true
	}

	// Manual controls share one contract across scenes: primary action
	// steps the simulation ladder, secondary toggles LIVE/SIMULATED.
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Nerve.AdvanceLadder()
	}
	if rl.IsKeyPressed(rl.KeyL) {
		a.Nerve.ToggleMode()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		a.Active = (a.Active + 1) % len(a.Scenes)
	}
	for i := 0; i < len(a.Scenes); i++ {
		if rl.IsKeyPressed(int32(rl.KeyOne) + int32(i)) {
			a.Active = i
		}
	}

	if rl.IsWindowResized() {
		a.Width = int(rl.GetScreenWidth())
		a.Height = int(rl.GetScreenHeight())
		for _, sc := range a.Scenes {
			sc.Resize(a.Width, a.Height)
		}
	}

	now := time.Now()
	dt := now.Sub(a.lastTick).Seconds()
	a.lastTick = now
	if dt > 0.1 {
		dt = 0.1 // clamp after a stall so scenes don't leap
	}

	a.Nerve.Tick(now)

	active := a.Scenes[a.Active]
	if pa, ok := active.(scene.PointerAware); ok {
		pos := rl.GetMousePosition()
		onWindow := rl.IsCursorOnScreen()
		pa.SetPointer(float64(pos.X), float64(pos.Y), onWindow)
	}
	active.Update(a.Nerve.Snapshot(), dt)
	return false
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(scene.Background())

	a.Scenes[a.Active].Draw()
	if a.ShowHUD {
		a.drawHUD()
	}

	rl.EndDrawing()
}

func (a *App) drawHUD() {
	snap := a.Nerve.Snapshot()

	rl.DrawText("nervescope", 24, 24, 22, colSelect)
	rl.DrawText(fmt.Sprintf(":: %s", a.Scenes[a.Active].Name()), 160, 28, 16, colText)

	// Status badge reflects the mode every tick.
	badge, badgeCol := "SIMULATED", colSim
	if snap.Mode == nerve.Live {
		badge, badgeCol = "LIVE", colLive
	}
	rl.DrawText(badge, int32(a.Width-130), 26, 18, badgeCol)
	if snap.Mode == nerve.Simulated {
		rl.DrawText(fmt.Sprintf("rung %d/%d %s", snap.SimLevel+1, len(nerve.Ladder), nerve.Ladder[snap.SimLevel].Name),
			int32(a.Width-220), 50, 12, colTextDim)
	}

	rl.DrawText(fmt.Sprintf("edge %.3f  regime %s  fragility %.2f",
		snap.Edge, snap.Regime, snap.Fragility), 24, int32(a.Height-52), 14, colText)
	rl.DrawText("[SPACE] STEP LADDER  [L] LIVE/SIM  [TAB] SCENE  [H] HUD  [Q] QUIT",
		24, int32(a.Height-30), 12, colTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), int32(a.Width-80), int32(a.Height-30), 12, colTextDim)
}
