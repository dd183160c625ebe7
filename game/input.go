package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"
)

// defaultSnapshotDir receives manual snapshots when no -snapshot-dir is given.
const defaultSnapshotDir = "snapshots"

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.togglePause()
	}

	// Speed control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.pacer.SetSpeed(g.pacer.Speed() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.pacer.SetSpeed(g.pacer.Speed() + 1)
	}

	if rl.IsKeyPressed(rl.KeyS) {
		g.saveSnapshot(nil)
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.feed(g.engine.Bounds().RandomPoint(g.uiRNG))
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}

	for _, key := range g.overlays.Keys() {
		if rl.IsKeyPressed(key) {
			g.overlays.HandleKeyPress(key)
		}
	}

	g.handleMouse()
}

// handleMouse selects the microbe under a left click, or feeds at the click
// point when there is none. Right click clears the selection.
func (g *Game) handleMouse() {
	mouse := rl.GetMousePosition()
	if rl.CheckCollisionPointRec(mouse, g.controls.Bounds(g.overlays)) {
		return
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		g.selected = 0
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	if id, ok := pickMicrobe(g.microbes, g.cam, float64(mouse.X), float64(mouse.Y)); ok {
		g.selected = id
		return
	}

	wx, wy := g.cam.ScreenToWorld(float64(mouse.X), float64(mouse.Y))
	g.feed(r2.Vec{X: wx, Y: wy})
}

// handleResize checks for window resize and propagates new dimensions.
// The arena keeps the bounds it was created with.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == g.width && h == g.height {
		return
	}
	g.width = w
	g.height = h

	g.cam.Resize(float64(w), float64(h))
	g.scene.Resize(w, h)
	g.controls.SetPosition(w-230, 10)
	g.perfPanel.SetPosition(16, h-170)
}

// togglePause pauses or resumes, dropping time accumulated while paused.
func (g *Game) togglePause() {
	g.paused = !g.paused
	if !g.paused {
		g.pacer.Reset()
	}
}

// feed drops a nutrient burst at a world point.
func (g *Game) feed(at r2.Vec) {
	n, err := g.engine.SpawnBurst(at)
	if err != nil {
		slog.Error("feed failed", "error", err)
		return
	}
	slog.Debug("fed", "x", at.X, "y", at.Y, "nutrients", n)
}
