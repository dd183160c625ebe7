package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/microbes/renderer"
	"github.com/pthm-cable/microbes/ui"
)

const controlsLegend = "Space: pause | ,/.: speed | click: select or feed | F: feed | S: snapshot | Tab: panel"

// Draw renders the frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.scene.Draw(g.cam, g.engine.Bounds(), g.microbes, g.nutrients, g.selected, g.layers())
	g.drawUI()

	rl.EndDrawing()
}

// layers maps overlay toggles onto renderer layers.
func (g *Game) layers() renderer.Layers {
	return renderer.Layers{
		Glow:       g.overlays.IsEnabled(ui.OverlayGlow),
		Headings:   g.overlays.IsEnabled(ui.OverlayHeadings),
		Corpses:    g.overlays.IsEnabled(ui.OverlayCorpses),
		Effects:    g.overlays.IsEnabled(ui.OverlayEffects),
		BoostRange: g.overlays.IsEnabled(ui.OverlayBoostRange),
		EatRange:   g.overlays.IsEnabled(ui.OverlayEatRange),
		Velocity:   g.overlays.IsEnabled(ui.OverlayVelocity),
	}
}

// drawUI renders the HUD and panels and applies the panel's actions.
func (g *Game) drawUI() {
	g.hud.Draw(ui.HUDData{
		Title:     "Microbes",
		Microbes:  len(g.microbes),
		Nutrients: len(g.nutrients),
		Tick:      g.engine.Tick(),
		SimTime:   float64(g.engine.Tick()) / g.cfg.Sim.TickRate,
		Speed:     g.pacer.Speed(),
		FPS:       rl.GetFPS(),
		Paused:    g.paused,
	})

	actions := g.controls.Draw(ui.ControlsState{Paused: g.paused, Speed: g.pacer.Speed()}, g.overlays)
	g.applyActions(actions)

	if v := g.selectedView(); v != nil {
		g.inspector.Draw(v)
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.engine.Perf().Stats())
	}

	g.hud.DrawControls(g.height, controlsLegend)
}

// applyActions carries out what the user clicked on the controls panel.
func (g *Game) applyActions(a ui.ControlActions) {
	if a.TogglePause {
		g.togglePause()
	}
	if a.Feed {
		g.feed(g.engine.Bounds().RandomPoint(g.uiRNG))
	}
	if a.Snapshot {
		g.saveSnapshot(nil)
	}
	if a.Speed != g.pacer.Speed() {
		g.pacer.SetSpeed(a.Speed)
	}
}
