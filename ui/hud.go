package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/microbes/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Microbes  int
	Nutrients int
	Tick      int32
	SimTime   float64 // seconds
	Speed     int
	FPS       int32
	Paused    bool
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	// Title
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	// Population counts
	rl.DrawText(
		fmt.Sprintf("Microbes: %d | Nutrients: %d", data.Microbes, data.Nutrients),
		10, 35, 16, rl.LightGray,
	)

	// Simulation info
	rl.DrawText(
		fmt.Sprintf("Tick: %d (%.0fs) | Speed: %dx | FPS: %d", data.Tick, data.SimTime, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	// Status
	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase tick timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	p.renderer.DrawPanel(x-6, y-6, 250, int32(len(telemetry.Phases))*14+56)

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(
		fmt.Sprintf("Avg: %s  Max: %s  %.0f tps", stats.AvgTickDuration.Round(time.Microsecond), stats.MaxTickDuration.Round(time.Microsecond), stats.TicksPerSecond),
		x, y, 12, rl.Yellow,
	)
	y += 16

	for _, phase := range telemetry.Phases {
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
