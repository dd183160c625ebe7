package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/microbes/camera"
	"github.com/pthm-cable/microbes/systems"
)

// gridSpacing is the world distance between background grid lines.
const gridSpacing = 20.0

// BackgroundRenderer fills the screen with a vertical gradient and outlines
// the arena.
type BackgroundRenderer struct {
	screenW, screenH int32

	top, bottom rl.Color
	grid        rl.Color
	border      rl.Color
}

// NewBackgroundRenderer creates a background for a screen of the given size.
func NewBackgroundRenderer(screenW, screenH int32) *BackgroundRenderer {
	return &BackgroundRenderer{
		screenW: screenW,
		screenH: screenH,
		top:     rl.Color{R: 10, G: 24, B: 34, A: 255},
		bottom:  rl.Color{R: 4, G: 10, B: 16, A: 255},
		grid:    rl.Color{R: 255, G: 255, B: 255, A: 10},
		border:  rl.Color{R: 70, G: 110, B: 130, A: 160},
	}
}

// Resize updates the gradient extent.
func (b *BackgroundRenderer) Resize(screenW, screenH int32) {
	b.screenW = screenW
	b.screenH = screenH
}

// Draw renders the gradient, a faint world grid and the arena outline.
func (b *BackgroundRenderer) Draw(cam *camera.Camera, bounds systems.Bounds) {
	rl.DrawRectangleGradientV(0, 0, b.screenW, b.screenH, b.top, b.bottom)

	tl := project(cam, r2.Vec{X: bounds.Left, Y: bounds.Top})
	br := project(cam, r2.Vec{X: bounds.Right, Y: bounds.Bottom})

	for x := gridStart(bounds.Left); x <= bounds.Right; x += gridSpacing {
		sx, _ := cam.WorldToScreen(x, 0)
		rl.DrawLineV(rl.Vector2{X: float32(sx), Y: tl.Y}, rl.Vector2{X: float32(sx), Y: br.Y}, b.grid)
	}
	for y := gridStart(bounds.Bottom); y <= bounds.Top; y += gridSpacing {
		_, sy := cam.WorldToScreen(0, y)
		rl.DrawLineV(rl.Vector2{X: tl.X, Y: float32(sy)}, rl.Vector2{X: br.X, Y: float32(sy)}, b.grid)
	}

	rl.DrawRectangleLinesEx(rl.Rectangle{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}, 2, b.border)
}

// gridStart returns the first grid line at or above v.
func gridStart(v float64) float64 {
	return math.Ceil(v/gridSpacing) * gridSpacing
}
