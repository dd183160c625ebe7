package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/microbes/camera"
	"github.com/pthm-cable/microbes/config"
	"github.com/pthm-cable/microbes/sim"
)

var (
	boostColor    = rl.Color{R: 255, G: 210, B: 90, A: 200}
	selectColor   = rl.Color{R: 255, G: 255, B: 255, A: 230}
	rangeColor    = rl.Color{R: 120, G: 200, B: 255, A: 60}
	eatRangeColor = rl.Color{R: 120, G: 255, B: 140, A: 90}
	velocityColor = rl.Color{R: 255, G: 120, B: 120, A: 200}
)

// MicrobeRenderer draws microbes as lit discs with a glow halo whose
// strength follows brightness.
type MicrobeRenderer struct {
	rules *config.MicrobeConfig
}

// NewMicrobeRenderer creates a microbe renderer.
func NewMicrobeRenderer(rules *config.MicrobeConfig) *MicrobeRenderer {
	return &MicrobeRenderer{rules: rules}
}

// Draw renders every visible microbe.
func (r *MicrobeRenderer) Draw(cam *camera.Camera, views []sim.MicrobeView, selected uint32, layers Layers) {
	for i := range views {
		v := &views[i]
		radius := v.Size / 2
		if !cam.IsVisible(v.Pos.X, v.Pos.Y, radius*r.rules.BoostRangeFactor*2) {
			continue
		}

		center := project(cam, v.Pos)
		px := pixels(cam, radius, 2)

		if layers.BoostRange && v.Hungry {
			rl.DrawCircleLinesV(center, pixels(cam, v.Size*r.rules.BoostRangeFactor, 1), rangeColor)
		}
		if layers.EatRange {
			rl.DrawCircleLinesV(center, px, eatRangeColor)
		}

		if layers.Glow {
			glow := uint8(clamp01(v.Brightness) * 110)
			rl.DrawCircleV(center, px*1.9, tint(v.Color, v.Brightness, glow/3))
			rl.DrawCircleV(center, px*1.4, tint(v.Color, v.Brightness, glow))
		}
		rl.DrawCircleV(center, px, tint(v.Color, v.Brightness, 255))

		if v.Mature {
			rl.DrawCircleLinesV(center, px*0.55, tint(v.Color, 1, 160))
		}
		if v.Boosted {
			rl.DrawCircleLinesV(center, px+2, boostColor)
		}
		if layers.Headings {
			dir := headingDir(v.Heading)
			tip := rl.Vector2{X: center.X + dir.X*px*1.6, Y: center.Y + dir.Y*px*1.6}
			rl.DrawLineEx(center, tip, 2, tint(v.Color, 1, 220))
		}
		if layers.Velocity {
			end := project(cam, r2.Add(v.Pos, r2.Scale(20, v.Vel)))
			rl.DrawLineEx(center, end, 1.5, velocityColor)
		}
		if v.ID == selected {
			rl.DrawCircleLinesV(center, px+5, selectColor)
		}
	}
}

// headingDir converts a world heading (radians, y-up) to a screen-space unit vector.
func headingDir(heading float64) rl.Vector2 {
	return rl.Vector2{X: float32(math.Cos(heading)), Y: float32(-math.Sin(heading))}
}

// NutrientRenderer draws nutrients as small discs that fade with their
// remaining calories.
type NutrientRenderer struct {
	maxCalories float64
	color       rl.Color
}

// NewNutrientRenderer creates a nutrient renderer.
func NewNutrientRenderer(maxCalories float64) *NutrientRenderer {
	return &NutrientRenderer{
		maxCalories: maxCalories,
		color:       rl.Color{R: 190, G: 230, B: 110, A: 255},
	}
}

// Draw renders every visible nutrient.
func (r *NutrientRenderer) Draw(cam *camera.Camera, views []sim.NutrientView) {
	for i := range views {
		n := &views[i]
		if !cam.IsVisible(n.Pos.X, n.Pos.Y, n.Radius) {
			continue
		}
		c := r.color
		c.A = r.alpha(n.Calories)
		rl.DrawCircleV(project(cam, n.Pos), pixels(cam, n.Radius, 1.5), c)
	}
}

// alpha maps calories onto [80, 255] so empty nutrients stay visible.
func (r *NutrientRenderer) alpha(calories float64) uint8 {
	if r.maxCalories <= 0 {
		return 255
	}
	return uint8(80 + 175*clamp01(calories/r.maxCalories))
}
