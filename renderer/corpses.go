package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/microbes/camera"
	"github.com/pthm-cable/microbes/sim"
)

// CorpseLinger is how long, in seconds, a starved microbe stays on screen
// after the engine has removed it.
const CorpseLinger = 7.0

// Corpse is the frozen view of a dead microbe.
type Corpse struct {
	View sim.MicrobeView
	Age  float64
}

// Corpses fades dead microbes out over a fixed linger time.
type Corpses struct {
	linger float64
	items  []Corpse
}

// NewCorpses creates a corpse tracker. linger must be positive.
func NewCorpses(linger float64) *Corpses {
	return &Corpses{linger: linger}
}

// Add starts a corpse fading from v.
func (c *Corpses) Add(v sim.MicrobeView) {
	c.items = append(c.items, Corpse{View: v})
}

// Update ages every corpse and drops the ones that have faded out.
func (c *Corpses) Update(dt float64) {
	kept := c.items[:0]
	for _, item := range c.items {
		item.Age += dt
		if item.Age < c.linger {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// Len returns the number of corpses still visible.
func (c *Corpses) Len() int { return len(c.items) }

// Opacity returns the remaining opacity in [0, 1] of a corpse of the given age.
func (c *Corpses) Opacity(age float64) float64 {
	return clamp01(1 - age/c.linger)
}

// Draw renders corpses desaturated, shrinking slightly as they fade.
func (c *Corpses) Draw(cam *camera.Camera) {
	for i := range c.items {
		item := &c.items[i]
		v := &item.View
		if !cam.IsVisible(v.Pos.X, v.Pos.Y, v.Size) {
			continue
		}
		fade := c.Opacity(item.Age)
		grey := uint8(60 + 40*fade)
		color := rl.Color{R: grey, G: grey, B: grey + 10, A: uint8(200 * fade)}
		px := pixels(cam, v.Size/2*(0.7+0.3*fade), 1.5)
		rl.DrawCircleV(project(cam, v.Pos), px, color)
	}
}
