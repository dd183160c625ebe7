// Package renderer draws the arena in screen space with raylib. World
// positions go through the perspective camera; nothing here touches
// simulation state, it only reads views and reacts to events.
package renderer

import (
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/microbes/camera"
	"github.com/pthm-cable/microbes/components"
	"github.com/pthm-cable/microbes/config"
	"github.com/pthm-cable/microbes/sim"
	"github.com/pthm-cable/microbes/systems"
	"github.com/pthm-cable/microbes/telemetry"
)

// Layers selects the optional visuals drawn each frame.
type Layers struct {
	Glow       bool
	Headings   bool
	Corpses    bool
	Effects    bool
	BoostRange bool
	EatRange   bool
	Velocity   bool
}

// DefaultLayers returns the layers shown at startup.
func DefaultLayers() Layers {
	return Layers{Glow: true, Corpses: true, Effects: true}
}

// Scene owns every renderer and the last known view of each entity, so
// removal events can still place a visual where the entity was.
type Scene struct {
	background *BackgroundRenderer
	microbes   *MicrobeRenderer
	nutrients  *NutrientRenderer
	corpses    *Corpses
	effects    *Effects

	lastMicrobes  map[uint32]sim.MicrobeView
	lastNutrients map[uint32]sim.NutrientView
}

// NewScene creates a scene for a screen of the given size. seed drives
// cosmetic randomness only and is independent of the simulation RNG.
func NewScene(cfg *config.Config, screenW, screenH int32, seed int64) *Scene {
	return &Scene{
		background:    NewBackgroundRenderer(screenW, screenH),
		microbes:      NewMicrobeRenderer(&cfg.Microbe),
		nutrients:     NewNutrientRenderer(cfg.Nutrient.MaxCalories),
		corpses:       NewCorpses(CorpseLinger),
		effects:       NewEffects(rand.New(rand.NewSource(seed))),
		lastMicrobes:  make(map[uint32]sim.MicrobeView),
		lastNutrients: make(map[uint32]sim.NutrientView),
	}
}

// HandleEvent turns engine events into transient visuals.
// It is registered as an engine listener and runs during Step.
func (s *Scene) HandleEvent(ev telemetry.Event) {
	switch ev.Type {
	case telemetry.EventDied:
		if v, ok := s.lastMicrobes[ev.EntityID]; ok {
			s.corpses.Add(v)
			s.effects.Burst(ParticleDeath, v.Pos, 10, 2)
		}
	case telemetry.EventReproduced:
		if v, ok := s.lastMicrobes[ev.EntityID]; ok {
			s.effects.Burst(ParticleSplit, v.Pos, 14, 4)
		}
	case telemetry.EventAte:
		if n, ok := s.lastNutrients[ev.TargetID]; ok {
			s.effects.Burst(ParticleAte, n.Pos, 6, 1.5)
		}
	case telemetry.EventMatured:
		if v, ok := s.lastMicrobes[ev.EntityID]; ok {
			s.effects.Burst(ParticleMature, v.Pos, 8, 3)
		}
	}
}

// Sync records the views of the current frame.
func (s *Scene) Sync(microbes []sim.MicrobeView, nutrients []sim.NutrientView) {
	clear(s.lastMicrobes)
	for _, v := range microbes {
		s.lastMicrobes[v.ID] = v
	}
	clear(s.lastNutrients)
	for _, n := range nutrients {
		s.lastNutrients[n.ID] = n
	}
}

// Update ages transient visuals by dt seconds.
func (s *Scene) Update(dt float64) {
	s.corpses.Update(dt)
	s.effects.Update(dt)
}

// Resize adapts screen-sized resources.
func (s *Scene) Resize(screenW, screenH int32) {
	s.background.Resize(screenW, screenH)
}

// Draw renders one frame of the arena. selected is the ID of the inspected
// microbe, 0 for none.
func (s *Scene) Draw(cam *camera.Camera, bounds systems.Bounds, microbes []sim.MicrobeView, nutrients []sim.NutrientView, selected uint32, layers Layers) {
	s.background.Draw(cam, bounds)
	s.nutrients.Draw(cam, nutrients)
	if layers.Corpses {
		s.corpses.Draw(cam)
	}
	s.microbes.Draw(cam, microbes, selected, layers)
	if layers.Effects {
		s.effects.Draw(cam)
	}
}

// project maps a world position to screen pixels.
func project(cam *camera.Camera, p r2.Vec) rl.Vector2 {
	x, y := cam.WorldToScreen(p.X, p.Y)
	return rl.Vector2{X: float32(x), Y: float32(y)}
}

// pixels converts a world length to screen pixels, never below min.
func pixels(cam *camera.Camera, length float64, min float32) float32 {
	px := float32(length * cam.WorldScale())
	if px < min {
		return min
	}
	return px
}

// tint converts an entity colour lit by brightness in [0, 1] into a raylib colour.
// Zero brightness gives the palette colour, one gives white.
func tint(c components.Color, brightness float64, alpha uint8) rl.Color {
	lift := float32(clamp01(brightness))
	channel := func(v float32) uint8 {
		v = v + (1-v)*lift
		return uint8(clamp01(float64(v)) * 255)
	}
	return rl.Color{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: alpha}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
