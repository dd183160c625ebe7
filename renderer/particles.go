package renderer

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/microbes/camera"
)

// maxParticles caps live effect particles; bursts beyond it are dropped.
const maxParticles = 2048

// ParticleKind selects an effect's colour and lifetime.
type ParticleKind uint8

const (
	ParticleAte ParticleKind = iota
	ParticleSplit
	ParticleDeath
	ParticleMature
)

// Particle is a short-lived cosmetic speck in world space.
type Particle struct {
	Pos, Vel r2.Vec
	Life     float64
	MaxLife  float64
	Size     float32
	Kind     ParticleKind
}

// Effects spawns and ages effect particles.
type Effects struct {
	rng       *rand.Rand
	particles []Particle
}

// NewEffects creates an empty effect system.
func NewEffects(rng *rand.Rand) *Effects {
	return &Effects{rng: rng}
}

// Burst scatters n particles of kind outward from at with speeds up to speed
// world units per second.
func (fx *Effects) Burst(kind ParticleKind, at r2.Vec, n int, speed float64) {
	life := particleLife(kind)
	for range n {
		if len(fx.particles) >= maxParticles {
			return
		}
		angle := fx.rng.Float64() * 2 * math.Pi
		v := speed * (0.3 + 0.7*fx.rng.Float64())
		fx.particles = append(fx.particles, Particle{
			Pos:     at,
			Vel:     r2.Vec{X: math.Cos(angle) * v, Y: math.Sin(angle) * v},
			Life:    life,
			MaxLife: life,
			Size:    float32(1.5 + 2*fx.rng.Float64()),
			Kind:    kind,
		})
	}
}

// Update moves particles and removes expired ones.
func (fx *Effects) Update(dt float64) {
	kept := fx.particles[:0]
	for _, p := range fx.particles {
		p.Life -= dt
		if p.Life <= 0 {
			continue
		}
		p.Pos = r2.Add(p.Pos, r2.Scale(dt, p.Vel))
		p.Vel = r2.Scale(1-2*dt, p.Vel)
		kept = append(kept, p)
	}
	fx.particles = kept
}

// Len returns the number of live particles.
func (fx *Effects) Len() int { return len(fx.particles) }

// Draw renders all particles.
func (fx *Effects) Draw(cam *camera.Camera) {
	for i := range fx.particles {
		p := &fx.particles[i]

		lifeRatio := p.Life / p.MaxLife
		color := particleColor(p.Kind, lifeRatio)

		size := p.Size * float32(lifeRatio)
		if size < 0.5 {
			size = 0.5
		}
		rl.DrawCircleV(project(cam, p.Pos), size, color)
	}
}

func particleLife(kind ParticleKind) float64 {
	switch kind {
	case ParticleDeath:
		return 1.5
	case ParticleSplit:
		return 0.9
	default:
		return 0.6
	}
}

// particleColor fades each kind's colour with its remaining life.
func particleColor(kind ParticleKind, lifeRatio float64) rl.Color {
	switch kind {
	case ParticleAte:
		// Leaf green
		return rl.Color{R: 170, G: 240, B: 110, A: uint8(lifeRatio * 200)}
	case ParticleSplit:
		// Orange
		return rl.Color{R: 255, G: 150, B: 50, A: uint8(lifeRatio * 200)}
	case ParticleDeath:
		// Grey/brown
		return rl.Color{R: 100, G: 80, B: 60, A: uint8(lifeRatio * 150)}
	default:
		// Pale gold
		return rl.Color{R: 255, G: 230, B: 150, A: uint8(lifeRatio * 180)}
	}
}
