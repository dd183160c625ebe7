package systems

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/microbes/config"
)

// Noise is a deterministic, continuous 2D field with values in [-1, 1].
type Noise interface {
	Eval2(x, y float64) float64
}

// NewNoise builds the wander noise field selected by cfg.
func NewNoise(cfg config.NoiseConfig, seed int64) (Noise, error) {
	switch cfg.Kind {
	case config.NoiseSimplex:
		return opensimplex.New(seed), nil
	case config.NoisePerlin:
		return NewPerlinNoise(cfg.PerlinAlpha, cfg.PerlinBeta, cfg.PerlinOctaves, seed), nil
	default:
		return nil, fmt.Errorf("unknown noise kind %q", cfg.Kind)
	}
}

// PerlinNoise adapts go-perlin to the Noise contract.
type PerlinNoise struct {
	p *perlin.Perlin
}

// NewPerlinNoise creates a Perlin noise generator.
// alpha is the weight of each successive octave, beta the frequency multiplier.
func NewPerlinNoise(alpha, beta float64, octaves int32, seed int64) *PerlinNoise {
	return &PerlinNoise{p: perlin.NewPerlin(alpha, beta, octaves, seed)}
}

// Eval2 returns the noise value at (x, y), clamped to [-1, 1].
// Summed octaves can overshoot the unit range slightly.
func (n *PerlinNoise) Eval2(x, y float64) float64 {
	return math.Max(-1, math.Min(1, n.p.Noise2D(x, y)))
}

// FlatNoise is a constant field. Useful for deterministic physics.
type FlatNoise float64

// Eval2 returns the constant value.
func (f FlatNoise) Eval2(x, y float64) float64 {
	return float64(f)
}
