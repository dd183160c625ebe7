package components

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/microbes/vmath"
)

// Body holds the kinematic state shared by microbes and nutrients,
// plus the per-entity noise coordinates that drive wandering.
type Body struct {
	Pos, Vel, Acc r2.Vec
	SeedX, SeedY  float64
}

// accumulate adds f to the acceleration and clamps it to maxStep.
func (b *Body) accumulate(f r2.Vec, maxStep float64) {
	b.Acc = vmath.ClampLength(r2.Add(b.Acc, f), maxStep)
}

// wander advances the noise coordinates by step and returns the raw wander vector.
func (b *Body) wander(n NoiseField, step float64) r2.Vec {
	b.SeedX += step
	b.SeedY += step
	return r2.Vec{
		X: n.Eval2(b.SeedX, b.SeedY),
		Y: n.Eval2(b.SeedY, b.SeedX),
	}
}

// integrate applies acceleration to velocity (clamped to maxStep) and velocity
// to position, then clears the acceleration.
func (b *Body) integrate(maxStep float64) {
	b.Vel = vmath.ClampLength(r2.Add(b.Vel, b.Acc), maxStep)
	b.Pos = r2.Add(b.Pos, b.Vel)
	b.Acc = vmath.Zero
}
