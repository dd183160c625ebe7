// Package components defines the ECS components for the simulation.
//
// Entities own their physical and health state and expose mutators; they never
// touch the entity collections, which belong to the engine.
package components

import (
	"errors"

	"github.com/pthm-cable/microbes/config"
)

// Precondition failures at entity creation.
var (
	ErrInvalidSize     = errors.New("size must be positive")
	ErrInvalidCalories = errors.New("calories must be non-negative")
)

// Kind distinguishes the two entity types.
type Kind uint8

const (
	KindMicrobe Kind = iota
	KindNutrient
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMicrobe:
		return "microbe"
	case KindNutrient:
		return "nutrient"
	default:
		return "unknown"
	}
}

// Color is an immutable RGBA identity tag, copied by value into each entity.
type Color struct {
	R, G, B, A float32
}

// ColorFrom converts a configured palette entry.
func ColorFrom(c config.RGBA) Color {
	return Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// NoiseField is the coherent noise sampled for wandering.
type NoiseField interface {
	Eval2(x, y float64) float64
}

// Lifetime tracks per-microbe history for telemetry.
type Lifetime struct {
	BirthTick     int32
	MaturedTick   int32 // -1 until mature
	Generation    int
	ParentID      uint32 // 0 for seeded microbes
	Meals         int
	CaloriesEaten float64
	Boosts        int
}
