// Package systems contains the force generators, noise fields and timer queue
// that the simulation engine composes each tick.
package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Bounds is the rectangular arena, y-up: Top > Bottom, Right > Left.
type Bounds struct {
	Top, Bottom, Left, Right float64
}

// NewBounds builds Bounds from four edge coordinates in any order.
func NewBounds(top, bottom, left, right float64) Bounds {
	return Bounds{
		Top:    math.Max(top, bottom),
		Bottom: math.Min(top, bottom),
		Left:   math.Min(left, right),
		Right:  math.Max(left, right),
	}
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.Right - b.Left }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.Top - b.Bottom }

// Contains reports whether p lies inside the arena (edges included).
func (b Bounds) Contains(p r2.Vec) bool {
	return p.X >= b.Left && p.X <= b.Right && p.Y >= b.Bottom && p.Y <= b.Top
}

// RandomPoint returns a uniformly distributed point inside the arena.
func (b Bounds) RandomPoint(rng *rand.Rand) r2.Vec {
	return r2.Vec{
		X: b.Left + rng.Float64()*b.Width(),
		Y: b.Bottom + rng.Float64()*b.Height(),
	}
}
