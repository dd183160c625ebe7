package components

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/microbes/config"
	"github.com/pthm-cable/microbes/vmath"
)

// Nutrient is a slowly drifting food particle that pulls hungry microbes in.
type Nutrient struct {
	Body

	ID       uint32
	Calories float64
	Radius   float64

	rules *config.NutrientConfig
}

// NewNutrient creates a nutrient at pos.
func NewNutrient(pos r2.Vec, calories, radius float64, rules *config.NutrientConfig, rng *rand.Rand) (Nutrient, error) {
	if !(calories >= 0) {
		return Nutrient{}, fmt.Errorf("new nutrient: %w (got %v)", ErrInvalidCalories, calories)
	}
	if !(radius > 0) {
		return Nutrient{}, fmt.Errorf("new nutrient: %w (got radius %v)", ErrInvalidSize, radius)
	}

	return Nutrient{
		Body: Body{
			Pos:   pos,
			SeedX: rng.Float64() * rules.SeedRangeX,
			SeedY: rng.Float64() * rules.SeedRangeY,
		},
		Calories: calories,
		Radius:   radius,
		rules:    rules,
	}, nil
}

// ApplyForce accumulates f, clamping acceleration to the nutrient max step.
func (n *Nutrient) ApplyForce(f r2.Vec) {
	n.accumulate(f, n.rules.MaxStep)
}

// Update wanders and integrates motion.
func (n *Nutrient) Update(noise NoiseField) {
	w := n.wander(noise, n.rules.WanderStep)
	n.ApplyForce(vmath.ClampLength(w, n.rules.MaxStep))
	n.integrate(n.rules.MaxStep)
}

// Attract returns the force pulling a body at target towards this nutrient:
// calories*gain / d^2 with d floored at the minimum attraction distance.
// The force is for the target; the nutrient itself is not moved.
func (n *Nutrient) Attract(target r2.Vec) r2.Vec {
	dir := r2.Sub(n.Pos, target)
	d := math.Max(r2.Norm(dir), n.rules.MinAttractDistance)
	strength := n.Calories * n.rules.AttractionGain / (d * d)
	return r2.Scale(strength, vmath.Normalize(dir))
}
