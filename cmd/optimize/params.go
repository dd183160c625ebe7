package main

import (
	"math"

	"github.com/pthm-cable/microbes/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Microbe metabolism
			{
				Name: "starve_amount", Path: "microbe.starve_amount", Min: 2, Max: 25, Default: 10,
				get: func(c *config.Config) float64 { return c.Microbe.StarveAmount },
				set: func(c *config.Config, v float64) { c.Microbe.StarveAmount = v },
			},
			{
				Name: "starve_interval", Path: "microbe.starve_interval", Min: 2, Max: 30, Default: 10,
				get: func(c *config.Config) float64 { return c.Microbe.StarveInterval },
				set: func(c *config.Config, v float64) { c.Microbe.StarveInterval = v },
			},
			{
				Name: "hunger_cooldown", Path: "microbe.hunger_cooldown", Min: 0.05, Max: 2, Default: 0.4,
				get: func(c *config.Config) float64 { return c.Microbe.HungerCooldown },
				set: func(c *config.Config, v float64) { c.Microbe.HungerCooldown = v },
			},
			// Microbe movement
			{
				Name: "boost_fraction", Path: "microbe.boost_fraction", Min: 0, Max: 0.5, Default: 0.5,
				get: func(c *config.Config) float64 { return c.Microbe.BoostFraction },
				set: func(c *config.Config, v float64) { c.Microbe.BoostFraction = v },
			},
			{
				Name: "boost_range_factor", Path: "microbe.boost_range_factor", Min: 1, Max: 8, Default: 3,
				get: func(c *config.Config) float64 { return c.Microbe.BoostRangeFactor },
				set: func(c *config.Config, v float64) { c.Microbe.BoostRangeFactor = v },
			},
			// Nutrients
			{
				Name: "max_calories", Path: "nutrient.max_calories", Min: 2, Max: 30, Default: 10,
				get: func(c *config.Config) float64 { return c.Nutrient.MaxCalories },
				set: func(c *config.Config, v float64) { c.Nutrient.MaxCalories = v },
			},
			{
				Name: "attraction_gain", Path: "nutrient.attraction_gain", Min: 5, Max: 150, Default: 45,
				get: func(c *config.Config) float64 { return c.Nutrient.AttractionGain },
				set: func(c *config.Config, v float64) { c.Nutrient.AttractionGain = v },
			},
			// Physics
			{
				Name: "friction", Path: "physics.friction", Min: 0.1, Max: 2, Default: 0.6,
				get: func(c *config.Config) float64 { return c.Physics.Friction },
				set: func(c *config.Config, v float64) { c.Physics.Friction = v },
			},
			// Population
			{
				Name: "nutrients_per_microbe", Path: "population.nutrients_per_microbe", Min: 1, Max: 12, Default: 5,
				get: func(c *config.Config) float64 { return float64(c.Population.NutrientsPerMicrobe) },
				set: func(c *config.Config, v float64) { c.Population.NutrientsPerMicrobe = int(math.Round(v)) },
			},
			{
				Name: "spawn_interval", Path: "population.spawn_interval", Min: 0.5, Max: 15, Default: 5,
				get: func(c *config.Config) float64 { return c.Population.SpawnInterval },
				set: func(c *config.Config, v float64) { c.Population.SpawnInterval = v },
			},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Min(math.Max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg and recomputes its
// derived tick counts.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
	return cfg.Apply()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.get(cfg)
	}
	return v
}
