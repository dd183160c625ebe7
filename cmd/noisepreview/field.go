package main

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/microbes/config"
	"github.com/pthm-cable/microbes/systems"
)

// Params holds the noise settings being previewed.
type Params struct {
	Noise      config.NoiseConfig
	Seed       int64
	Span       float64 // Noise-space width shown by the preview
	WanderStep float64 // Per-tick advance of the noise coordinates
}

// sampleField fills grid (size*size, row-major) with noise values over
// [0, span) in both axes.
func sampleField(n systems.Noise, grid []float64, size int, span float64) {
	cell := span / float64(size)
	for y := range size {
		for x := range size {
			grid[y*size+x] = n.Eval2((float64(x)+0.5)*cell, (float64(y)+0.5)*cell)
		}
	}
}

// fieldStats returns the min, max and mean of a sampled field.
func fieldStats(grid []float64) (lo, hi, mean float64) {
	if len(grid) == 0 {
		return 0, 0, 0
	}
	return floats.Min(grid), floats.Max(grid), stat.Mean(grid, nil)
}

// traceWander follows a body's wander vector for steps ticks from the given
// noise coordinates, returning the cumulative displacement at each tick.
// Forces and speed limits are ignored; the shape is what matters.
func traceWander(n systems.Noise, seedX, seedY, step float64, steps int) []r2.Vec {
	path := make([]r2.Vec, 0, steps+1)
	var pos r2.Vec
	path = append(path, pos)
	for range steps {
		seedX += step
		seedY += step
		pos = r2.Add(pos, r2.Vec{X: n.Eval2(seedX, seedY), Y: n.Eval2(seedY, seedX)})
		path = append(path, pos)
	}
	return path
}

// yamlSnippet renders the noise section as it would appear in config.yaml.
func yamlSnippet(p Params) (string, error) {
	out, err := yaml.Marshal(struct {
		Noise config.NoiseConfig `yaml:"noise"`
	}{p.Noise})
	if err != nil {
		return "", fmt.Errorf("marshaling noise config: %w", err)
	}
	return string(out), nil
}
