package main

import (
	"math"
	"strings"
	"testing"

	"github.com/pthm-cable/microbes/config"
	"github.com/pthm-cable/microbes/systems"
)

func TestSampleFieldInRange(t *testing.T) {
	for _, kind := range []string{config.NoiseSimplex, config.NoisePerlin} {
		t.Run(kind, func(t *testing.T) {
			cfg := config.NoiseConfig{Kind: kind, PerlinAlpha: 2, PerlinBeta: 2, PerlinOctaves: 3}
			n, err := systems.NewNoise(cfg, 7)
			if err != nil {
				t.Fatalf("NewNoise: %v", err)
			}

			const size = 16
			grid := make([]float64, size*size)
			sampleField(n, grid, size, 4)

			lo, hi, _ := fieldStats(grid)
			if lo < -1 || hi > 1 {
				t.Errorf("field range [%v, %v] outside [-1, 1]", lo, hi)
			}
			if lo == hi {
				t.Error("field is constant")
			}
		})
	}
}

func TestFieldStatsEmpty(t *testing.T) {
	lo, hi, mean := fieldStats(nil)
	if lo != 0 || hi != 0 || mean != 0 {
		t.Errorf("fieldStats(nil) = %v, %v, %v, want zeros", lo, hi, mean)
	}
}

func TestTraceWander(t *testing.T) {
	path := traceWander(systems.FlatNoise(0.5), 0, 0, 0.01, 10)
	if len(path) != 11 {
		t.Fatalf("len(path) = %d, want 11", len(path))
	}
	if path[0].X != 0 || path[0].Y != 0 {
		t.Errorf("path starts at %v, want origin", path[0])
	}
	end := path[10]
	if math.Abs(end.X-5) > 1e-9 || math.Abs(end.Y-5) > 1e-9 {
		t.Errorf("flat noise end = %v, want (5, 5)", end)
	}
}

func TestYAMLSnippet(t *testing.T) {
	p := Params{Noise: config.NoiseConfig{Kind: config.NoisePerlin, PerlinAlpha: 2, PerlinBeta: 3, PerlinOctaves: 4}}
	out, err := yamlSnippet(p)
	if err != nil {
		t.Fatalf("yamlSnippet: %v", err)
	}
	for _, want := range []string{"noise:", "kind: perlin", "perlin_beta: 3", "perlin_octaves: 4"} {
		if !strings.Contains(out, want) {
			t.Errorf("snippet missing %q:\n%s", want, out)
		}
	}
}
