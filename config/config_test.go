package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Sim.TickRate != 64 {
		t.Errorf("tick_rate = %v, want 64", cfg.Sim.TickRate)
	}
	if cfg.Microbe.InitialHealth != 30 {
		t.Errorf("initial_health = %v, want 30", cfg.Microbe.InitialHealth)
	}
	if cfg.Nutrient.MaxStep != 0.04 {
		t.Errorf("nutrient max_step = %v, want 0.04", cfg.Nutrient.MaxStep)
	}
	if len(cfg.Population.Palette) != 6 {
		t.Errorf("palette size = %d, want 6", len(cfg.Population.Palette))
	}
	if cfg.Noise.Kind != NoiseSimplex {
		t.Errorf("noise kind = %q, want %q", cfg.Noise.Kind, NoiseSimplex)
	}
}

func TestDerivedValues(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	tests := []struct {
		name string
		got  int32
		want int32
	}{
		{"boost", cfg.Derived.BoostTicks, 26},   // 0.4s * 64
		{"hunger", cfg.Derived.HungerTicks, 26}, // 0.4s * 64
		{"starve", cfg.Derived.StarveTicks, 640},
		{"pulse", cfg.Derived.PulseTicks, 51},
		{"spawn", cfg.Derived.SpawnTicks, 320},
		{"stats", cfg.Derived.StatsWindowTicks, 640},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s ticks = %d, want %d", tt.name, tt.got, tt.want)
			}
		})
	}

	if cfg.Derived.RepulsionDistance != 6 {
		t.Errorf("repulsion distance = %v, want 6", cfg.Derived.RepulsionDistance)
	}
	if cfg.Derived.TickDuration != time.Second/64 {
		t.Errorf("tick duration = %v, want %v", cfg.Derived.TickDuration, time.Second/64)
	}
}

func TestTicksNeverZero(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := cfg.Ticks(0.0001); got != 1 {
		t.Errorf("Ticks(0.0001) = %d, want 1", got)
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	override := []byte("sim:\n  tick_rate: 32\nnoise:\n  kind: perlin\n")
	if err := os.WriteFile(path, override, 0644); err != nil {
		t.Fatalf("writing override: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%s) error: %v", path, err)
	}

	if cfg.Sim.TickRate != 32 {
		t.Errorf("tick_rate = %v, want 32", cfg.Sim.TickRate)
	}
	if cfg.Noise.Kind != NoisePerlin {
		t.Errorf("noise kind = %q, want perlin", cfg.Noise.Kind)
	}
	// Untouched fields keep their defaults.
	if cfg.Microbe.SmallSize != 3 {
		t.Errorf("small_size = %v, want default 3", cfg.Microbe.SmallSize)
	}
	if cfg.Derived.StarveTicks != 320 {
		t.Errorf("starve ticks at 32Hz = %d, want 320", cfg.Derived.StarveTicks)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero size", func(c *Config) { c.Microbe.SmallSize = 0 }},
		{"negative tick rate", func(c *Config) { c.Sim.TickRate = -1 }},
		{"maturity above reproduction", func(c *Config) { c.Microbe.MaturityHealth = 120 }},
		{"empty burst", func(c *Config) { c.Nutrient.BurstMax = 0 }},
		{"empty palette", func(c *Config) { c.Population.Palette = nil }},
		{"unknown noise", func(c *Config) { c.Noise.Kind = "value" }},
		{"flat camera", func(c *Config) { c.Camera.FOVDegrees = 180 }},
		{"boost above half", func(c *Config) { c.Microbe.BoostFraction = 0.6 }},
		{"negative boost", func(c *Config) { c.Microbe.BoostFraction = -0.1 }},
		{"zero starve amount", func(c *Config) { c.Microbe.StarveAmount = 0 }},
		{"negative starve amount", func(c *Config) { c.Microbe.StarveAmount = -5 }},
		{"negative radius range", func(c *Config) { c.Nutrient.RadiusRange = -0.1 }},
		{"negative nutrients per microbe", func(c *Config) { c.Population.NutrientsPerMicrobe = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestValidateAcceptsRangeEdges(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	for _, f := range []float64{0, 0.5} {
		cfg.Microbe.BoostFraction = f
		cfg.Nutrient.RadiusRange = 0
		cfg.Population.NutrientsPerMicrobe = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("boost_fraction %v: Validate() = %v", f, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	cfg.Sim.Seed = 1234

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load(written) error: %v", err)
	}
	if loaded.Sim.Seed != 1234 {
		t.Errorf("seed = %d, want 1234", loaded.Sim.Seed)
	}
}

func TestApplyRecomputesDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	clone := cfg.Clone()
	clone.Microbe.StarveInterval = 2
	clone.Population.Palette[0].R = 1
	if err := clone.Apply(); err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	if clone.Derived.StarveTicks != 128 {
		t.Errorf("StarveTicks = %d, want 128", clone.Derived.StarveTicks)
	}
	if cfg.Derived.StarveTicks != 640 {
		t.Errorf("original StarveTicks changed to %d", cfg.Derived.StarveTicks)
	}
	if cfg.Population.Palette[0].R == 1 {
		t.Error("Clone shares the palette with the original")
	}

	clone.Microbe.SmallSize = 0
	if err := clone.Apply(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Apply with zero size: err = %v, want ErrInvalid", err)
	}
}
