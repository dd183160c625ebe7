// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Noise backends.
const (
	NoiseSimplex = "simplex"
	NoisePerlin  = "perlin"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Sim        SimConfig        `yaml:"sim"`
	Screen     ScreenConfig     `yaml:"screen"`
	Camera     CameraConfig     `yaml:"camera"`
	Microbe    MicrobeConfig    `yaml:"microbe"`
	Nutrient   NutrientConfig   `yaml:"nutrient"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Population PopulationConfig `yaml:"population"`
	Noise      NoiseConfig      `yaml:"noise"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimConfig holds tick pacing and seeding.
type SimConfig struct {
	TickRate float64 `yaml:"tick_rate"` // Simulation ticks per second
	Seed     int64   `yaml:"seed"`      // 0 = time-based
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// CameraConfig describes the perspective camera that frames the arena.
type CameraConfig struct {
	FOVDegrees float64 `yaml:"fov_degrees"` // Vertical field of view
	Distance   float64 `yaml:"distance"`    // Camera height above the z=0 plane
}

// MicrobeConfig holds microbe body and lifecycle parameters.
// Durations are in seconds and converted to ticks in DerivedConfig.
type MicrobeConfig struct {
	SmallSize         float64 `yaml:"small_size"`
	InitialHealth     float64 `yaml:"initial_health"`
	MaturityHealth    float64 `yaml:"maturity_health"`  // Health above which a microbe matures (once)
	ReproduceHealth   float64 `yaml:"reproduce_health"` // Health at which a microbe splits
	GrowthFactor      float64 `yaml:"growth_factor"`    // Size multiplier applied at maturity
	StepDivisor       float64 `yaml:"step_divisor"`     // Base max step = size / this
	BoostFraction     float64 `yaml:"boost_fraction"`   // Boost increment as a fraction of base step
	BoostWindow       float64 `yaml:"boost_window"`
	BoostRangeFactor  float64 `yaml:"boost_range_factor"` // Boost when nutrient within size*this + radius
	HungerCooldown    float64 `yaml:"hunger_cooldown"`
	StarveInterval    float64 `yaml:"starve_interval"`
	StarveAmount      float64 `yaml:"starve_amount"`
	BaseBrightness    float64 `yaml:"base_brightness"`
	FedBrightness     float64 `yaml:"fed_brightness"`
	StarvedBrightness float64 `yaml:"starved_brightness"`
	PulseDuration     float64 `yaml:"pulse_duration"`
	SeedRangeX        float64 `yaml:"seed_range_x"`
	SeedRangeY        float64 `yaml:"seed_range_y"`
	WanderStep        float64 `yaml:"wander_step"`
}

// NutrientConfig holds nutrient parameters.
type NutrientConfig struct {
	MaxStep            float64 `yaml:"max_step"`
	MaxCalories        float64 `yaml:"max_calories"`
	AttractionGain     float64 `yaml:"attraction_gain"`
	MinAttractDistance float64 `yaml:"min_attract_distance"`
	RadiusMin          float64 `yaml:"radius_min"`
	RadiusRange        float64 `yaml:"radius_range"`
	BurstMin           int     `yaml:"burst_min"`
	BurstMax           int     `yaml:"burst_max"`
	BurstJitter        float64 `yaml:"burst_jitter"` // Half-width of the square spawn jitter
	SeedRangeX         float64 `yaml:"seed_range_x"`
	SeedRangeY         float64 `yaml:"seed_range_y"`
	WanderStep         float64 `yaml:"wander_step"`
}

// PhysicsConfig holds interaction force parameters.
type PhysicsConfig struct {
	RepulsionGain    float64 `yaml:"repulsion_gain"`
	EdgeRangeFactor  float64 `yaml:"edge_range_factor"` // Edge force active within size*this
	EdgeGain         float64 `yaml:"edge_gain"`
	Friction         float64 `yaml:"friction"`           // Quadratic drag coefficient
	MinForceDistance float64 `yaml:"min_force_distance"` // Floor for inverse-square distances
}

// PopulationConfig holds seeding and nutrient spawning parameters.
type PopulationConfig struct {
	InitialMin          int     `yaml:"initial_min"`
	InitialMax          int     `yaml:"initial_max"`
	NutrientsPerMicrobe int     `yaml:"nutrients_per_microbe"` // Spawn while nutrients < microbes*this
	SpawnInterval       float64 `yaml:"spawn_interval"`
	Palette             []RGBA  `yaml:"palette"`
}

// RGBA is a colour with components in [0,1].
type RGBA struct {
	R float32 `yaml:"r"`
	G float32 `yaml:"g"`
	B float32 `yaml:"b"`
	A float32 `yaml:"a"`
}

// NoiseConfig selects and tunes the wander noise field.
type NoiseConfig struct {
	Kind          string  `yaml:"kind"`
	PerlinAlpha   float64 `yaml:"perlin_alpha"`
	PerlinBeta    float64 `yaml:"perlin_beta"`
	PerlinOctaves int32   `yaml:"perlin_octaves"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"`
	PerfWindow  int     `yaml:"perf_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TickDuration      time.Duration // Wall time per tick at TickRate
	RepulsionDistance float64       // 2 * Microbe.SmallSize
	BoostTicks        int32
	HungerTicks       int32
	StarveTicks       int32
	PulseTicks        int32
	SpawnTicks        int32
	StatsWindowTicks  int32
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations that would produce undefined physics.
func (c *Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"sim.tick_rate", c.Sim.TickRate},
		{"camera.fov_degrees", c.Camera.FOVDegrees},
		{"camera.distance", c.Camera.Distance},
		{"microbe.small_size", c.Microbe.SmallSize},
		{"microbe.initial_health", c.Microbe.InitialHealth},
		{"microbe.growth_factor", c.Microbe.GrowthFactor},
		{"microbe.step_divisor", c.Microbe.StepDivisor},
		{"microbe.boost_window", c.Microbe.BoostWindow},
		{"microbe.hunger_cooldown", c.Microbe.HungerCooldown},
		{"microbe.starve_interval", c.Microbe.StarveInterval},
		{"microbe.pulse_duration", c.Microbe.PulseDuration},
		{"microbe.starve_amount", c.Microbe.StarveAmount},
		{"nutrient.max_step", c.Nutrient.MaxStep},
		{"nutrient.max_calories", c.Nutrient.MaxCalories},
		{"nutrient.min_attract_distance", c.Nutrient.MinAttractDistance},
		{"nutrient.radius_min", c.Nutrient.RadiusMin},
		{"physics.min_force_distance", c.Physics.MinForceDistance},
		{"population.spawn_interval", c.Population.SpawnInterval},
		{"telemetry.stats_window", c.Telemetry.StatsWindow},
	}
	for _, p := range positive {
		if !(p.value > 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, p.name, p.value)
		}
	}

	if c.Camera.FOVDegrees >= 180 {
		return fmt.Errorf("%w: camera.fov_degrees must be below 180, got %v", ErrInvalid, c.Camera.FOVDegrees)
	}
	if c.Microbe.MaturityHealth >= c.Microbe.ReproduceHealth {
		return fmt.Errorf("%w: microbe.maturity_health (%v) must be below reproduce_health (%v)",
			ErrInvalid, c.Microbe.MaturityHealth, c.Microbe.ReproduceHealth)
	}
	if c.Microbe.InitialHealth >= c.Microbe.ReproduceHealth {
		return fmt.Errorf("%w: microbe.initial_health (%v) must be below reproduce_health (%v)",
			ErrInvalid, c.Microbe.InitialHealth, c.Microbe.ReproduceHealth)
	}
	if c.Microbe.BoostFraction < 0 || c.Microbe.BoostFraction > 0.5 {
		return fmt.Errorf("%w: microbe.boost_fraction must be in [0, 0.5], got %v", ErrInvalid, c.Microbe.BoostFraction)
	}
	if c.Nutrient.RadiusRange < 0 {
		return fmt.Errorf("%w: nutrient.radius_range must not be negative, got %v", ErrInvalid, c.Nutrient.RadiusRange)
	}
	if c.Population.NutrientsPerMicrobe < 0 {
		return fmt.Errorf("%w: population.nutrients_per_microbe must not be negative, got %d",
			ErrInvalid, c.Population.NutrientsPerMicrobe)
	}
	if c.Nutrient.BurstMin < 1 || c.Nutrient.BurstMax < c.Nutrient.BurstMin {
		return fmt.Errorf("%w: nutrient burst range [%d,%d] is empty", ErrInvalid, c.Nutrient.BurstMin, c.Nutrient.BurstMax)
	}
	if c.Population.InitialMin < 0 || c.Population.InitialMax < c.Population.InitialMin {
		return fmt.Errorf("%w: population initial range [%d,%d] is empty",
			ErrInvalid, c.Population.InitialMin, c.Population.InitialMax)
	}
	if len(c.Population.Palette) == 0 {
		return fmt.Errorf("%w: population.palette is empty", ErrInvalid)
	}
	switch c.Noise.Kind {
	case NoiseSimplex, NoisePerlin:
	default:
		return fmt.Errorf("%w: unknown noise.kind %q", ErrInvalid, c.Noise.Kind)
	}
	return nil
}

// Apply re-validates a config edited in code and recomputes derived values.
func (c *Config) Apply() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Population.Palette = append([]RGBA(nil), c.Population.Palette...)
	return &out
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TickDuration = time.Duration(float64(time.Second) / c.Sim.TickRate)
	c.Derived.RepulsionDistance = 2 * c.Microbe.SmallSize
	c.Derived.BoostTicks = c.Ticks(c.Microbe.BoostWindow)
	c.Derived.HungerTicks = c.Ticks(c.Microbe.HungerCooldown)
	c.Derived.StarveTicks = c.Ticks(c.Microbe.StarveInterval)
	c.Derived.PulseTicks = c.Ticks(c.Microbe.PulseDuration)
	c.Derived.SpawnTicks = c.Ticks(c.Population.SpawnInterval)
	c.Derived.StatsWindowTicks = c.Ticks(c.Telemetry.StatsWindow)
}

// Ticks converts a duration in seconds to a whole number of ticks, at least 1.
func (c *Config) Ticks(seconds float64) int32 {
	n := int32(math.Round(seconds * c.Sim.TickRate))
	if n < 1 {
		n = 1
	}
	return n
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
