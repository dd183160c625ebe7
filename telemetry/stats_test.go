package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/microbes/components"
)

func TestComputeDistribution(t *testing.T) {
	values := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	mean, std, p10, p50, p90 := ComputeDistribution(values)

	if math.Abs(mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	// Population std of 1..10 is sqrt(8.25)
	if math.Abs(std-math.Sqrt(8.25)) > 0.001 {
		t.Errorf("std = %v, want %v", std, math.Sqrt(8.25))
	}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"p10", p10, 1},
		{"p50", p50, 5},
		{"p90", p90, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 0.001 {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	// Input order is preserved.
	if values[0] != 10 {
		t.Error("ComputeDistribution sorted its input in place")
	}
}

func TestComputeDistributionEdgeCases(t *testing.T) {
	mean, std, p10, p50, p90 := ComputeDistribution(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}

	mean, std, p10, p50, p90 = ComputeDistribution([]float64{42})
	if mean != 42 || std != 0 || p10 != 42 || p50 != 42 || p90 != 42 {
		t.Errorf("single value: got %v %v %v %v %v", mean, std, p10, p50, p90)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(64, 1.0/64)

	events := []Event{
		NewSpawnedEvent(1, 1, components.KindMicrobe, 0),
		NewSpawnedEvent(1, 2, components.KindMicrobe, 0),
		NewSpawnedEvent(2, 3, components.KindNutrient, 0),
		NewAteEvent(3, 1, 3, 7.5),
		NewAteEvent(4, 2, 4, 2.5),
		NewBoostedEvent(3, 1),
		NewStarvedEvent(5, 2, 20),
		NewMaturedEvent(6, 1, 4.5),
		NewReproducedEvent(7, 1),
		NewSpawnedEvent(7, 5, components.KindMicrobe, 1),
		NewSpawnedEvent(7, 6, components.KindMicrobe, 1),
		NewDiedEvent(8, 2),
		NewRemovedEvent(8, 2, components.KindMicrobe),
	}
	for _, ev := range events {
		c.Record(ev)
	}

	if c.ShouldFlush(63) {
		t.Error("window should not flush before 64 ticks")
	}
	if !c.ShouldFlush(64) {
		t.Error("window should flush at 64 ticks")
	}

	stats := c.Flush(64, Population{
		Microbes:         2,
		Nutrients:        1,
		Health:           []float64{30, 30},
		Sizes:            []float64{3, 3},
		NutrientCalories: []float64{4},
	})

	if stats.Seeded != 2 || stats.Births != 2 || stats.NutrientsSpawned != 1 {
		t.Errorf("spawn counts = seeded %d births %d nutrients %d, want 2/2/1",
			stats.Seeded, stats.Births, stats.NutrientsSpawned)
	}
	if stats.Meals != 2 || math.Abs(stats.CaloriesEaten-10) > 1e-9 {
		t.Errorf("meals = %d calories = %v, want 2/10", stats.Meals, stats.CaloriesEaten)
	}
	if stats.Boosts != 1 || stats.StarvationHits != 1 || stats.Maturations != 1 ||
		stats.Reproductions != 1 || stats.Deaths != 1 {
		t.Errorf("unexpected event counts: %+v", stats)
	}
	if stats.SimTimeSec != 1 {
		t.Errorf("sim time = %v, want 1", stats.SimTimeSec)
	}
	if stats.CaloriesAvailable != 4 || stats.HealthMean != 30 {
		t.Errorf("sampled values = %v/%v, want 4/30", stats.CaloriesAvailable, stats.HealthMean)
	}

	// Counters reset after flush.
	next := c.Flush(128, Population{})
	if next.Meals != 0 || next.Births != 0 || next.WindowStartTick != 64 {
		t.Errorf("collector not reset: %+v", next)
	}
}

func TestCollectorRestart(t *testing.T) {
	c := NewCollector(64, 1.0/64)
	c.Record(NewSpawnedEvent(0, 1, components.KindMicrobe, 0))
	c.Record(NewSpawnedEvent(0, 2, components.KindNutrient, 0))
	c.Restart(3000)

	if c.ShouldFlush(3063) {
		t.Error("restarted window flushed early")
	}
	if !c.ShouldFlush(3064) {
		t.Error("restarted window should flush 64 ticks after 3000")
	}
	stats := c.Flush(3064, Population{})
	if stats.WindowStartTick != 3000 || stats.Seeded != 0 || stats.NutrientsSpawned != 0 {
		t.Errorf("restart kept old state: start %d seeded %d nutrients %d",
			stats.WindowStartTick, stats.Seeded, stats.NutrientsSpawned)
	}
}

func TestEventTypeString(t *testing.T) {
	if EventAte.String() != "ate" || EventType(200).String() != "unknown" {
		t.Error("unexpected event names")
	}
}
