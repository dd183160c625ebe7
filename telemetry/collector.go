package telemetry

import "github.com/pthm-cable/microbes/components"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	seeded           int
	births           int
	deaths           int
	reproductions    int
	maturations      int
	meals            int
	caloriesEaten    float64
	boosts           int
	starvationHits   int
	nutrientsSpawned int
}

// NewCollector creates a new stats collector.
// windowTicks: how many ticks each stats window lasts
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowTicks int32, dt float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: windowTicks,
		dt:                  dt,
	}
}

// Record counts one event.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventSpawned:
		switch {
		case ev.Kind == components.KindNutrient:
			c.nutrientsSpawned++
		case ev.TargetID != 0:
			c.births++
		default:
			c.seeded++
		}
	case EventDied:
		c.deaths++
	case EventReproduced:
		c.reproductions++
	case EventMatured:
		c.maturations++
	case EventAte:
		c.meals++
		c.caloriesEaten += ev.Amount
	case EventBoosted:
		c.boosts++
	case EventStarved:
		c.starvationHits++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Population is the state sampled at window end.
type Population struct {
	Microbes         int
	Nutrients        int
	Mature           int
	Hungry           int
	Health           []float64
	Sizes            []float64
	Generations      []float64
	NutrientCalories []float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, pop Population) WindowStats {
	healthMean, healthStd, healthP10, healthP50, healthP90 := ComputeDistribution(pop.Health)
	sizeMean, _, _, _, _ := ComputeDistribution(pop.Sizes)
	_, _, _, _, genP90 := ComputeDistribution(pop.Generations)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Microbes:  pop.Microbes,
		Nutrients: pop.Nutrients,
		Mature:    pop.Mature,
		Hungry:    pop.Hungry,

		Seeded:           c.seeded,
		Births:           c.births,
		Deaths:           c.deaths,
		Reproductions:    c.reproductions,
		Maturations:      c.maturations,
		Meals:            c.meals,
		CaloriesEaten:    c.caloriesEaten,
		Boosts:           c.boosts,
		StarvationHits:   c.starvationHits,
		NutrientsSpawned: c.nutrientsSpawned,

		HealthMean: healthMean,
		HealthStd:  healthStd,
		HealthP10:  healthP10,
		HealthP50:  healthP50,
		HealthP90:  healthP90,
		SizeMean:   sizeMean,

		CaloriesAvailable: SumCalories(pop.NutrientCalories),
		GenerationP90:     genP90,
	}

	c.Restart(currentTick)
	return stats
}

// Restart drops the counts so far and opens a fresh window at tick.
// A run resumed from a snapshot restarts at the snapshot tick, so the
// restored entities are not counted as spawns.
func (c *Collector) Restart(tick int32) {
	c.windowStartTick = tick
	c.seeded = 0
	c.births = 0
	c.deaths = 0
	c.reproductions = 0
	c.maturations = 0
	c.meals = 0
	c.caloriesEaten = 0
	c.boosts = 0
	c.starvationHits = 0
	c.nutrientsSpawned = 0
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
