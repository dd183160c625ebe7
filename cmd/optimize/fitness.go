package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/microbes/config"
	"github.com/pthm-cable/microbes/game"
	"github.com/pthm-cable/microbes/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// A colony that stays below minViablePop for extinctionGraceSec counts as
// functionally extinct.
const (
	minViablePop       = 2
	extinctionGraceSec = 30.0
	warmupSec          = 5.0
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32                   // ticks before extinction (or maxTicks if survived)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Each seed runs on its own goroutine with its own engine.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		// Unusable parameters rank below every run that starts.
		return 0
	}

	fitness := make([]float64, len(fe.seeds))
	quality := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(cfg.Clone(), s)
			quality[idx] = computeQuality(r.windowStats, cfg.Microbe.ReproduceHealth)
			fitness[idx] = computeFitness(r.survivalTicks, quality[idx])
		}(i, seed)
	}
	wg.Wait()

	fe.mu.Lock()
	fe.lastQuality = stat.Mean(quality, nil)
	fe.mu.Unlock()

	return stat.Mean(fitness, nil)
}

// runSimulation executes a single headless run until extinction or maxTicks.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	result := &runResult{}

	g, err := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return result
	}
	defer g.Unload()

	graceTicks := cfg.Ticks(extinctionGraceSec)
	warmupTicks := cfg.Ticks(warmupSec)
	var belowTicks int32

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()

		tick := g.Tick()
		n := g.MicrobeCount()
		if n == 0 {
			result.survivalTicks = tick
			return result
		}
		if tick < warmupTicks {
			continue
		}

		if n < minViablePop {
			belowTicks++
		} else {
			belowTicks = 0
		}
		if belowTicks >= graceTicks {
			result.survivalTicks = tick
			return result
		}
	}

	result.survivalTicks = fe.maxTicks
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
// Survival dominates; quality adds up to 20% to separate configs with
// similar survival.
func computeFitness(survivalTicks int32, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightStability = 0.35
	qualityWeightHealth    = 0.35
	qualityWeightTurnover  = 0.30

	qualityWarmupWindows = 3 // skip first N windows
)

// computeQuality scores colony health in [0, 1] from window stats: a steady
// population, median health mid-way to reproduction, and regular splitting.
func computeQuality(windows []telemetry.WindowStats, reproduceHealth float64) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var healthSum, turnoverSum float64
	counts := make([]float64, 0, len(windows))

	for _, w := range windows[qualityWarmupWindows:] {
		if w.Microbes < minViablePop {
			continue
		}
		counts = append(counts, float64(w.Microbes))

		h := w.HealthP50/reproduceHealth - 0.5
		healthSum += math.Exp(-h * h / 0.0625)

		perMicrobe := float64(w.Reproductions) / float64(w.Microbes)
		turnoverSum += 1.0 - math.Exp(-perMicrobe*2)
	}

	if len(counts) == 0 {
		return 0
	}
	n := float64(len(counts))

	stabilityScore := 0.0
	if len(counts) >= 2 {
		mean, std := stat.MeanStdDev(counts, nil)
		if mean > 0 {
			c := std / mean
			stabilityScore = math.Exp(-c * c)
		}
	}

	quality := qualityWeightStability*stabilityScore +
		qualityWeightHealth*healthSum/n +
		qualityWeightTurnover*turnoverSum/n

	return math.Min(math.Max(quality, 0), 1)
}
