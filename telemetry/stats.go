package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	Microbes  int `csv:"microbes"`
	Nutrients int `csv:"nutrients"`
	Mature    int `csv:"mature"`
	Hungry    int `csv:"hungry"`

	// Events during window
	Seeded           int     `csv:"seeded"`
	Births           int     `csv:"births"`
	Deaths           int     `csv:"deaths"`
	Reproductions    int     `csv:"reproductions"`
	Maturations      int     `csv:"maturations"`
	Meals            int     `csv:"meals"`
	CaloriesEaten    float64 `csv:"calories_eaten"`
	Boosts           int     `csv:"boosts"`
	StarvationHits   int     `csv:"starvation_hits"`
	NutrientsSpawned int     `csv:"nutrients_spawned"`

	// Health distribution (sampled at window end)
	HealthMean float64 `csv:"health_mean"`
	HealthStd  float64 `csv:"health_std"`
	HealthP10  float64 `csv:"health_p10"`
	HealthP50  float64 `csv:"health_p50"`
	HealthP90  float64 `csv:"health_p90"`

	SizeMean          float64 `csv:"size_mean"`
	CaloriesAvailable float64 `csv:"calories_available"` // Sum over uneaten nutrients
	GenerationP90     float64 `csv:"generation_p90"`
}

// ComputeDistribution returns the population mean and standard deviation and
// the 10th, 50th and 90th percentiles of values. Empty input yields zeros.
// Percentiles are empirical: each is a member of values.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	// Quantile requires sorted input
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p10, p50, p90
}

// SumCalories totals calorie values.
func SumCalories(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Sum(values)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("microbes", s.Microbes),
		slog.Int("nutrients", s.Nutrients),
		slog.Int("mature", s.Mature),
		slog.Int("hungry", s.Hungry),
		slog.Int("seeded", s.Seeded),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("reproductions", s.Reproductions),
		slog.Int("maturations", s.Maturations),
		slog.Int("meals", s.Meals),
		slog.Float64("calories_eaten", s.CaloriesEaten),
		slog.Int("boosts", s.Boosts),
		slog.Int("starvation_hits", s.StarvationHits),
		slog.Int("nutrients_spawned", s.NutrientsSpawned),
		slog.Float64("health_mean", s.HealthMean),
		slog.Float64("health_std", s.HealthStd),
		slog.Float64("health_p10", s.HealthP10),
		slog.Float64("health_p50", s.HealthP50),
		slog.Float64("health_p90", s.HealthP90),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("calories_available", s.CaloriesAvailable),
		slog.Float64("generation_p90", s.GenerationP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
