package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase names for the simulation step, in tick order.
const (
	PhaseTimers    = "timers"
	PhaseNutrients = "nutrients"
	PhaseFeeding   = "feeding"
	PhaseRepulsion = "repulsion"
	PhaseMotion    = "motion"
	PhaseLifecycle = "lifecycle"
	PhaseTelemetry = "telemetry"
)

// Phases lists every phase in tick order.
var Phases = []string{
	PhaseTimers, PhaseNutrients, PhaseFeeding, PhaseRepulsion,
	PhaseMotion, PhaseLifecycle, PhaseTelemetry,
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	// End previous phase if any
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	// End final phase
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P99TickDuration time.Duration
	TickJitter      time.Duration // Population standard deviation of tick time

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total tick time
	PhasePct map[string]float64

	// Throughput
	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	// Frame timing is always available (independent of tick samples)
	stats := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		stats.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return stats
	}

	ticks := make([]float64, p.sampleCount)
	phaseSum := make(map[string]time.Duration)
	for i, s := range p.samples[:p.sampleCount] {
		ticks[i] = float64(s.TickDuration)
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	mean, std := stat.PopMeanStdDev(ticks, nil)
	sort.Float64s(ticks)

	stats.AvgTickDuration = time.Duration(mean)
	stats.TickJitter = time.Duration(std)
	stats.MinTickDuration = time.Duration(floats.Min(ticks))
	stats.MaxTickDuration = time.Duration(floats.Max(ticks))
	stats.P99TickDuration = time.Duration(stat.Quantile(0.99, stat.Empirical, ticks, nil))

	for phase, sum := range phaseSum {
		avg := sum / time.Duration(p.sampleCount)
		stats.PhaseAvg[phase] = avg
		if mean > 0 {
			stats.PhasePct[phase] = float64(avg) / mean * 100
		}
	}

	if mean > 0 {
		stats.TicksPerSecond = float64(time.Second) / mean
	}

	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"p99_tick_us", s.P99TickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("p99_tick_us", s.P99TickDuration.Microseconds()),
		slog.Int64("jitter_us", s.TickJitter.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	P99TickUS    int64   `csv:"p99_tick_us"`
	JitterUS     int64   `csv:"jitter_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	TimersPct    float64 `csv:"timers_pct"`
	NutrientsPct float64 `csv:"nutrients_pct"`
	FeedingPct   float64 `csv:"feeding_pct"`
	RepulsionPct float64 `csv:"repulsion_pct"`
	MotionPct    float64 `csv:"motion_pct"`
	LifecyclePct float64 `csv:"lifecycle_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		P99TickUS:    s.P99TickDuration.Microseconds(),
		JitterUS:     s.TickJitter.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		TimersPct:    s.PhasePct[PhaseTimers],
		NutrientsPct: s.PhasePct[PhaseNutrients],
		FeedingPct:   s.PhasePct[PhaseFeeding],
		RepulsionPct: s.PhasePct[PhaseRepulsion],
		MotionPct:    s.PhasePct[PhaseMotion],
		LifecyclePct: s.PhasePct[PhaseLifecycle],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
