// Command optimize runs a CMA-ES search over microbe and nutrient parameters
// for configurations that keep a colony alive and steady.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/microbes/config"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 200000, "Maximum simulation duration in ticks (cap)")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if err := run(*configPath, *outputDir, int32(*maxTicks), *seeds, *maxEvals, *population); err != nil {
		slog.Error("optimization failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, outputDir string, maxTicks int32, seedCount, maxEvals, popSize int) error {
	if outputDir == "" {
		return fmt.Errorf("-output is required")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Search starts from the loaded config, not the built-in defaults
	params := NewParamVector()
	for i, v := range params.Clamp(params.ExtractFromConfig(baseCfg)) {
		params.Specs[i].Default = v
	}

	evalSeeds := make([]int64, seedCount)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, maxTicks, evalSeeds, baseCfg)

	evalLog, err := newEvalLog(filepath.Join(outputDir, "optimize_log.csv"), params)
	if err != nil {
		return err
	}
	defer evalLog.Close()

	dim := params.Dim()
	if popSize == 0 {
		popSize = 4 + int(3*math.Log(float64(dim)))
	}

	tracker := &progress{
		params:   params,
		eval:     evaluator,
		log:      evalLog,
		maxEvals: maxEvals,
		tickRate: baseCfg.Sim.TickRate,
		best:     math.Inf(1),
		start:    time.Now(),
	}

	slog.Info("starting_optimization",
		"params", dim,
		"population", popSize,
		"max_evals", maxEvals,
		"seeds", seedCount,
		"max_ticks", maxTicks,
	)

	result, err := optimize.Minimize(
		optimize.Problem{Func: tracker.evaluate},
		params.Normalize(params.DefaultVector()),
		&optimize.Settings{FuncEvaluations: maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize},
	)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}

	bestParams := tracker.bestParams
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		return fmt.Errorf("no evaluations completed")
	}

	attrs := []any{"evals", tracker.evals, "elapsed", time.Since(tracker.start).Round(time.Second), "fitness", tracker.best}
	for i, spec := range params.Specs {
		attrs = append(attrs, spec.Path, bestParams[i])
	}
	slog.Info("optimization_complete", attrs...)

	bestCfg := baseCfg.Clone()
	if err := params.ApplyToConfig(bestCfg, bestParams); err != nil {
		return fmt.Errorf("best parameters are invalid: %w", err)
	}
	path := filepath.Join(outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(path); err != nil {
		return err
	}
	slog.Info("best_config_saved", "path", path)
	return nil
}

// progress wraps the evaluator to log each evaluation and keep the best
// parameters seen, which may come from any generation.
type progress struct {
	params   *ParamVector
	eval     *FitnessEvaluator
	log      *evalLog
	maxEvals int
	tickRate float64

	evals      int
	best       float64
	bestParams []float64
	start      time.Time
}

func (p *progress) evaluate(x []float64) float64 {
	raw := p.params.Clamp(p.params.Denormalize(x))
	fitness := p.eval.Evaluate(raw)
	p.evals++

	if fitness < p.best {
		p.best = fitness
		p.bestParams = raw
	}
	if err := p.log.Write(p.evals, fitness, raw); err != nil {
		slog.Error("failed to write eval log", "error", err)
	}

	// fitness = -(survival * (1 + 0.2*quality))
	quality := p.eval.LastQuality()
	survival := -fitness / (1 + 0.2*quality) / p.tickRate

	elapsed := time.Since(p.start)
	eta := time.Duration(p.maxEvals-p.evals) * (elapsed / time.Duration(p.evals))
	slog.Info("eval",
		"n", p.evals,
		"of", p.maxEvals,
		"survived_sec", math.Round(survival),
		"quality", quality,
		"best", p.best,
		"elapsed", elapsed.Round(time.Second),
		"eta", eta.Round(time.Second),
	)
	return fitness
}

// evalLog is optimize_log.csv: one row per evaluation with the clamped
// parameter values actually simulated.
type evalLog struct {
	file *os.File
	w    *csv.Writer
}

func newEvalLog(path string, params *ParamVector) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating eval log: %w", err)
	}
	l := &evalLog{file: f, w: csv.NewWriter(f)}

	header := []string{"eval", "fitness"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := l.w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing eval log header: %w", err)
	}
	return l, nil
}

// Write appends one evaluation and flushes so partial runs stay readable.
func (l *evalLog) Write(eval int, fitness float64, values []float64) error {
	row := make([]string, 0, len(values)+2)
	row = append(row, strconv.Itoa(eval), strconv.FormatFloat(fitness, 'f', 6, 64))
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	if err := l.w.Write(row); err != nil {
		return err
	}
	l.w.Flush()
	return l.w.Error()
}

// Close flushes and closes the file.
func (l *evalLog) Close() error {
	l.w.Flush()
	return l.file.Close()
}
