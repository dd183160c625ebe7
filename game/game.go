// Package game wires the simulation engine to the window: frame pacing,
// input, rendering and telemetry output. Headless runs use the same Game
// without ever touching raylib.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/microbes/camera"
	"github.com/pthm-cable/microbes/config"
	"github.com/pthm-cable/microbes/renderer"
	"github.com/pthm-cable/microbes/sim"
	"github.com/pthm-cable/microbes/systems"
	"github.com/pthm-cable/microbes/telemetry"
	"github.com/pthm-cable/microbes/ui"
)

// bookmarkHistory is how many stats windows the bookmark detector remembers.
const bookmarkHistory = 12

// Options configures a Game.
type Options struct {
	Config         *config.Config // nil = built-in defaults
	Seed           int64          // 0 = config seed, then time-based
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	SnapshotDir    string
	OutputDir      string
	LoadSnapshot   string // resume from this snapshot instead of seeding
	Headless       bool
	StepsPerUpdate int
	StatsCallback  func(telemetry.WindowStats) // called on every window flush
}

// Game holds the engine plus everything needed to show and record it.
type Game struct {
	cfg    *config.Config
	engine *sim.Engine
	pacer  *sim.Pacer
	cam    *camera.Camera
	seed   int64
	uiRNG  *rand.Rand

	// Views refreshed once per frame
	microbes  []sim.MicrobeView
	nutrients []sim.NutrientView

	// Rendering (nil when headless)
	scene     *renderer.Scene
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	inspector *ui.Inspector
	perfPanel *ui.PerfPanel
	overlays  *ui.OverlayRegistry

	// State
	paused         bool
	selected       uint32
	headless       bool
	stepsPerUpdate int
	width, height  int32

	// Telemetry
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	snapshotDir      string
	statsCallback    func(telemetry.WindowStats)
}

// NewGameWithOptions builds a game, either seeded fresh or resumed from a snapshot.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(""); err != nil {
			return nil, err
		}
	}

	var snap *telemetry.Snapshot
	if opts.LoadSnapshot != "" {
		var err error
		if snap, err = telemetry.LoadSnapshot(opts.LoadSnapshot); err != nil {
			return nil, err
		}
	}

	seed := resolveSeed(opts.Seed, cfg.Sim.Seed, snap)

	cam := camera.New(float64(cfg.Screen.Width), float64(cfg.Screen.Height), cfg.Camera.FOVDegrees, cfg.Camera.Distance)
	bounds := systems.NewBounds(cam.Bounds())
	if snap != nil {
		bounds = systems.NewBounds(snap.Bounds.Top, snap.Bounds.Bottom, snap.Bounds.Left, snap.Bounds.Right)
	}

	noise, err := systems.NewNoise(cfg.Noise, seed)
	if err != nil {
		return nil, err
	}

	statsWindowSec := opts.StatsWindowSec
	if statsWindowSec <= 0 {
		statsWindowSec = cfg.Telemetry.StatsWindow
	}

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	g := &Game{
		cfg:              cfg,
		engine:           sim.New(cfg, bounds, noise, rand.New(rand.NewSource(seed))),
		pacer:            sim.NewPacer(cfg.Derived.TickDuration),
		cam:              cam,
		seed:             seed,
		uiRNG:            rand.New(rand.NewSource(seed + 1)),
		headless:         opts.Headless,
		stepsPerUpdate:   stepsPerUpdate,
		width:            int32(cfg.Screen.Width),
		height:           int32(cfg.Screen.Height),
		collector:        telemetry.NewCollector(cfg.Ticks(statsWindowSec), 1/cfg.Sim.TickRate),
		bookmarkDetector: telemetry.NewBookmarkDetector(bookmarkHistory),
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
		statsCallback:    opts.StatsCallback,
	}

	g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	g.engine.Subscribe(g.collector.Record)
	g.engine.OnTick(g.flushTelemetry)

	if !g.headless {
		g.initRendering()
		g.engine.Subscribe(g.scene.HandleEvent)
	}

	if snap != nil {
		if err := g.engine.Restore(snap); err != nil {
			g.outputManager.Close()
			return nil, fmt.Errorf("resume from %s: %w", opts.LoadSnapshot, err)
		}
		g.collector.Restart(snap.Tick)
		slog.Info("snapshot_loaded", "path", opts.LoadSnapshot, "tick", snap.Tick, "microbes", len(snap.Microbes))
	} else if err := g.engine.Populate(); err != nil {
		g.outputManager.Close()
		return nil, err
	}
	g.engine.StartSpawner()
	g.refreshViews()

	return g, nil
}

// resolveSeed picks the RNG seed: a snapshot's seed wins, then the option,
// then the config, then the clock.
func resolveSeed(optSeed, cfgSeed int64, snap *telemetry.Snapshot) int64 {
	switch {
	case snap != nil && snap.RNGSeed != 0:
		return snap.RNGSeed
	case optSeed != 0:
		return optSeed
	case cfgSeed != 0:
		return cfgSeed
	default:
		return time.Now().UnixNano()
	}
}

// initRendering creates the scene and UI panels. No raylib call is made
// here, so it is safe before the window exists.
func (g *Game) initRendering() {
	g.scene = renderer.NewScene(g.cfg, g.width, g.height, g.seed)
	g.hud = ui.NewHUD()
	g.controls = ui.NewControlsPanel(g.width-230, 10, 220)
	g.inspector = ui.NewInspector(10, 100, 220, &g.cfg.Microbe)
	g.perfPanel = ui.NewPerfPanel(16, g.height-170)
	g.overlays = ui.NewOverlayRegistry()
}

// Update runs one frame: input, the ticks owed for the elapsed wall time,
// and view refresh.
func (g *Game) Update() {
	g.handleInput()

	frame := float64(rl.GetFrameTime())
	if g.paused {
		frame = 0
	} else {
		g.advance(time.Duration(frame * float64(time.Second)))
	}

	g.refreshViews()
	g.scene.Update(frame)
	g.engine.Perf().RecordFrame()
}

// UpdateHeadless runs StepsPerUpdate ticks without pacing or rendering.
func (g *Game) UpdateHeadless() {
	for range g.stepsPerUpdate {
		g.engine.Step()
	}
}

// UpdateRealtime runs the ticks owed for elapsed wall time; used by
// headless runs paced at the configured tick rate.
func (g *Game) UpdateRealtime(elapsed time.Duration) {
	g.advance(elapsed)
}

func (g *Game) advance(elapsed time.Duration) {
	for range g.pacer.Advance(elapsed) {
		g.engine.Step()
	}
}

// refreshViews copies the engine state the renderer and UI read this frame.
func (g *Game) refreshViews() {
	g.microbes = g.engine.MicrobeViews(g.microbes[:0])
	g.nutrients = g.engine.NutrientViews(g.nutrients[:0])
	if g.scene != nil {
		g.scene.Sync(g.microbes, g.nutrients)
	}
	if g.selected != 0 && g.selectedView() == nil {
		g.selected = 0
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.engine.Tick()
}

// MicrobeCount returns the number of living microbes.
func (g *Game) MicrobeCount() int {
	return g.engine.MicrobeCount()
}

// NutrientCount returns the number of uneaten nutrients.
func (g *Game) NutrientCount() int {
	return g.engine.NutrientCount()
}

// Seed returns the RNG seed the run was built with.
func (g *Game) Seed() int64 {
	return g.seed
}

// Unload flushes pending lifetimes and closes output files.
func (g *Game) Unload() {
	g.writeLifetimes()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
