// Package sim is the microbe/nutrient world: entity storage, the fixed-order
// tick, scheduled per-microbe transitions and lifecycle resolution.
//
// An Engine is single-threaded. Timed effects are queued on a tick-indexed
// scheduler and applied at the start of each Step, never concurrently with it.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/microbes/components"
	"github.com/pthm-cable/microbes/config"
	"github.com/pthm-cable/microbes/systems"
	"github.com/pthm-cable/microbes/telemetry"
)

// Listener receives lifecycle and interaction events synchronously during Step.
// Listeners must not call back into the Engine.
type Listener func(telemetry.Event)

// Engine owns every microbe and nutrient and advances them one tick at a time.
type Engine struct {
	cfg    *config.Config
	rng    *rand.Rand
	noise  systems.Noise
	bounds systems.Bounds

	world          *ecs.World
	microbeMap     *ecs.Map2[components.Microbe, components.Lifetime]
	nutrientMap    *ecs.Map1[components.Nutrient]
	microbeFilter  *ecs.Filter2[components.Microbe, components.Lifetime]
	nutrientFilter *ecs.Filter1[components.Nutrient]

	// Iteration order. Entities are appended on creation and compacted after
	// removal so the tick visits them in creation order.
	microbes  []ecs.Entity
	nutrients []ecs.Entity

	timers     *systems.Scheduler[timerEvent]
	spawnTimer systems.TimerID

	tick   int32
	nextID uint32

	perf      *telemetry.PerfCollector
	listeners []Listener
	onTick    func(tick int32)

	// Lives that ended since the last TakeLifetimes.
	finished []telemetry.LifetimeRecord

	// Scratch
	eaten   []bool
	pending []lifecycleOutcome
}

// New creates an empty engine over bounds. Call Populate and StartSpawner to
// get the default run; tests usually add entities by hand instead.
func New(cfg *config.Config, bounds systems.Bounds, noise systems.Noise, rng *rand.Rand) *Engine {
	world := ecs.NewWorld()

	return &Engine{
		cfg:            cfg,
		rng:            rng,
		noise:          noise,
		bounds:         bounds,
		world:          world,
		microbeMap:     ecs.NewMap2[components.Microbe, components.Lifetime](world),
		nutrientMap:    ecs.NewMap1[components.Nutrient](world),
		microbeFilter:  ecs.NewFilter2[components.Microbe, components.Lifetime](world),
		nutrientFilter: ecs.NewFilter1[components.Nutrient](world),
		timers:         systems.NewScheduler[timerEvent](),
		nextID:         1,
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
	}
}

// Subscribe registers a listener for engine events.
func (e *Engine) Subscribe(l Listener) {
	e.listeners = append(e.listeners, l)
}

// OnTick sets a hook that runs at the end of every Step, timed as the
// telemetry phase.
func (e *Engine) OnTick(fn func(tick int32)) {
	e.onTick = fn
}

func (e *Engine) emit(ev telemetry.Event) {
	for _, l := range e.listeners {
		l(ev)
	}
}

// Tick returns the number of completed steps.
func (e *Engine) Tick() int32 { return e.tick }

// Bounds returns the arena.
func (e *Engine) Bounds() systems.Bounds { return e.bounds }

// Config returns the engine configuration.
func (e *Engine) Config() *config.Config { return e.cfg }

// Perf returns the per-phase tick timer.
func (e *Engine) Perf() *telemetry.PerfCollector { return e.perf }

// MicrobeCount returns the number of living microbes.
func (e *Engine) MicrobeCount() int { return len(e.microbes) }

// NutrientCount returns the number of nutrients.
func (e *Engine) NutrientCount() int { return len(e.nutrients) }

// Microbes returns the living microbe entities in iteration order.
func (e *Engine) Microbes() []ecs.Entity {
	return append([]ecs.Entity(nil), e.microbes...)
}

// Nutrients returns the nutrient entities in iteration order.
func (e *Engine) Nutrients() []ecs.Entity {
	return append([]ecs.Entity(nil), e.nutrients...)
}

// Alive reports whether entity still exists.
func (e *Engine) Alive(entity ecs.Entity) bool {
	return e.world.Alive(entity)
}

// Microbe resolves a microbe entity. The pointers are valid until the next
// entity is created or removed.
func (e *Engine) Microbe(entity ecs.Entity) (*components.Microbe, *components.Lifetime) {
	if !e.world.Alive(entity) {
		panic(fmt.Sprintf("sim: microbe entity %v is not alive", entity))
	}
	return e.microbeMap.Get(entity)
}

// Nutrient resolves a nutrient entity, with the same validity rules as Microbe.
func (e *Engine) Nutrient(entity ecs.Entity) *components.Nutrient {
	if !e.world.Alive(entity) {
		panic(fmt.Sprintf("sim: nutrient entity %v is not alive", entity))
	}
	return e.nutrientMap.Get(entity)
}

// AddMicrobe creates a seeded (parentless) microbe of the small size.
func (e *Engine) AddMicrobe(pos r2.Vec, color components.Color) (ecs.Entity, error) {
	return e.addMicrobe(0, pos, e.cfg.Microbe.SmallSize, color, components.Lifetime{
		BirthTick:   e.tick,
		MaturedTick: -1,
	})
}

// addMicrobe creates a microbe with the given id, or a fresh one when id is 0.
func (e *Engine) addMicrobe(id uint32, pos r2.Vec, size float64, color components.Color, lt components.Lifetime) (ecs.Entity, error) {
	m, err := components.NewMicrobe(pos, size, color, &e.cfg.Microbe, e.rng)
	if err != nil {
		return ecs.Entity{}, err
	}
	m.ID = e.allocID(id)

	entity := e.microbeMap.NewEntity(&m, &lt)
	e.microbes = append(e.microbes, entity)

	// Starvation runs for the whole life and is cancelled once, on removal.
	timer := e.timers.Every(e.tick, e.cfg.Derived.StarveTicks, timerEvent{kind: timerStarve, entity: entity})
	mp, _ := e.microbeMap.Get(entity)
	mp.StarveTimer = uint64(timer)

	e.emit(telemetry.NewSpawnedEvent(e.tick, m.ID, components.KindMicrobe, lt.ParentID))
	return entity, nil
}

// AddNutrient creates a nutrient.
func (e *Engine) AddNutrient(pos r2.Vec, calories, radius float64) (ecs.Entity, error) {
	return e.addNutrient(0, pos, calories, radius)
}

func (e *Engine) addNutrient(id uint32, pos r2.Vec, calories, radius float64) (ecs.Entity, error) {
	n, err := components.NewNutrient(pos, calories, radius, &e.cfg.Nutrient, e.rng)
	if err != nil {
		return ecs.Entity{}, err
	}
	n.ID = e.allocID(id)

	entity := e.nutrientMap.NewEntity(&n)
	e.nutrients = append(e.nutrients, entity)

	e.emit(telemetry.NewSpawnedEvent(e.tick, n.ID, components.KindNutrient, 0))
	return entity, nil
}

// allocID returns id, or the next free ID when id is 0. IDs are never reused.
func (e *Engine) allocID(id uint32) uint32 {
	if id == 0 {
		id = e.nextID
	}
	e.nextID = max(e.nextID, id+1)
	return id
}
