package sim

import (
	"log/slog"
	"slices"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/microbes/components"
	"github.com/pthm-cable/microbes/systems"
	"github.com/pthm-cable/microbes/telemetry"
)

type lifecycleOutcome struct {
	entity    ecs.Entity
	reproduce bool
}

// resolveLifecycle splits microbes at the reproduction threshold and removes
// starved ones. Outcomes are collected first so creation and removal never
// happen while another microbe is being examined.
func (e *Engine) resolveLifecycle() {
	e.pending = e.pending[:0]
	for _, entity := range e.microbes {
		m, _ := e.microbeMap.Get(entity)
		switch {
		case m.ShouldReproduce():
			e.pending = append(e.pending, lifecycleOutcome{entity: entity, reproduce: true})
		case m.Starved():
			e.pending = append(e.pending, lifecycleOutcome{entity: entity})
		}
	}
	if len(e.pending) == 0 {
		return
	}

	for _, out := range e.pending {
		if out.reproduce {
			e.reproduce(out.entity)
		} else {
			e.kill(out.entity)
		}
	}

	e.microbes = slices.DeleteFunc(e.microbes, func(entity ecs.Entity) bool {
		return !e.world.Alive(entity)
	})
}

// reproduce replaces a parent with two small offspring at its position and colour.
func (e *Engine) reproduce(parent ecs.Entity) {
	m, lt := e.microbeMap.Get(parent)
	pos, color, id := m.Pos, m.Color, m.ID
	child := components.Lifetime{
		BirthTick:   e.tick,
		MaturedTick: -1,
		Generation:  lt.Generation + 1,
		ParentID:    id,
	}

	e.emit(telemetry.NewReproducedEvent(e.tick, id))
	e.remove(parent, telemetry.ExitReproduced)

	for range 2 {
		// Small size is validated by config, so this only fails on a corrupt config.
		if _, err := e.addMicrobe(0, pos, e.cfg.Microbe.SmallSize, color, child); err != nil {
			slog.Error("offspring_failed", "parent", id, "error", err)
		}
	}
	slog.Debug("microbe_reproduced", "id", id, "generation", child.Generation, "tick", e.tick)
}

// kill removes a starved microbe.
func (e *Engine) kill(entity ecs.Entity) {
	m, _ := e.microbeMap.Get(entity)
	id := m.ID
	e.emit(telemetry.NewDiedEvent(e.tick, id))
	e.remove(entity, telemetry.ExitDied)
	slog.Debug("microbe_died", "id", id, "tick", e.tick)
}

// remove retires a microbe: cancels its timers exactly once, records its
// lifetime and deletes the entity. The iteration slice is compacted by the caller.
func (e *Engine) remove(entity ecs.Entity, exit string) {
	m, lt := e.microbeMap.Get(entity)

	if timer, ok := m.Die(); ok {
		e.timers.Cancel(systems.TimerID(timer))
	}
	if m.PulseTimer != 0 {
		e.timers.Cancel(systems.TimerID(m.PulseTimer))
		m.PulseTimer = 0
	}

	e.finished = append(e.finished, telemetry.NewLifetimeRecord(m.ID, *lt, e.tick, 1/e.cfg.Sim.TickRate, exit))
	e.emit(telemetry.NewRemovedEvent(e.tick, m.ID, components.KindMicrobe))
	e.world.RemoveEntity(entity)
}

// TakeLifetimes returns the lifetimes that ended since the last call.
func (e *Engine) TakeLifetimes() []telemetry.LifetimeRecord {
	out := e.finished
	e.finished = nil
	return out
}

// Populate seeds a random number of microbes at uniform arena positions,
// each coloured from the palette.
func (e *Engine) Populate() error {
	pc := &e.cfg.Population
	n := pc.InitialMin + e.rng.Intn(pc.InitialMax-pc.InitialMin+1)

	for range n {
		pos := e.bounds.RandomPoint(e.rng)
		color := components.ColorFrom(pc.Palette[e.rng.Intn(len(pc.Palette))])
		if _, err := e.AddMicrobe(pos, color); err != nil {
			return err
		}
	}

	slog.Info("population_seeded", "microbes", n)
	return nil
}

// SpawnBurst scatters a handful of nutrients around at and returns how many
// were created. Used by the periodic spawner and by click-to-feed.
func (e *Engine) SpawnBurst(at r2.Vec) (int, error) {
	nc := &e.cfg.Nutrient
	count := nc.BurstMin + e.rng.Intn(nc.BurstMax-nc.BurstMin+1)

	for i := range count {
		pos := r2.Vec{
			X: at.X + (e.rng.Float64()*2-1)*nc.BurstJitter,
			Y: at.Y + (e.rng.Float64()*2-1)*nc.BurstJitter,
		}
		radius := nc.RadiusMin + e.rng.Float64()*nc.RadiusRange
		calories := e.rng.Float64() * nc.MaxCalories
		if _, err := e.AddNutrient(pos, calories, radius); err != nil {
			return i, err
		}
	}

	slog.Debug("nutrient_burst", "x", at.X, "y", at.Y, "count", count, "tick", e.tick)
	return count, nil
}

// spawnIfScarce tops up food when there are fewer nutrients than the
// per-microbe quota.
func (e *Engine) spawnIfScarce() {
	quota := len(e.microbes) * e.cfg.Population.NutrientsPerMicrobe
	if len(e.nutrients) >= quota {
		return
	}
	if _, err := e.SpawnBurst(e.bounds.RandomPoint(e.rng)); err != nil {
		slog.Error("nutrient_spawn_failed", "error", err)
	}
}
