package sim

import (
	"slices"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/microbes/components"
	"github.com/pthm-cable/microbes/systems"
	"github.com/pthm-cable/microbes/telemetry"
)

// Step advances the world by one tick. Phases run in a fixed order:
// due timers, nutrient motion, feeding, microbe repulsion, edge avoidance
// with friction and integration, then reproduction and death.
func (e *Engine) Step() {
	e.perf.StartTick()
	e.tick++

	e.perf.StartPhase(telemetry.PhaseTimers)
	e.timers.Drain(e.tick, e.fire)

	e.perf.StartPhase(telemetry.PhaseNutrients)
	e.updateNutrients()

	e.perf.StartPhase(telemetry.PhaseFeeding)
	e.updateFeeding()

	e.perf.StartPhase(telemetry.PhaseRepulsion)
	e.updateRepulsion()

	e.perf.StartPhase(telemetry.PhaseMotion)
	e.updateMotion()

	e.perf.StartPhase(telemetry.PhaseLifecycle)
	e.resolveLifecycle()

	if e.onTick != nil {
		e.perf.StartPhase(telemetry.PhaseTelemetry)
		e.onTick(e.tick)
	}

	e.perf.EndTick()
}

// updateNutrients wanders and integrates every nutrient.
func (e *Engine) updateNutrients() {
	for _, entity := range e.nutrients {
		e.nutrientMap.Get(entity).Update(e.noise)
	}
}

// updateFeeding pulls hungry microbes towards every nutrient, boosts those in
// range and lets the first microbe close enough eat it.
//
// Eaten nutrients are only marked during the scan and removed afterwards, so
// every nutrient is visited exactly once per tick.
func (e *Engine) updateFeeding() {
	if len(e.nutrients) == 0 || len(e.microbes) == 0 {
		return
	}

	mc := &e.cfg.Microbe
	e.eaten = slices.Grow(e.eaten[:0], len(e.nutrients))[:len(e.nutrients)]
	clear(e.eaten)
	anyEaten := false

	for i, ne := range e.nutrients {
		n := e.nutrientMap.Get(ne)

		for _, me := range e.microbes {
			m, lt := e.microbeMap.Get(me)
			if !m.Hungry {
				continue
			}

			d := r2.Norm(r2.Sub(n.Pos, m.Pos))
			if d < m.Size*mc.BoostRangeFactor+n.Radius {
				e.boost(m, lt, me)
			}
			m.ApplyForce(n.Attract(m.Pos))

			if d < m.Size/2+n.Radius {
				e.feed(me, m, lt, n)
				e.eaten[i] = true
				anyEaten = true
				break
			}
		}
	}

	if !anyEaten {
		return
	}

	kept := e.nutrients[:0]
	for i, ne := range e.nutrients {
		if e.eaten[i] {
			n := e.nutrientMap.Get(ne)
			e.emit(telemetry.NewRemovedEvent(e.tick, n.ID, components.KindNutrient))
			e.world.RemoveEntity(ne)
			continue
		}
		kept = append(kept, ne)
	}
	clear(e.nutrients[len(kept):])
	e.nutrients = kept
}

// boost raises a microbe's step size and schedules the exact reversal.
func (e *Engine) boost(m *components.Microbe, lt *components.Lifetime, entity ecs.Entity) {
	inc, ok := m.Boost()
	if !ok {
		return
	}
	lt.Boosts++
	e.timers.After(e.tick, e.cfg.Derived.BoostTicks, timerEvent{kind: timerBoostEnd, entity: entity, amount: inc})
	e.emit(telemetry.NewBoostedEvent(e.tick, m.ID))
}

// feed transfers a nutrient's calories into a microbe and starts its cooldowns.
func (e *Engine) feed(entity ecs.Entity, m *components.Microbe, lt *components.Lifetime, n *components.Nutrient) {
	matured := m.Eat(n.Calories)
	lt.Meals++
	lt.CaloriesEaten += n.Calories

	e.timers.After(e.tick, e.cfg.Derived.HungerTicks, timerEvent{kind: timerHunger, entity: entity})
	e.schedulePulse(entity, m)
	e.emit(telemetry.NewAteEvent(e.tick, m.ID, n.ID, n.Calories))

	if matured {
		lt.MaturedTick = e.tick
		e.emit(telemetry.NewMaturedEvent(e.tick, m.ID, m.Size))
	}
}

// updateRepulsion pushes apart every pair of microbes closer than the
// repulsion distance. Each side gets the force along its own separation vector.
func (e *Engine) updateRepulsion() {
	pc := &e.cfg.Physics
	limit := e.cfg.Derived.RepulsionDistance

	for i, ae := range e.microbes {
		a, _ := e.microbeMap.Get(ae)
		for _, be := range e.microbes[i+1:] {
			b, _ := e.microbeMap.Get(be)
			if r2.Norm(r2.Sub(a.Pos, b.Pos)) >= limit {
				continue
			}
			a.ApplyForce(systems.Repulsion(a.Pos, b.Pos, pc.RepulsionGain, pc.MinForceDistance))
			b.ApplyForce(systems.Repulsion(b.Pos, a.Pos, pc.RepulsionGain, pc.MinForceDistance))
		}
	}
}

// updateMotion applies edge avoidance and drag, then integrates each microbe.
func (e *Engine) updateMotion() {
	pc := &e.cfg.Physics

	for _, entity := range e.microbes {
		m, _ := e.microbeMap.Get(entity)

		h, v := systems.EdgeForces(m.Pos, e.bounds, m.Size*pc.EdgeRangeFactor, pc.EdgeGain, pc.MinForceDistance)
		m.ApplyForce(h)
		m.ApplyForce(v)
		m.ApplyForce(systems.Friction(m.Vel, pc.Friction))
		m.Update(e.noise)
	}
}
