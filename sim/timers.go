package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/microbes/components"
	"github.com/pthm-cable/microbes/systems"
	"github.com/pthm-cable/microbes/telemetry"
)

type timerKind uint8

const (
	timerStarve timerKind = iota
	timerBoostEnd
	timerHunger
	timerBrightness
	timerSpawn
)

// timerEvent is a deferred effect. Microbe-bound events name their entity and
// are dropped if it has been removed by the time they fire.
type timerEvent struct {
	kind   timerKind
	entity ecs.Entity
	amount float64 // boost increment to revert
}

// fire applies one due timer. Runs during the timers phase only.
func (e *Engine) fire(_ systems.TimerID, ev timerEvent) {
	if ev.kind == timerSpawn {
		e.spawnIfScarce()
		return
	}

	if !e.world.Alive(ev.entity) {
		return
	}
	m, _ := e.microbeMap.Get(ev.entity)
	if !m.Alive {
		return
	}

	switch ev.kind {
	case timerStarve:
		m.Starve()
		e.schedulePulse(ev.entity, m)
		e.emit(telemetry.NewStarvedEvent(e.tick, m.ID, m.Health))
	case timerBoostEnd:
		m.EndBoost(ev.amount)
	case timerHunger:
		m.SetHungry()
	case timerBrightness:
		m.PulseTimer = 0
		m.RestoreBrightness()
	}
}

// schedulePulse restores brightness after the pulse duration. A newer pulse
// replaces a pending restore.
func (e *Engine) schedulePulse(entity ecs.Entity, m *components.Microbe) {
	if m.PulseTimer != 0 {
		e.timers.Cancel(systems.TimerID(m.PulseTimer))
	}
	id := e.timers.After(e.tick, e.cfg.Derived.PulseTicks, timerEvent{kind: timerBrightness, entity: entity})
	m.PulseTimer = uint64(id)
}

// StartSpawner begins the periodic nutrient top-up. Calling it twice is a no-op.
func (e *Engine) StartSpawner() {
	if e.spawnTimer != 0 {
		return
	}
	e.spawnTimer = e.timers.Every(e.tick, e.cfg.Derived.SpawnTicks, timerEvent{kind: timerSpawn})
}

// StopSpawner cancels the periodic nutrient top-up.
func (e *Engine) StopSpawner() {
	if e.spawnTimer == 0 {
		return
	}
	e.timers.Cancel(e.spawnTimer)
	e.spawnTimer = 0
}

// PendingTimers returns the number of scheduled effects, including the spawner.
func (e *Engine) PendingTimers() int {
	return e.timers.Pending()
}
