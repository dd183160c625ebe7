package sim

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/microbes/components"
	"github.com/pthm-cable/microbes/systems"
	"github.com/pthm-cable/microbes/telemetry"
)

// ErrNotEmpty is returned when restoring into an engine that already has entities.
var ErrNotEmpty = errors.New("engine already has entities")

// MicrobeView is the per-tick state the presentation layer reads.
type MicrobeView struct {
	ID         uint32
	Pos        r2.Vec
	Vel        r2.Vec
	Size       float64
	Color      components.Color
	Brightness float64
	Heading    float64
	Health     float64
	Mature     bool
	Boosted    bool
	Hungry     bool
}

// NutrientView is the per-tick nutrient state the presentation layer reads.
type NutrientView struct {
	ID       uint32
	Pos      r2.Vec
	Radius   float64
	Calories float64
}

// MicrobeViews appends a view of every living microbe to dst.
func (e *Engine) MicrobeViews(dst []MicrobeView) []MicrobeView {
	for _, entity := range e.microbes {
		m, _ := e.microbeMap.Get(entity)
		dst = append(dst, MicrobeView{
			ID:         m.ID,
			Pos:        m.Pos,
			Vel:        m.Vel,
			Size:       m.Size,
			Color:      m.Color,
			Brightness: m.Brightness,
			Heading:    m.Heading,
			Health:     m.Health,
			Mature:     m.Mature,
			Boosted:    m.Boosted(),
			Hungry:     m.Hungry,
		})
	}
	return dst
}

// NutrientViews appends a view of every nutrient to dst.
func (e *Engine) NutrientViews(dst []NutrientView) []NutrientView {
	for _, entity := range e.nutrients {
		n := e.nutrientMap.Get(entity)
		dst = append(dst, NutrientView{ID: n.ID, Pos: n.Pos, Radius: n.Radius, Calories: n.Calories})
	}
	return dst
}

// Population samples the counts and distributions reported at window end.
func (e *Engine) Population() telemetry.Population {
	pop := telemetry.Population{}

	query := e.microbeFilter.Query()
	for query.Next() {
		m, lt := query.Get()
		pop.Microbes++
		if m.Mature {
			pop.Mature++
		}
		if m.Hungry {
			pop.Hungry++
		}
		pop.Health = append(pop.Health, m.Health)
		pop.Sizes = append(pop.Sizes, m.Size)
		pop.Generations = append(pop.Generations, float64(lt.Generation))
	}

	nq := e.nutrientFilter.Query()
	for nq.Next() {
		n := nq.Get()
		pop.Nutrients++
		pop.NutrientCalories = append(pop.NutrientCalories, n.Calories)
	}

	return pop
}

// Snapshot captures the state of every entity, including each microbe's
// starvation phase.
func (e *Engine) Snapshot(seed int64, bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	s := &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		RNGSeed: seed,
		Bounds: telemetry.BoundsState{
			Top:    e.bounds.Top,
			Bottom: e.bounds.Bottom,
			Left:   e.bounds.Left,
			Right:  e.bounds.Right,
		},
		Tick:      e.tick,
		Microbes:  make([]telemetry.MicrobeState, 0, len(e.microbes)),
		Nutrients: make([]telemetry.NutrientState, 0, len(e.nutrients)),
		Bookmark:  bookmark,
	}

	for _, entity := range e.microbes {
		m, lt := e.microbeMap.Get(entity)
		var starveIn int32
		if due, ok := e.timers.Due(systems.TimerID(m.StarveTimer)); ok {
			starveIn = due - e.tick
		}
		s.Microbes = append(s.Microbes, telemetry.MicrobeState{
			ID:         m.ID,
			X:          m.Pos.X,
			Y:          m.Pos.Y,
			VelX:       m.Vel.X,
			VelY:       m.Vel.Y,
			Heading:    m.Heading,
			SeedX:      m.SeedX,
			SeedY:      m.SeedY,
			Health:     m.Health,
			Size:       m.Size,
			StepSize:   m.StepSize,
			Hungry:     m.Hungry,
			Mature:     m.Mature,
			Boosted:    m.Boosted(),
			Brightness: m.Brightness,
			Color:      [4]float32{m.Color.R, m.Color.G, m.Color.B, m.Color.A},
			StarveIn:   starveIn,
			Lifetime:   telemetry.LifetimeToJSON(lt),
		})
	}

	for _, entity := range e.nutrients {
		n := e.nutrientMap.Get(entity)
		s.Nutrients = append(s.Nutrients, telemetry.NutrientState{
			ID:       n.ID,
			X:        n.Pos.X,
			Y:        n.Pos.Y,
			VelX:     n.Vel.X,
			VelY:     n.Vel.Y,
			SeedX:    n.SeedX,
			SeedY:    n.SeedY,
			Calories: n.Calories,
			Radius:   n.Radius,
		})
	}

	return s
}

// Restore rebuilds the entities of a snapshot into an empty engine.
// Starvation timers resume at their stored phase. Other cooldowns are not
// stored and restart from the restored tick: a non-hungry microbe gets a
// fresh hunger cooldown, a boosted one a fresh boost window and a pulsed one
// a fresh pulse.
func (e *Engine) Restore(s *telemetry.Snapshot) error {
	if len(e.microbes) > 0 || len(e.nutrients) > 0 {
		return ErrNotEmpty
	}
	e.tick = s.Tick

	for _, ms := range s.Microbes {
		if !(ms.Size > 0) {
			return fmt.Errorf("restore microbe %d: %w (got %v)", ms.ID, components.ErrInvalidSize, ms.Size)
		}
		lt := components.Lifetime{BirthTick: s.Tick, MaturedTick: -1}
		if restored := ms.Lifetime.FromJSON(); restored != nil {
			lt = *restored
		}
		color := components.Color{R: ms.Color[0], G: ms.Color[1], B: ms.Color[2], A: ms.Color[3]}

		entity, err := e.addMicrobe(ms.ID, r2.Vec{X: ms.X, Y: ms.Y}, e.cfg.Microbe.SmallSize, color, lt)
		if err != nil {
			return fmt.Errorf("restore microbe %d: %w", ms.ID, err)
		}

		m, _ := e.microbeMap.Get(entity)
		m.Vel = r2.Vec{X: ms.VelX, Y: ms.VelY}
		m.Heading = ms.Heading
		m.Health = ms.Health
		m.Size = ms.Size
		m.Mature = ms.Mature
		m.Brightness = ms.Brightness
		m.SeedX, m.SeedY = ms.SeedX, ms.SeedY

		if ms.StarveIn > 0 {
			e.timers.Cancel(systems.TimerID(m.StarveTimer))
			timer := e.timers.EveryAfter(e.tick, ms.StarveIn, e.cfg.Derived.StarveTicks,
				timerEvent{kind: timerStarve, entity: entity})
			m.StarveTimer = uint64(timer)
		}

		if !ms.Hungry {
			m.Hungry = false
			e.timers.After(e.tick, e.cfg.Derived.HungerTicks, timerEvent{kind: timerHunger, entity: entity})
		}
		if inc := ms.StepSize - m.BaseMaxStep; ms.Boosted && inc > 0 {
			m.StepSize = ms.StepSize
			e.timers.After(e.tick, e.cfg.Derived.BoostTicks, timerEvent{kind: timerBoostEnd, entity: entity, amount: inc})
		}
		if m.Brightness != e.cfg.Microbe.BaseBrightness {
			e.schedulePulse(entity, m)
		}
	}

	for _, ns := range s.Nutrients {
		entity, err := e.addNutrient(ns.ID, r2.Vec{X: ns.X, Y: ns.Y}, ns.Calories, ns.Radius)
		if err != nil {
			return fmt.Errorf("restore nutrient %d: %w", ns.ID, err)
		}
		n := e.nutrientMap.Get(entity)
		n.Vel = r2.Vec{X: ns.VelX, Y: ns.VelY}
		n.SeedX, n.SeedY = ns.SeedX, ns.SeedY
	}

	return nil
}
