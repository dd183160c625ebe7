package components

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/microbes/config"
	"github.com/pthm-cable/microbes/vmath"
)

// stepTolerance is the relative slack below which a step size counts as base.
const stepTolerance = 1e-9

// Microbe is a foraging, reproducing, starving agent.
//
// Timed transitions (boost decay, hunger cooldown, starvation, brightness
// pulses) are scheduled by the engine; the methods here only apply the state
// change for each transition.
type Microbe struct {
	Body

	ID    uint32
	Color Color

	Health      float64
	Size        float64
	BaseMaxStep float64
	StepSize    float64 // Effective max step; BaseMaxStep unless boosted

	Hungry bool
	Mature bool
	Alive  bool

	Heading    float64 // Accumulated orientation in radians
	Turn       float64 // Heading change during the last Update
	Brightness float64

	// StarveTimer is the engine's handle for this microbe's starvation timer.
	// Zero once cancelled.
	StarveTimer uint64
	// PulseTimer restores brightness after a fed or starved pulse. Zero when idle.
	PulseTimer uint64

	rules *config.MicrobeConfig
}

// NewMicrobe creates a living, hungry, immature microbe at pos.
func NewMicrobe(pos r2.Vec, size float64, color Color, rules *config.MicrobeConfig, rng *rand.Rand) (Microbe, error) {
	if !(size > 0) {
		return Microbe{}, fmt.Errorf("new microbe: %w (got %v)", ErrInvalidSize, size)
	}

	baseStep := size / rules.StepDivisor
	return Microbe{
		Body: Body{
			Pos:   pos,
			SeedX: rng.Float64() * rules.SeedRangeX,
			SeedY: rng.Float64() * rules.SeedRangeY,
		},
		Color:       color,
		Health:      rules.InitialHealth,
		Size:        size,
		BaseMaxStep: baseStep,
		StepSize:    baseStep,
		Hungry:      true,
		Alive:       true,
		Brightness:  rules.BaseBrightness,
		rules:       rules,
	}, nil
}

// ApplyForce accumulates f, clamping acceleration to the current step size.
func (m *Microbe) ApplyForce(f r2.Vec) {
	m.accumulate(f, m.StepSize)
}

// BoostCap is the highest step size a boost can reach.
func (m *Microbe) BoostCap() float64 {
	return m.BaseMaxStep * (1 + m.rules.BoostFraction)
}

// Boosted reports whether the step size is currently raised.
func (m *Microbe) Boosted() bool {
	return m.StepSize > m.BaseMaxStep
}

// Boost raises the step size by a fraction of the base step.
// It returns the increment to hand back to EndBoost when the window elapses,
// or ok=false when already boosted (boosts do not stack).
func (m *Microbe) Boost() (increment float64, ok bool) {
	limit := m.BoostCap()
	if m.StepSize >= limit {
		return 0, false
	}
	increment = math.Min(m.BaseMaxStep*m.rules.BoostFraction, limit-m.StepSize)
	m.StepSize += increment
	return increment, true
}

// EndBoost reverts a boost increment. The step size never drops below base,
// and rounding left over from the increment snaps back to base.
func (m *Microbe) EndBoost(increment float64) {
	m.StepSize -= increment
	if m.StepSize < m.BaseMaxStep*(1+stepTolerance) {
		m.StepSize = m.BaseMaxStep
	}
}

// Eat adds calories to health and makes the microbe non-hungry.
// It reports whether this meal triggered the one-time maturity growth.
func (m *Microbe) Eat(calories float64) (matured bool) {
	m.Health += calories
	m.Hungry = false
	m.Brightness = m.rules.FedBrightness

	if !m.Mature && m.Health > m.rules.MaturityHealth {
		m.Mature = true
		m.Size *= m.rules.GrowthFactor
		return true
	}
	return false
}

// SetHungry ends the hunger cooldown.
func (m *Microbe) SetHungry() {
	m.Hungry = true
}

// Starve removes one starvation dose of health.
func (m *Microbe) Starve() {
	m.Health -= m.rules.StarveAmount
	m.Brightness = m.rules.StarvedBrightness
}

// RestoreBrightness ends a fed or starved brightness pulse.
func (m *Microbe) RestoreBrightness() {
	m.Brightness = m.rules.BaseBrightness
}

// Update wanders, integrates motion and records the heading change.
func (m *Microbe) Update(noise NoiseField) {
	prevVel := m.Vel

	w := m.wander(noise, m.rules.WanderStep)
	m.ApplyForce(vmath.ClampLength(w, m.StepSize))
	m.integrate(m.StepSize)

	m.Turn = vmath.SignedAngle(prevVel, m.Vel)
	m.Heading = vmath.WrapAngle(m.Heading + m.Turn)
}

// ShouldReproduce reports whether health has reached the split threshold.
func (m *Microbe) ShouldReproduce() bool {
	return m.Health >= m.rules.ReproduceHealth
}

// Starved reports whether health has run out.
func (m *Microbe) Starved() bool {
	return m.Health <= 0
}

// Die marks the microbe dead and hands back its starvation timer for cancellation.
// Only the first call returns ok=true; later calls return no timer.
func (m *Microbe) Die() (starveTimer uint64, ok bool) {
	if !m.Alive {
		return 0, false
	}
	m.Alive = false
	starveTimer = m.StarveTimer
	m.StarveTimer = 0
	return starveTimer, true
}
