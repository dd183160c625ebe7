package sim

import "time"

// maxCatchUp bounds the steps one Advance may run, so a long stall does not
// turn into a burst of hundreds of ticks.
const maxCatchUp = 8

// Pacer converts elapsed wall time into a whole number of fixed-length ticks,
// decoupling the tick rate from the frame rate.
type Pacer struct {
	step    time.Duration
	backlog time.Duration
	speed   int
}

// NewPacer creates a pacer for ticks of the given length.
func NewPacer(step time.Duration) *Pacer {
	return &Pacer{step: step, speed: 1}
}

// Speed returns the tick rate multiplier.
func (p *Pacer) Speed() int { return p.speed }

// SetSpeed sets the tick rate multiplier, clamped to [1, 10].
func (p *Pacer) SetSpeed(speed int) {
	p.speed = max(1, min(speed, 10))
}

// Advance adds elapsed wall time and returns how many ticks are due.
// Time beyond the catch-up limit is dropped.
func (p *Pacer) Advance(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}
	p.backlog += elapsed * time.Duration(p.speed)

	n := int(p.backlog / p.step)
	limit := maxCatchUp * p.speed
	if n > limit {
		n = limit
		p.backlog = 0
		return n
	}
	p.backlog -= time.Duration(n) * p.step
	return n
}

// Reset drops any accumulated time, e.g. after unpausing.
func (p *Pacer) Reset() {
	p.backlog = 0
}
