package components

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/microbes/config"
)

const eps = 1e-9

// flatField is a constant noise field.
type flatField float64

func (f flatField) Eval2(x, y float64) float64 { return float64(f) }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func newTestMicrobe(t *testing.T, cfg *config.Config) Microbe {
	t.Helper()
	m, err := NewMicrobe(r2.Vec{}, cfg.Microbe.SmallSize, Color{R: 0.5, A: 1}, &cfg.Microbe, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewMicrobe: %v", err)
	}
	return m
}

func TestNewMicrobeDefaults(t *testing.T) {
	cfg := testConfig(t)
	m := newTestMicrobe(t, cfg)

	if m.Health != 30 || !m.Hungry || !m.Alive || m.Mature {
		t.Errorf("unexpected initial state: %+v", m)
	}
	if m.BaseMaxStep != 3.0/8 || m.StepSize != m.BaseMaxStep {
		t.Errorf("step = %v/%v, want 0.375", m.BaseMaxStep, m.StepSize)
	}
	if m.SeedX < 0 || m.SeedX >= 100 || m.SeedY < 0 || m.SeedY >= 1000 {
		t.Errorf("seeds (%v,%v) outside configured ranges", m.SeedX, m.SeedY)
	}
}

func TestNewMicrobeRejectsSize(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))

	for _, size := range []float64{0, -1, math.NaN()} {
		if _, err := NewMicrobe(r2.Vec{}, size, Color{}, &cfg.Microbe, rng); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("size %v: err = %v, want ErrInvalidSize", size, err)
		}
	}
}

func TestNewNutrientRejects(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))

	if _, err := NewNutrient(r2.Vec{}, -1, 0.5, &cfg.Nutrient, rng); !errors.Is(err, ErrInvalidCalories) {
		t.Errorf("negative calories: err = %v, want ErrInvalidCalories", err)
	}
	if _, err := NewNutrient(r2.Vec{}, 1, 0, &cfg.Nutrient, rng); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero radius: err = %v, want ErrInvalidSize", err)
	}
	if _, err := NewNutrient(r2.Vec{}, 0, 0.5, &cfg.Nutrient, rng); err != nil {
		t.Errorf("zero calories should be accepted: %v", err)
	}
}

func TestAttract(t *testing.T) {
	cfg := testConfig(t)
	n, err := NewNutrient(r2.Vec{}, 2, 0.5, &cfg.Nutrient, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewNutrient: %v", err)
	}

	tests := []struct {
		name   string
		target r2.Vec
		want   float64
	}{
		{"at floor distance", r2.Vec{X: 5}, 3.6},
		{"inside floor", r2.Vec{X: 2}, 3.6},
		{"beyond floor", r2.Vec{Y: -10}, 90.0 / 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := n.Attract(tt.target)
			if math.Abs(r2.Norm(f)-tt.want) > eps {
				t.Errorf("|force| = %v, want %v", r2.Norm(f), tt.want)
			}
			// Pulls the target towards the nutrient.
			if r2.Dot(f, r2.Sub(n.Pos, tt.target)) <= 0 {
				t.Errorf("force %v does not point at the nutrient", f)
			}
		})
	}

	if f := n.Attract(n.Pos); f != (r2.Vec{}) {
		t.Errorf("coincident attraction = %v, want zero", f)
	}
}

func TestApplyForceClampsAcceleration(t *testing.T) {
	cfg := testConfig(t)
	m := newTestMicrobe(t, cfg)

	m.ApplyForce(r2.Vec{X: 100})
	m.ApplyForce(r2.Vec{Y: 100})
	if got := r2.Norm(m.Acc); got > m.StepSize+eps {
		t.Errorf("|acc| = %v exceeds step %v", got, m.StepSize)
	}

	n, _ := NewNutrient(r2.Vec{}, 1, 0.5, &cfg.Nutrient, rand.New(rand.NewSource(1)))
	n.ApplyForce(r2.Vec{X: 3, Y: 4})
	if got := r2.Norm(n.Acc); math.Abs(got-0.04) > eps {
		t.Errorf("nutrient |acc| = %v, want 0.04", got)
	}
}

func TestBoostDoesNotStack(t *testing.T) {
	cfg := testConfig(t)
	m := newTestMicrobe(t, cfg)
	base := m.BaseMaxStep

	inc, ok := m.Boost()
	if !ok || math.Abs(inc-base/2) > eps {
		t.Fatalf("first boost = (%v,%v), want (%v,true)", inc, ok, base/2)
	}
	if _, ok := m.Boost(); ok {
		t.Error("second boost within window should be a no-op")
	}
	if math.Abs(m.StepSize-1.5*base) > eps {
		t.Errorf("step = %v, want %v", m.StepSize, 1.5*base)
	}
	if !m.Boosted() {
		t.Error("Boosted() = false while boosted")
	}

	m.EndBoost(inc)
	if m.StepSize != base || m.Boosted() {
		t.Errorf("step after EndBoost = %v, want %v", m.StepSize, base)
	}

	// A stale reversal never drops below base.
	m.EndBoost(inc)
	if m.StepSize != base {
		t.Errorf("step after extra EndBoost = %v, want %v", m.StepSize, base)
	}
}

func TestEatMaturesOnce(t *testing.T) {
	cfg := testConfig(t)
	m := newTestMicrobe(t, cfg)
	size := m.Size

	if m.Eat(20) {
		t.Error("health 50 should not mature")
	}
	if m.Hungry {
		t.Error("microbe should not be hungry after eating")
	}
	if m.Brightness != cfg.Microbe.FedBrightness {
		t.Errorf("brightness = %v, want fed %v", m.Brightness, cfg.Microbe.FedBrightness)
	}

	if !m.Eat(15) {
		t.Error("health 65 should mature")
	}
	if math.Abs(m.Size-size*1.5) > eps {
		t.Errorf("size = %v, want %v", m.Size, size*1.5)
	}

	// Dropping below and re-crossing the threshold does not grow again.
	m.Health = 50
	if m.Eat(20) {
		t.Error("second crossing should not mature again")
	}
	if math.Abs(m.Size-size*1.5) > eps {
		t.Errorf("size after re-crossing = %v, want %v", m.Size, size*1.5)
	}
	if m.BaseMaxStep != size/8 {
		t.Errorf("base step changed at maturity: %v", m.BaseMaxStep)
	}
}

func TestStarveAndThresholds(t *testing.T) {
	cfg := testConfig(t)
	m := newTestMicrobe(t, cfg)

	for n := 1; n <= 3; n++ {
		m.Starve()
		if want := 30 - 10*float64(n); m.Health != want {
			t.Fatalf("after %d starvations health = %v, want %v", n, m.Health, want)
		}
	}
	if !m.Starved() || m.ShouldReproduce() {
		t.Errorf("health 0: Starved=%v ShouldReproduce=%v", m.Starved(), m.ShouldReproduce())
	}
	if m.Brightness != cfg.Microbe.StarvedBrightness {
		t.Errorf("brightness = %v, want starved", m.Brightness)
	}
	m.RestoreBrightness()
	if m.Brightness != cfg.Microbe.BaseBrightness {
		t.Errorf("brightness = %v, want base", m.Brightness)
	}

	m.Health = 100
	if !m.ShouldReproduce() {
		t.Error("health 100 should reproduce")
	}
}

func TestDieIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	m := newTestMicrobe(t, cfg)
	m.StarveTimer = 7

	timer, ok := m.Die()
	if !ok || timer != 7 {
		t.Fatalf("first Die = (%v,%v), want (7,true)", timer, ok)
	}
	if m.Alive {
		t.Error("microbe still alive after Die")
	}

	timer, ok = m.Die()
	if ok || timer != 0 {
		t.Errorf("second Die = (%v,%v), want (0,false)", timer, ok)
	}
}

func TestUpdateIntegrates(t *testing.T) {
	cfg := testConfig(t)
	m := newTestMicrobe(t, cfg)
	seedX, seedY := m.SeedX, m.SeedY

	m.Update(flatField(1))

	// Wander (1,1) clamped to the step size, then velocity clamped the same way.
	want := m.StepSize / math.Sqrt2
	if math.Abs(m.Vel.X-want) > eps || math.Abs(m.Vel.Y-want) > eps {
		t.Errorf("vel = %v, want (%v,%v)", m.Vel, want, want)
	}
	if m.Pos != m.Vel {
		t.Errorf("pos = %v, want %v", m.Pos, m.Vel)
	}
	if m.Acc != (r2.Vec{}) {
		t.Errorf("acceleration not cleared: %v", m.Acc)
	}
	if math.Abs(m.SeedX-seedX-0.01) > eps || math.Abs(m.SeedY-seedY-0.01) > eps {
		t.Errorf("seeds advanced by (%v,%v), want 0.01", m.SeedX-seedX, m.SeedY-seedY)
	}

	// From rest the previous heading is (1,0); (1,1) is a +45 degree turn.
	if math.Abs(m.Turn-math.Pi/4) > 1e-6 {
		t.Errorf("turn = %v, want pi/4", m.Turn)
	}
	if math.Abs(m.Heading-math.Pi/4) > 1e-6 {
		t.Errorf("heading = %v, want pi/4", m.Heading)
	}
}

func TestNutrientUpdateCapsSpeed(t *testing.T) {
	cfg := testConfig(t)
	n, _ := NewNutrient(r2.Vec{X: 1, Y: 1}, 5, 0.5, &cfg.Nutrient, rand.New(rand.NewSource(1)))

	for i := 0; i < 20; i++ {
		n.Update(flatField(-1))
		if r2.Norm(n.Vel) > 0.04+eps {
			t.Fatalf("tick %d: |vel| = %v exceeds 0.04", i, r2.Norm(n.Vel))
		}
	}
	if n.Pos.X >= 1 || n.Pos.Y >= 1 {
		t.Errorf("nutrient did not drift with the field: %v", n.Pos)
	}
}

func TestKindString(t *testing.T) {
	if KindMicrobe.String() != "microbe" || KindNutrient.String() != "nutrient" || Kind(9).String() != "unknown" {
		t.Error("unexpected Kind names")
	}
}
