package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/microbes/config"
)

const tol = 1e-9

func TestRepulsionSymmetric(t *testing.T) {
	a := r2.Vec{X: -1.5, Y: 0.5}
	b := r2.Vec{X: 1.5, Y: -0.5}
	d := r2.Norm(r2.Sub(a, b)) // < 6

	fa := Repulsion(a, b, 1, 0.01)
	fb := Repulsion(b, a, 1, 0.01)

	// Equal and opposite.
	if math.Abs(fa.X+fb.X) > tol || math.Abs(fa.Y+fb.Y) > tol {
		t.Errorf("forces not opposite: %v vs %v", fa, fb)
	}

	// Magnitude 1/d^2.
	want := 1 / (d * d)
	if math.Abs(r2.Norm(fa)-want) > tol {
		t.Errorf("|force| = %v, want %v", r2.Norm(fa), want)
	}

	// Points away from the other body.
	if r2.Dot(fa, r2.Sub(a, b)) <= 0 {
		t.Errorf("force %v does not point away from other", fa)
	}
}

func TestRepulsionFloorsDistance(t *testing.T) {
	a := r2.Vec{}
	b := r2.Vec{X: 1e-6}
	f := Repulsion(a, b, 1, 0.01)
	if got, want := r2.Norm(f), 1/(0.01*0.01); math.Abs(got-want) > 1e-6 {
		t.Errorf("|force| = %v, want floored %v", got, want)
	}

	// Coincident bodies have no direction.
	if f := Repulsion(a, a, 1, 0.01); f != (r2.Vec{}) {
		t.Errorf("coincident force = %v, want zero", f)
	}
}

func TestEdgeForces(t *testing.T) {
	b := NewBounds(40, -40, -70, 70)
	reach := 30.0

	tests := []struct {
		name  string
		pos   r2.Vec
		wantH r2.Vec
		wantV r2.Vec
	}{
		{"centre untouched", r2.Vec{}, r2.Vec{}, r2.Vec{}},
		{"near left", r2.Vec{X: -60}, r2.Vec{X: 1.5 / 100}, r2.Vec{}},
		{"near right", r2.Vec{X: 65}, r2.Vec{X: -1.5 / 25}, r2.Vec{}},
		{"near top", r2.Vec{Y: 35}, r2.Vec{}, r2.Vec{Y: -1.5 / 25}},
		{"near bottom", r2.Vec{Y: -20}, r2.Vec{}, r2.Vec{Y: 1.5 / 400}},
		{"corner", r2.Vec{X: -68, Y: 38}, r2.Vec{X: 1.5 / 4}, r2.Vec{Y: -1.5 / 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, v := EdgeForces(tt.pos, b, reach, 1.5, 0.01)
			if math.Abs(h.X-tt.wantH.X) > tol || math.Abs(h.Y-tt.wantH.Y) > tol {
				t.Errorf("horizontal = %v, want %v", h, tt.wantH)
			}
			if math.Abs(v.X-tt.wantV.X) > tol || math.Abs(v.Y-tt.wantV.Y) > tol {
				t.Errorf("vertical = %v, want %v", v, tt.wantV)
			}
		})
	}
}

func TestEdgeForcesOnEdgeStaysFinite(t *testing.T) {
	b := NewBounds(10, -10, -10, 10)
	h, _ := EdgeForces(r2.Vec{X: -10}, b, 30, 1.5, 0.01)
	if math.IsInf(h.X, 0) || math.IsNaN(h.X) {
		t.Fatalf("force on the edge is not finite: %v", h)
	}
}

func TestFriction(t *testing.T) {
	vel := r2.Vec{X: 0.3, Y: -0.4} // |v| = 0.5
	f := Friction(vel, 0.6)

	if want := 0.6 * 0.25; math.Abs(r2.Norm(f)-want) > tol {
		t.Errorf("|friction| = %v, want %v", r2.Norm(f), want)
	}
	if r2.Dot(f, vel) >= 0 {
		t.Errorf("friction %v does not oppose velocity %v", f, vel)
	}
	if f := Friction(r2.Vec{}, 0.6); f != (r2.Vec{}) {
		t.Errorf("friction at rest = %v, want zero", f)
	}
}

func TestBounds(t *testing.T) {
	b := NewBounds(-40, 40, 70, -70) // swapped edges are normalised
	if b.Top != 40 || b.Bottom != -40 || b.Left != -70 || b.Right != 70 {
		t.Fatalf("NewBounds normalisation failed: %+v", b)
	}
	if b.Width() != 140 || b.Height() != 80 {
		t.Errorf("size = %vx%v, want 140x80", b.Width(), b.Height())
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		if p := b.RandomPoint(rng); !b.Contains(p) {
			t.Fatalf("RandomPoint produced %v outside %+v", p, b)
		}
	}
}

func TestNoiseBackends(t *testing.T) {
	for _, kind := range []string{config.NoiseSimplex, config.NoisePerlin} {
		t.Run(kind, func(t *testing.T) {
			n, err := NewNoise(config.NoiseConfig{Kind: kind, PerlinAlpha: 2, PerlinBeta: 2, PerlinOctaves: 3}, 42)
			if err != nil {
				t.Fatalf("NewNoise error: %v", err)
			}

			again, _ := NewNoise(config.NoiseConfig{Kind: kind, PerlinAlpha: 2, PerlinBeta: 2, PerlinOctaves: 3}, 42)

			x, y := 12.3, 456.7
			prev := n.Eval2(x, y)
			for i := 0; i < 500; i++ {
				v := n.Eval2(x, y)
				if v < -1 || v > 1 {
					t.Fatalf("Eval2(%v,%v) = %v outside [-1,1]", x, y, v)
				}
				if v != again.Eval2(x, y) {
					t.Fatalf("Eval2 not deterministic for equal seeds at (%v,%v)", x, y)
				}
				// Continuity: a 0.01 step moves the value only a little.
				if math.Abs(v-prev) > 0.25 {
					t.Fatalf("jump of %v between neighbouring samples at (%v,%v)", v-prev, x, y)
				}
				prev = v
				x += 0.01
				y += 0.01
			}
		})
	}

	if _, err := NewNoise(config.NoiseConfig{Kind: "bogus"}, 1); err == nil {
		t.Error("expected error for unknown noise kind")
	}
}
