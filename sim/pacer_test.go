package sim

import (
	"testing"
	"time"
)

func TestPacerAdvance(t *testing.T) {
	tests := []struct {
		name    string
		speed   int
		elapsed []time.Duration
		want    []int
	}{
		{"whole ticks", 1, []time.Duration{20 * time.Millisecond}, []int{2}},
		{"carries remainder", 1, []time.Duration{15 * time.Millisecond, 5 * time.Millisecond}, []int{1, 1}},
		{"below one tick", 1, []time.Duration{3 * time.Millisecond, 3 * time.Millisecond}, []int{0, 0}},
		{"speed multiplies", 3, []time.Duration{10 * time.Millisecond}, []int{3}},
		{"catch-up limit", 1, []time.Duration{time.Second, 10 * time.Millisecond}, []int{maxCatchUp, 1}},
		{"negative ignored", 1, []time.Duration{-time.Second, 10 * time.Millisecond}, []int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPacer(10 * time.Millisecond)
			p.SetSpeed(tt.speed)
			for i, d := range tt.elapsed {
				if got := p.Advance(d); got != tt.want[i] {
					t.Errorf("Advance(%v) #%d = %d, want %d", d, i, got, tt.want[i])
				}
			}
		})
	}
}

func TestPacerSpeedClamp(t *testing.T) {
	p := NewPacer(time.Millisecond)
	for _, tc := range []struct{ set, want int }{{0, 1}, {5, 5}, {50, 10}} {
		p.SetSpeed(tc.set)
		if p.Speed() != tc.want {
			t.Errorf("SetSpeed(%d) -> %d, want %d", tc.set, p.Speed(), tc.want)
		}
	}
}

func TestPacerReset(t *testing.T) {
	p := NewPacer(10 * time.Millisecond)
	p.Advance(9 * time.Millisecond)
	p.Reset()
	if got := p.Advance(2 * time.Millisecond); got != 0 {
		t.Errorf("Advance after Reset = %d, want 0", got)
	}
}
