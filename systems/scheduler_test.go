package systems

import (
	"reflect"
	"testing"
)

func TestSchedulerOneShotOrder(t *testing.T) {
	s := NewScheduler[string]()
	s.After(0, 5, "b")
	s.After(0, 2, "a")
	s.After(0, 5, "c") // same tick as "b", scheduled later

	var fired []string
	collect := func(_ TimerID, p string) { fired = append(fired, p) }

	s.Drain(1, collect)
	if len(fired) != 0 {
		t.Fatalf("nothing due at tick 1, fired %v", fired)
	}

	s.Drain(2, collect)
	s.Drain(5, collect)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(fired, want) {
		t.Errorf("fired = %v, want %v", fired, want)
	}
	if s.Pending() != 0 {
		t.Errorf("pending = %d, want 0", s.Pending())
	}
}

func TestSchedulerMinimumDelay(t *testing.T) {
	s := NewScheduler[int]()
	s.After(10, 0, 1)

	count := 0
	s.Drain(10, func(TimerID, int) { count++ })
	if count != 0 {
		t.Fatal("zero-delay timer fired in the scheduling tick")
	}
	s.Drain(11, func(TimerID, int) { count++ })
	if count != 1 {
		t.Errorf("fired %d times, want 1", count)
	}
}

func TestSchedulerPeriodic(t *testing.T) {
	s := NewScheduler[int]()
	s.Every(0, 10, 7)

	fires := 0
	for tick := int32(1); tick <= 35; tick++ {
		s.Drain(tick, func(_ TimerID, p int) {
			if p != 7 {
				t.Errorf("payload = %d, want 7", p)
			}
			fires++
		})
	}
	if fires != 3 {
		t.Errorf("periodic fired %d times in 35 ticks, want 3", fires)
	}
	if s.Pending() != 1 {
		t.Errorf("periodic timer should stay pending, pending = %d", s.Pending())
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler[int]()
	keep := s.After(0, 3, 1)
	drop := s.After(0, 3, 2)

	if !s.Cancel(drop) {
		t.Fatal("first cancel should succeed")
	}
	if s.Cancel(drop) {
		t.Error("second cancel of the same timer should report false")
	}
	if !s.Scheduled(keep) || s.Scheduled(drop) {
		t.Error("Scheduled() disagrees with cancellation state")
	}

	var fired []int
	s.Drain(3, func(_ TimerID, p int) { fired = append(fired, p) })
	if !reflect.DeepEqual(fired, []int{1}) {
		t.Errorf("fired = %v, want [1]", fired)
	}
	if s.Cancel(keep) {
		t.Error("cancelling a fired one-shot should report false")
	}
}

func TestSchedulerCancelPeriodicFromCallback(t *testing.T) {
	s := NewScheduler[int]()
	var id TimerID
	id = s.Every(0, 1, 0)

	fires := 0
	s.Drain(1, func(fired TimerID, _ int) {
		fires++
		if !s.Cancel(fired) {
			t.Error("periodic timer should be cancellable from its own callback")
		}
	})
	s.Drain(5, func(TimerID, int) { fires++ })

	if fires != 1 {
		t.Errorf("fires = %d, want 1", fires)
	}
	if s.Scheduled(id) {
		t.Error("cancelled periodic timer still scheduled")
	}
}

func TestSchedulerCatchUp(t *testing.T) {
	s := NewScheduler[int]()
	s.Every(0, 2, 0)

	fires := 0
	s.Drain(7, func(TimerID, int) { fires++ })
	if fires != 3 {
		t.Errorf("draining 7 ticks at once fired %d times, want 3 (ticks 2, 4, 6)", fires)
	}
}

func TestTimerIDsNonZero(t *testing.T) {
	s := NewScheduler[int]()
	if id := s.After(0, 1, 0); id == 0 {
		t.Error("first timer got the reserved zero id")
	}
}

func TestSchedulerEveryAfterResumesPhase(t *testing.T) {
	s := NewScheduler[int]()
	id := s.EveryAfter(100, 3, 10, 1)

	if due, ok := s.Due(id); !ok || due != 103 {
		t.Fatalf("Due = %d, %v; want 103, true", due, ok)
	}

	var fired []int32
	for tick := int32(101); tick <= 125; tick++ {
		s.Drain(tick, func(TimerID, int) { fired = append(fired, tick) })
	}
	want := []int32{103, 113, 123}
	if !reflect.DeepEqual(fired, want) {
		t.Errorf("fired at %v, want %v", fired, want)
	}
	if due, _ := s.Due(id); due != 133 {
		t.Errorf("next due = %d, want 133", due)
	}
}

func TestSchedulerDueUnknown(t *testing.T) {
	s := NewScheduler[int]()
	id := s.After(0, 2, 1)
	s.Cancel(id)
	if _, ok := s.Due(id); ok {
		t.Error("cancelled timer still reports a due tick")
	}
}
