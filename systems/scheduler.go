package systems

import "container/heap"

// TimerID identifies a scheduled timer. The zero value never identifies a timer.
type TimerID uint64

// Scheduler is a tick-indexed timer queue. Timers never fire on their own:
// the owner drains due timers at a fixed point of its tick, so every callback
// runs on the same goroutine as the simulation and in a deterministic order
// (due tick, then scheduling order).
type Scheduler[T any] struct {
	queue  timerQueue[T]
	byID   map[TimerID]*timer[T]
	nextID TimerID
	seq    uint64
}

type timer[T any] struct {
	id      TimerID
	due     int32
	period  int32 // 0 = one-shot
	seq     uint64
	index   int
	payload T
}

// NewScheduler creates an empty scheduler.
func NewScheduler[T any]() *Scheduler[T] {
	return &Scheduler[T]{
		byID:   make(map[TimerID]*timer[T]),
		nextID: 1,
	}
}

// After schedules payload to fire once, delay ticks after now (minimum 1).
func (s *Scheduler[T]) After(now, delay int32, payload T) TimerID {
	return s.add(now, delay, 0, payload)
}

// Every schedules payload to fire every period ticks, first at now+period.
func (s *Scheduler[T]) Every(now, period int32, payload T) TimerID {
	if period < 1 {
		period = 1
	}
	return s.add(now, period, period, payload)
}

// EveryAfter schedules payload to fire every period ticks, first at now+delay.
// It resumes a periodic timer part way through its period.
func (s *Scheduler[T]) EveryAfter(now, delay, period int32, payload T) TimerID {
	if period < 1 {
		period = 1
	}
	return s.add(now, delay, period, payload)
}

func (s *Scheduler[T]) add(now, delay, period int32, payload T) TimerID {
	if delay < 1 {
		delay = 1
	}
	t := &timer[T]{
		id:      s.nextID,
		due:     now + delay,
		period:  period,
		seq:     s.seq,
		payload: payload,
	}
	s.nextID++
	s.seq++
	s.byID[t.id] = t
	heap.Push(&s.queue, t)
	return t.id
}

// Cancel removes a pending timer. It reports false when id is unknown,
// already fired (one-shot) or already cancelled.
func (s *Scheduler[T]) Cancel(id TimerID) bool {
	t, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	heap.Remove(&s.queue, t.index)
	return true
}

// Scheduled reports whether id is still pending.
func (s *Scheduler[T]) Scheduled(id TimerID) bool {
	_, ok := s.byID[id]
	return ok
}

// Due returns the tick at which id fires next.
func (s *Scheduler[T]) Due(id TimerID) (int32, bool) {
	t, ok := s.byID[id]
	if !ok {
		return 0, false
	}
	return t.due, true
}

// Pending returns the number of pending timers.
func (s *Scheduler[T]) Pending() int {
	return len(s.queue)
}

// Drain fires every timer due at or before now, in order.
// Periodic timers are rescheduled before fire runs, so fire may cancel them.
func (s *Scheduler[T]) Drain(now int32, fire func(id TimerID, payload T)) {
	for len(s.queue) > 0 && s.queue[0].due <= now {
		t := heap.Pop(&s.queue).(*timer[T])
		if t.period > 0 {
			t.due += t.period
			t.seq = s.seq
			s.seq++
			heap.Push(&s.queue, t)
		} else {
			delete(s.byID, t.id)
		}
		fire(t.id, t.payload)
	}
}

// timerQueue implements heap.Interface ordered by (due, seq).
type timerQueue[T any] []*timer[T]

func (q timerQueue[T]) Len() int { return len(q) }

func (q timerQueue[T]) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue[T]) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue[T]) Push(x any) {
	t := x.(*timer[T])
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue[T]) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
