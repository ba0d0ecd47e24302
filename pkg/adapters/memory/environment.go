package memory

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/aretw0/pathway/pkg/domain"
)

// Environment implements domain.Environment with an in-memory priority queue.
// Events pop in non-decreasing time order; events sharing a time pop in
// the order they were scheduled. Not safe for concurrent use.
type Environment struct {
	now   float64
	seq   uint64
	queue eventQueue
}

// EnvironmentOption configures an Environment.
type EnvironmentOption func(*Environment)

// WithStartTime sets the initial clock value.
func WithStartTime(t float64) EnvironmentOption {
	return func(e *Environment) {
		e.now = t
	}
}

// NewEnvironment creates an empty environment with the clock at zero.
func NewEnvironment(opts ...EnvironmentOption) *Environment {
	e := &Environment{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the current simulated time.
func (e *Environment) Now() float64 {
	return e.now
}

// Schedule enqueues ev. Events behind the clock or at a non-finite time are rejected.
func (e *Environment) Schedule(ev domain.MovementEvent) error {
	if math.IsNaN(ev.Time) || math.IsInf(ev.Time, 0) {
		return fmt.Errorf("%w: event time %g is not finite", domain.ErrScheduleInPast, ev.Time)
	}
	if !(ev.Time >= e.now) {
		return fmt.Errorf("%w: %g < %g", domain.ErrScheduleInPast, ev.Time, e.now)
	}
	heap.Push(&e.queue, queued{ev: ev, seq: e.seq})
	e.seq++
	return nil
}

// Len returns the number of pending events.
func (e *Environment) Len() int {
	return e.queue.Len()
}

// Peek returns the next event without removing it.
func (e *Environment) Peek() (domain.MovementEvent, bool) {
	if e.queue.Len() == 0 {
		return domain.MovementEvent{}, false
	}
	return e.queue[0].ev, true
}

// Pop removes the next event and advances the clock to its time.
func (e *Environment) Pop() (domain.MovementEvent, bool) {
	if e.queue.Len() == 0 {
		return domain.MovementEvent{}, false
	}
	q := heap.Pop(&e.queue).(queued)
	e.now = q.ev.Time
	return q.ev, true
}

type queued struct {
	ev  domain.MovementEvent
	seq uint64
}

// eventQueue orders by (time, seq).
type eventQueue []queued

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].ev.Time != q[j].ev.Time {
		return q[i].ev.Time < q[j].ev.Time
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) {
	*q = append(*q, x.(queued))
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = queued{}
	*q = old[:n-1]
	return item
}
