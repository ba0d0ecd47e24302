package domain

import (
	"fmt"
	"time"
)

// Environment is the clock and event queue owner that agents schedule against.
type Environment interface {
	// Now returns the current simulated time.
	Now() float64
	// Schedule enqueues a movement event. Implementations reject events
	// earlier than Now with ErrScheduleInPast.
	Schedule(ev MovementEvent) error
}

// MovementEvent is a scheduled transition of one agent between two bubbles.
// It carries no behaviour: the executor that pops it performs the membership update.
type MovementEvent struct {
	Time        float64
	Agent       *Agent
	Source      *Bubble
	Destination *Bubble
}

func (e MovementEvent) String() string {
	return fmt.Sprintf("t=%g %s: %s -> %s", e.Time, e.Agent.ID, e.Source.Slug, e.Destination.Slug)
}

// Hooks defines callbacks for simulation observability.
// Every field is optional.
type Hooks struct {
	OnStay            func(agent *Agent, bubble *Bubble)
	OnSchedule        func(ev MovementEvent)
	OnMove            func(ev MovementEvent)
	OnMembershipError func(bubble *Bubble, agent *Agent)
}

// MergeHooks returns Hooks that call each of hs in order.
func MergeHooks(hs ...Hooks) Hooks {
	return Hooks{
		OnStay: func(a *Agent, b *Bubble) {
			for _, h := range hs {
				if h.OnStay != nil {
					h.OnStay(a, b)
				}
			}
		},
		OnSchedule: func(ev MovementEvent) {
			for _, h := range hs {
				if h.OnSchedule != nil {
					h.OnSchedule(ev)
				}
			}
		},
		OnMove: func(ev MovementEvent) {
			for _, h := range hs {
				if h.OnMove != nil {
					h.OnMove(ev)
				}
			}
		},
		OnMembershipError: func(b *Bubble, a *Agent) {
			for _, h := range hs {
				if h.OnMembershipError != nil {
					h.OnMembershipError(b, a)
				}
			}
		},
	}
}

// Snapshot is a point-in-time occupancy record of a run.
type Snapshot struct {
	RunID     string         `json:"run_id"`
	Time      float64        `json:"time"`
	Events    int            `json:"events"`
	Occupancy map[string]int `json:"occupancy"`
	TakenAt   time.Time      `json:"taken_at"`
}

// TraceEntry records one fired movement event.
type TraceEntry struct {
	RunID   string         `json:"run_id"`
	Seq     int            `json:"seq"`
	Time    float64        `json:"time"`
	AgentID string         `json:"agent_id"`
	From    string         `json:"from"`
	To      string         `json:"to"`
	Kind    TransitionKind `json:"kind"`
}
