package domain

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// Entity is implemented by every agent variant. Variants embed *Agent and
// get Core for free.
type Entity interface {
	Core() *Agent
}

// Agent is an entity that occupies one bubble at a time and follows a Policy
// to decide where it goes next.
type Agent struct {
	ID uuid.UUID

	env     Environment
	current *Bubble
	policy  Policy

	logger *slog.Logger
	hooks  Hooks
}

// AgentOption configures an Agent.
type AgentOption func(*Agent)

// WithPolicy sets the decision policy.
func WithPolicy(p Policy) AgentOption {
	return func(a *Agent) {
		a.policy = p
	}
}

// WithAgentLogger sets the logger used for decisions.
func WithAgentLogger(logger *slog.Logger) AgentOption {
	return func(a *Agent) {
		a.logger = logger
	}
}

// WithAgentHooks sets the lifecycle hooks.
func WithAgentHooks(hooks Hooks) AgentOption {
	return func(a *Agent) {
		a.hooks = hooks
	}
}

// NewAgent creates an agent positioned on current. It does not add itself to
// the bubble's occupant set; use MoveAgent for that.
func NewAgent(current *Bubble, env Environment, opts ...AgentOption) *Agent {
	a := &Agent{
		ID:      uuid.New(),
		env:     env,
		current: current,
		policy:  Policy{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a
}

// Core returns the agent itself, satisfying Entity.
func (a *Agent) Core() *Agent {
	return a
}

func (a *Agent) String() string {
	return fmt.Sprintf("%s @ %s", a.ID, a.current)
}

// Environment returns the environment the agent schedules against.
func (a *Agent) Environment() Environment {
	return a.env
}

// CurrentBubble returns the bubble the agent occupies.
func (a *Agent) CurrentBubble() *Bubble {
	return a.current
}

// SetPolicy replaces the decision policy. Variants call this after
// construction so their deciders can close over variant fields.
func (a *Agent) SetPolicy(p Policy) {
	a.policy = p
}

// Observe attaches a logger and lifecycle hooks. A nil logger keeps the current one.
func (a *Agent) Observe(logger *slog.Logger, hooks Hooks) {
	if logger != nil {
		a.logger = logger
	}
	a.hooks = hooks
}

// MoveAgent points the agent at bubble and adds it to the bubble's occupants.
// Removal from the previous bubble is the caller's job.
func (a *Agent) MoveAgent(bubble *Bubble) {
	a.current = bubble
	bubble.AddAgent(a)
}

// Decide resolves the policy entry for the current bubble.
func (a *Agent) Decide() (Decision, error) {
	if a.current == nil {
		return Decision{}, fmt.Errorf("%w: agent %s is not in a bubble", ErrRoutingPolicy, a.ID)
	}
	decider, ok := a.policy[a.current.Slug]
	if !ok || decider == nil {
		return Decision{}, fmt.Errorf("%w: agent %s at %q", ErrRoutingPolicy, a.ID, a.current.Slug)
	}
	d := decider()
	a.logger.Debug("agent decided on next event", "agent", a.ID, "bubble", a.current.Slug, "decision", d.String())
	return d, nil
}

// DecideAndSchedule decides the next event and schedules it at the
// environment's current time.
func (a *Agent) DecideAndSchedule() error {
	if a.env == nil {
		return fmt.Errorf("%w: %s", ErrNoEnvironment, a.ID)
	}
	return a.DecideAndScheduleAt(a.env.Now())
}

// DecideAndScheduleAt decides the next event and schedules it relative to t.
// A stay decision schedules nothing. A movement is validated against the
// current bubble's edges and handed to the environment; the agent's position
// is left untouched until the event is executed.
func (a *Agent) DecideAndScheduleAt(t float64) error {
	d, err := a.Decide()
	if err != nil {
		return err
	}

	switch d.Kind {
	case KindStay:
		a.logger.Info("agent will stay", "agent", a.ID, "bubble", a.current.Slug)
		if a.hooks.OnStay != nil {
			a.hooks.OnStay(a, a.current)
		}
		return nil
	case KindUndecided:
		return fmt.Errorf("%w: agent %s at %q", ErrUndecidedTransition, a.ID, a.current.Slug)
	}

	return a.scheduleMovement(d, t)
}

func (a *Agent) scheduleMovement(d Decision, t float64) error {
	next := a.current.ConnectedBubble(d.Next)
	if next == nil {
		a.logger.Error("no connected bubble found", "agent", a.ID, "bubble", a.current.Slug, "next", d.Next)
		return fmt.Errorf("%w: %q from %q", ErrRouting, d.Next, a.current.Slug)
	}
	if a.env == nil {
		return fmt.Errorf("%w: %s", ErrNoEnvironment, a.ID)
	}

	ev := MovementEvent{
		Time:        t + d.Delay,
		Agent:       a,
		Source:      a.current,
		Destination: next,
	}
	if err := a.env.Schedule(ev); err != nil {
		return fmt.Errorf("failed to schedule movement for agent %s: %w", a.ID, err)
	}

	a.logger.Debug("scheduled movement event", "agent", a.ID, "to", next.Slug, "time", ev.Time)
	if a.hooks.OnSchedule != nil {
		a.hooks.OnSchedule(ev)
	}
	return nil
}
