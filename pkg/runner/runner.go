package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/ports"
	"github.com/google/uuid"
)

// Queue is the environment the runner drives: the domain Environment plus
// ordered consumption of pending events.
type Queue interface {
	domain.Environment
	Peek() (domain.MovementEvent, bool)
	Pop() (domain.MovementEvent, bool)
}

// StopReason tells why Run returned.
type StopReason string

const (
	StopDrained   StopReason = "drained"    // No pending events
	StopHorizon   StopReason = "horizon"    // Next event is past the horizon
	StopMaxEvents StopReason = "max_events" // Event budget exhausted
	StopCanceled  StopReason = "canceled"   // Context canceled
	StopFailed    StopReason = "failed"     // An agent or store error aborted the run
)

// AgentFailure is a decision error recorded in tolerant mode.
type AgentFailure struct {
	AgentID string
	Bubble  string
	Time    float64
	Err     error
}

// Result summarizes a run.
type Result struct {
	RunID     string
	Events    int
	Time      float64
	Occupancy map[string]int
	Failures  []AgentFailure
	Reason    StopReason
}

// Runner executes movement events in order and keeps bubble membership consistent.
type Runner struct {
	Logger   *slog.Logger
	Store    ports.SnapshotStore
	Recorder ports.TraceRecorder
	Hooks    domain.Hooks

	RunID               string
	Horizon             float64
	MaxEvents           int
	SnapshotEvery       int
	TolerateAgentErrors bool

	env      Queue
	topology *domain.Topology
	fired    int
	failures []AgentFailure
}

// New creates a runner over env. The topology is used for occupancy snapshots.
func New(env Queue, topology *domain.Topology, opts ...Option) *Runner {
	r := &Runner{
		env:      env,
		topology: topology,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	r.Logger = r.Logger.With("run", r.RunID)
	return r
}

// Start asks every agent for its first decision at the current time.
func (r *Runner) Start(agents ...*domain.Agent) error {
	for _, a := range agents {
		if err := r.decide(a); err != nil {
			return err
		}
	}
	r.Logger.Info("agents started", "count", len(agents), "time", r.env.Now())
	return nil
}

// Run fires events until the queue drains, a bound is reached, or ctx is canceled.
// A final snapshot is saved when a store is configured.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	reason, runErr := r.loop(ctx)

	res := &Result{
		RunID:    r.RunID,
		Events:   r.fired,
		Time:     r.env.Now(),
		Failures: r.failures,
		Reason:   reason,
	}
	if r.topology != nil {
		res.Occupancy = r.topology.Occupancy()
	}

	// Persist even on cancellation so a partial run can be inspected.
	if err := r.saveSnapshot(context.WithoutCancel(ctx)); err != nil && runErr == nil {
		runErr = err
		res.Reason = StopFailed
	}

	r.Logger.Info("run finished",
		"reason", res.Reason,
		"events", res.Events,
		"time", res.Time,
		"failures", len(res.Failures),
	)
	return res, runErr
}

func (r *Runner) loop(ctx context.Context) (StopReason, error) {
	for {
		select {
		case <-ctx.Done():
			return StopCanceled, ctx.Err()
		default:
		}

		if r.MaxEvents > 0 && r.fired >= r.MaxEvents {
			return StopMaxEvents, nil
		}

		next, ok := r.env.Peek()
		if !ok {
			return StopDrained, nil
		}
		if r.Horizon > 0 && next.Time > r.Horizon {
			return StopHorizon, nil
		}

		ev, _ := r.env.Pop()
		if err := r.fire(ctx, ev); err != nil {
			return StopFailed, err
		}

		if r.SnapshotEvery > 0 && r.fired%r.SnapshotEvery == 0 {
			if err := r.saveSnapshot(ctx); err != nil {
				return StopFailed, err
			}
		}
	}
}

// fire applies one movement: remove from source, move into destination,
// record, then let the agent decide again.
func (r *Runner) fire(ctx context.Context, ev domain.MovementEvent) error {
	ev.Source.RemoveAgent(ev.Agent)
	ev.Agent.MoveAgent(ev.Destination)
	r.fired++

	r.Logger.Debug("movement fired",
		"agent", ev.Agent.ID,
		"from", ev.Source.Slug,
		"to", ev.Destination.Slug,
		"time", ev.Time,
	)

	if r.Recorder != nil {
		entry := domain.TraceEntry{
			RunID:   r.RunID,
			Seq:     r.fired,
			Time:    ev.Time,
			AgentID: ev.Agent.ID.String(),
			From:    ev.Source.Slug,
			To:      ev.Destination.Slug,
			Kind:    domain.KindMovement,
		}
		if err := r.Recorder.Record(ctx, entry); err != nil {
			return fmt.Errorf("failed to record trace: %w", err)
		}
	}

	if r.Hooks.OnMove != nil {
		r.Hooks.OnMove(ev)
	}

	return r.decide(ev.Agent)
}

func (r *Runner) decide(a *domain.Agent) error {
	err := a.DecideAndSchedule()
	if err == nil {
		return nil
	}
	if !r.TolerateAgentErrors || !isAgentError(err) {
		return err
	}

	bubble := ""
	if b := a.CurrentBubble(); b != nil {
		bubble = b.Slug
	}
	r.Logger.Error("agent stopped", "agent", a.ID, "bubble", bubble, "err", err)
	r.failures = append(r.failures, AgentFailure{
		AgentID: a.ID.String(),
		Bubble:  bubble,
		Time:    r.env.Now(),
		Err:     err,
	})
	return nil
}

// isAgentError reports whether err is a static policy or topology defect of
// one agent, as opposed to an environment failure.
func isAgentError(err error) bool {
	return errors.Is(err, domain.ErrRoutingPolicy) ||
		errors.Is(err, domain.ErrUndecidedTransition) ||
		errors.Is(err, domain.ErrRouting)
}

// Snapshot returns the current occupancy snapshot.
func (r *Runner) Snapshot() *domain.Snapshot {
	snap := &domain.Snapshot{
		RunID:   r.RunID,
		Time:    r.env.Now(),
		Events:  r.fired,
		TakenAt: time.Now().UTC(),
	}
	if r.topology != nil {
		snap.Occupancy = r.topology.Occupancy()
	} else {
		snap.Occupancy = map[string]int{}
	}
	return snap
}

func (r *Runner) saveSnapshot(ctx context.Context) error {
	if r.Store == nil {
		return nil
	}
	if err := r.Store.Save(ctx, r.Snapshot()); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}
