package runner

import (
	"log/slog"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithStore configures the SnapshotStore for persistence.
func WithStore(store ports.SnapshotStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithRecorder configures the TraceRecorder that receives every fired event.
func WithRecorder(rec ports.TraceRecorder) Option {
	return func(r *Runner) {
		r.Recorder = rec
	}
}

// WithHooks registers observability hooks. OnMove fires after each membership update.
func WithHooks(hooks domain.Hooks) Option {
	return func(r *Runner) {
		r.Hooks = hooks
	}
}

// WithRunID sets the run identifier used for snapshots and traces.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.RunID = id
	}
}

// WithHorizon stops the run before the first event later than t. Zero disables it.
func WithHorizon(t float64) Option {
	return func(r *Runner) {
		r.Horizon = t
	}
}

// WithMaxEvents bounds the number of fired events. Zero disables it.
func WithMaxEvents(n int) Option {
	return func(r *Runner) {
		r.MaxEvents = n
	}
}

// WithSnapshotEvery saves a snapshot every n fired events, in addition to the
// final one.
func WithSnapshotEvery(n int) Option {
	return func(r *Runner) {
		r.SnapshotEvery = n
	}
}

// WithTolerateAgentErrors records decision errors as failures and keeps the
// run going; the failing agent simply stops progressing.
func WithTolerateAgentErrors() Option {
	return func(r *Runner) {
		r.TolerateAgentErrors = true
	}
}
