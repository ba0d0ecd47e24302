package pathway

import (
	"log/slog"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/observability"
	"github.com/aretw0/pathway/pkg/ports"
	"github.com/aretw0/pathway/pkg/registry"
)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// Variant builds one agent from sampled attributes. The returned entity must
// use the given policy (usually via domain.WithPolicy or SetPolicy).
type Variant = registry.Constructor

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHooks registers observability hooks on agents, bubbles and the runner.
// It can be given more than once; hooks are merged.
func WithHooks(hooks domain.Hooks) Option {
	return func(e *Engine) {
		e.hooks = append(e.hooks, hooks)
	}
}

// WithMetrics keeps m up to date during runs.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
		e.hooks = append(e.hooks, m.Hooks())
	}
}

// WithSeed overrides the project seed.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = &seed
	}
}

// WithAgents overrides the number of agents created per run.
func WithAgents(n int) Option {
	return func(e *Engine) {
		e.agents = &n
	}
}

// WithHorizon overrides the project horizon.
func WithHorizon(t float64) Option {
	return func(e *Engine) {
		e.horizon = &t
	}
}

// WithMaxEvents overrides the project event budget.
func WithMaxEvents(n int) Option {
	return func(e *Engine) {
		e.maxEvents = &n
	}
}

// WithSnapshotEvery saves intermediate snapshots every n events.
func WithSnapshotEvery(n int) Option {
	return func(e *Engine) {
		e.snapshotEvery = n
	}
}

// WithTolerateAgentErrors keeps runs going when an agent's decision fails.
func WithTolerateAgentErrors() Option {
	return func(e *Engine) {
		e.tolerate = true
	}
}

// WithSnapshotStore injects a store, bypassing the project's storage section.
func WithSnapshotStore(s ports.SnapshotStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithRecorder injects a trace recorder, bypassing the project's storage section.
func WithRecorder(r ports.TraceRecorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithProjectData parses the project from data instead of reading projectPath.
func WithProjectData(data []byte) Option {
	return func(e *Engine) {
		e.data = data
	}
}

// WithVariant replaces the default agent constructor.
func WithVariant(v Variant) Option {
	return func(e *Engine) {
		e.variant = v
	}
}

// WithRegistry resolves the project's "variant" key against r.
// WithVariant takes precedence.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithoutValidation skips the static project checks.
func WithoutValidation() Option {
	return func(e *Engine) {
		e.skipValidation = true
	}
}
