package factory

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Params is everything a variant constructor receives for one agent.
type Params struct {
	Bubble      *domain.Bubble
	Environment domain.Environment
	// Attributes holds one sampled value per configured attribute.
	Attributes map[string]any
}

// Decode copies the sampled attributes into out (a pointer to a struct with
// mapstructure tags). Numeric values are converted weakly.
func (p Params) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build attribute decoder: %w", err)
	}
	if err := dec.Decode(p.Attributes); err != nil {
		return fmt.Errorf("failed to decode agent attributes: %w", err)
	}
	return nil
}

// Constructor builds one agent of variant T.
type Constructor[T domain.Entity] func(p Params) (T, error)

type settings struct {
	rng    *rand.Rand
	logger *slog.Logger
	hooks  *domain.Hooks
}

// Option configures a Factory.
type Option func(*settings)

// WithSeed makes sampling reproducible.
func WithSeed(seed int64) Option {
	return func(s *settings) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand injects the random source.
func WithRand(rng *rand.Rand) Option {
	return func(s *settings) {
		s.rng = rng
	}
}

// WithLogger sets the logger passed to every created agent.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithHooks sets the lifecycle hooks passed to every created agent.
func WithHooks(hooks domain.Hooks) Option {
	return func(s *settings) {
		s.hooks = &hooks
	}
}

// Factory builds agents of variant T with sampled attributes.
type Factory[T domain.Entity] struct {
	build Constructor[T]
	env   domain.Environment
	dists []Distribution

	rng     *rand.Rand
	logger  *slog.Logger
	hooks   *domain.Hooks
	observe bool
}

// New validates cfg and binds the variant constructor.
// Distribution errors are reported here, before any agent is generated.
func New[T domain.Entity](cfg Config, build Constructor[T], opts ...Option) (*Factory[T], error) {
	if build == nil {
		return nil, fmt.Errorf("%w: nil agent constructor", domain.ErrConfiguration)
	}

	dists, err := cfg.Distributions()
	if err != nil {
		return nil, err
	}

	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := s.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Factory[T]{
		build:   build,
		dists:   dists,
		rng:     s.rng,
		logger:  logger,
		hooks:   s.hooks,
		observe: s.logger != nil || s.hooks != nil,
	}, nil
}

// ConnectEnvironment binds the environment that created agents schedule against.
func (f *Factory[T]) ConnectEnvironment(env domain.Environment) {
	f.env = env
}

// Attributes returns the names of the sampled attributes, sorted.
func (f *Factory[T]) Attributes() []string {
	names := make([]string, len(f.dists))
	for i, d := range f.dists {
		names[i] = d.Name
	}
	return names
}

// Sample draws one value for every attribute.
func (f *Factory[T]) Sample() map[string]any {
	attrs := make(map[string]any, len(f.dists))
	for _, d := range f.dists {
		attrs[d.Name] = d.Sample(f.rng)
	}
	return attrs
}

// CreateAgent samples attributes, builds one agent and places it on start.
func (f *Factory[T]) CreateAgent(start *domain.Bubble) (T, error) {
	var zero T
	if f.env == nil {
		return zero, fmt.Errorf("%w: call ConnectEnvironment first", domain.ErrFactoryNotReady)
	}

	attrs := f.Sample()
	agent, err := f.build(Params{
		Bubble:      start,
		Environment: f.env,
		Attributes:  attrs,
	})
	if err != nil {
		return zero, fmt.Errorf("failed to construct agent: %w", err)
	}

	core := agent.Core()
	if core == nil {
		return zero, fmt.Errorf("failed to construct agent: variant returned no core agent")
	}
	if f.observe {
		var hooks domain.Hooks
		if f.hooks != nil {
			hooks = *f.hooks
		}
		core.Observe(f.logger, hooks)
	}
	core.MoveAgent(start)

	f.logger.Debug("agent created", "agent", core.ID, "bubble", start.Slug, "attributes", attrs)
	return agent, nil
}

// CreateAgents creates n independently sampled agents on start.
func (f *Factory[T]) CreateAgents(n int, start *domain.Bubble) ([]T, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative agent count %d", domain.ErrConfiguration, n)
	}
	agents := make([]T, 0, n)
	for i := 0; i < n; i++ {
		a, err := f.CreateAgent(start)
		if err != nil {
			return agents, err
		}
		agents = append(agents, a)
	}
	return agents, nil
}
