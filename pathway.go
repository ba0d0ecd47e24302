package pathway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/pathway/internal/compiler"
	"github.com/aretw0/pathway/internal/validator"
	"github.com/aretw0/pathway/pkg/adapters/file"
	"github.com/aretw0/pathway/pkg/adapters/memory"
	"github.com/aretw0/pathway/pkg/adapters/redis"
	"github.com/aretw0/pathway/pkg/adapters/sqlite"
	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/factory"
	"github.com/aretw0/pathway/pkg/observability"
	"github.com/aretw0/pathway/pkg/policy"
	"github.com/aretw0/pathway/pkg/ports"
	"github.com/aretw0/pathway/pkg/registry"
	"github.com/aretw0/pathway/pkg/runner"
)

// Engine is the high-level entry point for the Pathway library.
// It compiles a project once and runs independent simulations of it.
type Engine struct {
	Name string

	project  *compiler.Project
	compiled *compiler.Compiled
	policy   domain.Policy
	rng      *rand.Rand
	dir      string

	logger   *slog.Logger
	hooks    []domain.Hooks
	metrics  *observability.Metrics
	variant  Variant
	registry *registry.Registry

	data           []byte
	seed           *int64
	agents         *int
	horizon        *float64
	maxEvents      *int
	snapshotEvery  int
	tolerate       bool
	skipValidation bool

	store    ports.SnapshotStore
	recorder ports.TraceRecorder
	closers  []io.Closer
}

// New initializes an Engine from the project at projectPath.
// projectPath is either a project file or a directory holding pathway.yaml.
// With WithProjectData, projectPath is only used to resolve relative storage paths.
func New(projectPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	proj, err := eng.load(projectPath)
	if err != nil {
		return nil, err
	}
	eng.project = proj

	eng.Name = proj.Name
	if eng.Name == "" && eng.dir != "" {
		eng.Name = filepath.Base(eng.dir)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("project", eng.Name)
	}

	eng.compiled, err = compiler.Compile(proj)
	if err != nil {
		return nil, err
	}
	if !eng.skipValidation {
		if err := validator.Validate(eng.compiled.Topology, eng.compiled.Routes, proj.Start); err != nil {
			return nil, err
		}
	}

	seed := time.Now().UnixNano()
	switch {
	case eng.seed != nil:
		seed = *eng.seed
	case proj.Seed != nil:
		seed = *proj.Seed
	}
	eng.rng = rand.New(rand.NewSource(seed))

	eng.policy, err = policy.Compile(eng.compiled.Routes, eng.rng)
	if err != nil {
		return nil, err
	}

	// Without a registry (e.g. the CLI) the project runs with plain agents.
	if eng.variant == nil && proj.Variant != "" {
		if eng.registry == nil {
			eng.logger.Warn("no variant registry, using plain agents", "variant", proj.Variant)
		} else if eng.variant, err = eng.registry.Lookup(proj.Variant); err != nil {
			return nil, err
		}
	}

	if err := eng.openStorage(); err != nil {
		_ = eng.Close()
		return nil, err
	}

	eng.logger.Debug("project loaded",
		"bubbles", eng.compiled.Topology.Len(),
		"seed", seed,
		"start", proj.Start,
	)
	return eng, nil
}

func (e *Engine) load(projectPath string) (*compiler.Project, error) {
	parser := compiler.NewParser()

	if e.data != nil {
		if projectPath != "" {
			e.dir = projectPath
		}
		return parser.Parse(e.data)
	}
	if projectPath == "" {
		return nil, fmt.Errorf("projectPath is required when no project data is provided")
	}

	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open project: %w", err)
	}

	file := absPath
	e.dir = filepath.Dir(absPath)
	if info.IsDir() {
		file = filepath.Join(absPath, compiler.DefaultFile)
		e.dir = absPath
	}
	return parser.ParseFile(file)
}

// openStorage builds the backends declared in the project, unless injected.
func (e *Engine) openStorage() error {
	st := e.project.Storage

	if e.store == nil && st.Redis != nil && st.Redis.Addr != "" {
		rs := redis.New(st.Redis.Addr, st.Redis.Password, st.Redis.DB,
			redis.WithPrefix(st.Redis.Prefix),
			redis.WithTTL(st.Redis.TTL),
		)
		e.store = rs
		e.closers = append(e.closers, rs)
	}

	if e.store == nil && st.File != nil && st.File.Dir != "" {
		e.store = file.New(e.resolve(st.File.Dir))
	}

	if e.recorder == nil && st.SQLite != nil && st.SQLite.Path != "" {
		path := st.SQLite.Path
		if path != ":memory:" {
			path = e.resolve(path)
		}
		rec, err := sqlite.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open trace database: %w", err)
		}
		e.recorder = rec
		e.closers = append(e.closers, rec)
	}
	return nil
}

// resolve makes storage paths relative to the project directory.
func (e *Engine) resolve(path string) string {
	if filepath.IsAbs(path) || e.dir == "" {
		return path
	}
	return filepath.Join(e.dir, path)
}

// Close releases the storage backends opened by New.
func (e *Engine) Close() error {
	var errs []error
	for _, c := range e.closers {
		errs = append(errs, c.Close())
	}
	e.closers = nil
	return errors.Join(errs...)
}

// Topology returns the compiled topology. It is never populated by Run.
func (e *Engine) Topology() *domain.Topology {
	return e.compiled.Topology
}

// Routes returns the routing table.
func (e *Engine) Routes() policy.Routes {
	return e.compiled.Routes
}

// Start returns the slug agents are created on.
func (e *Engine) Start() string {
	return e.project.Start
}

// Store returns the snapshot store, or nil.
func (e *Engine) Store() ports.SnapshotStore {
	return e.store
}

// Recorder returns the trace recorder, or nil.
func (e *Engine) Recorder() ports.TraceRecorder {
	return e.recorder
}

// Validate runs the static checks and returns every finding.
func (e *Engine) Validate() []validator.Finding {
	return validator.Check(e.compiled.Topology, e.compiled.Routes, e.project.Start)
}

// Run simulates the project once on a fresh topology.
// An empty runID is replaced by a generated one. The returned topology holds
// the final occupancy.
func (e *Engine) Run(ctx context.Context, runID string) (*runner.Result, *domain.Topology, error) {
	compiled, err := compiler.Compile(e.project)
	if err != nil {
		return nil, nil, err
	}
	topo := compiled.Topology
	hooks := domain.MergeHooks(e.hooks...)
	topo.Observe(e.logger, hooks)

	start, ok := topo.Bubble(e.project.Start)
	if !ok {
		return nil, nil, fmt.Errorf("%w: start bubble %q", domain.ErrUnknownBubble, e.project.Start)
	}

	env := memory.NewEnvironment()
	fac, err := factory.New[domain.Entity](e.compiled.Population, e.construct,
		factory.WithRand(e.rng),
		factory.WithLogger(e.logger),
		factory.WithHooks(hooks),
	)
	if err != nil {
		return nil, nil, err
	}
	fac.ConnectEnvironment(env)

	n := e.project.Agents
	if e.agents != nil {
		n = *e.agents
	}
	entities, err := fac.CreateAgents(n, start)
	if err != nil {
		return nil, nil, err
	}
	if e.metrics != nil {
		e.metrics.SetOccupancy(topo.Occupancy())
	}

	r := runner.New(env, topo, e.runnerOptions(runID, hooks)...)
	agents := make([]*domain.Agent, len(entities))
	for i, ent := range entities {
		agents[i] = ent.Core()
	}
	if err := r.Start(agents...); err != nil {
		return nil, topo, err
	}

	res, err := r.Run(ctx)
	return res, topo, err
}

func (e *Engine) runnerOptions(runID string, hooks domain.Hooks) []runner.Option {
	opts := []runner.Option{
		runner.WithLogger(e.logger),
		runner.WithHooks(hooks),
		runner.WithRunID(runID),
		runner.WithHorizon(e.project.Horizon),
		runner.WithMaxEvents(e.project.MaxEvents),
		runner.WithSnapshotEvery(e.snapshotEvery),
	}
	if e.horizon != nil {
		opts = append(opts, runner.WithHorizon(*e.horizon))
	}
	if e.maxEvents != nil {
		opts = append(opts, runner.WithMaxEvents(*e.maxEvents))
	}
	if e.store != nil {
		opts = append(opts, runner.WithStore(e.store))
	}
	if e.recorder != nil {
		opts = append(opts, runner.WithRecorder(e.recorder))
	}
	if e.tolerate {
		opts = append(opts, runner.WithTolerateAgentErrors())
	}
	return opts
}

func (e *Engine) construct(p factory.Params) (domain.Entity, error) {
	if e.variant != nil {
		ent, err := e.variant(p, e.policy)
		if err == nil && ent == nil {
			err = fmt.Errorf("%w: variant returned no agent", domain.ErrConfiguration)
		}
		return ent, err
	}
	return domain.NewAgent(p.Bubble, p.Environment, domain.WithPolicy(e.policy)), nil
}
