package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/pathway"
	"github.com/aretw0/pathway/pkg/observability"
)

// EngineOptions are the flags shared by every command that loads a project.
type EngineOptions struct {
	ProjectPath string
	Log         LogOptions

	// Overrides; nil keeps the project value.
	Seed      *int64
	Agents    *int
	Horizon   *float64
	MaxEvents *int

	SkipValidation bool
}

// createEngine initializes a Pathway engine with standard CLI conventions.
func createEngine(opts EngineOptions, logger *slog.Logger, extra ...pathway.Option) (*pathway.Engine, error) {
	engineOpts := []pathway.Option{
		pathway.WithLogger(logger),
		pathway.WithHooks(observability.AuditHooks(logger)),
	}

	if opts.Seed != nil {
		engineOpts = append(engineOpts, pathway.WithSeed(*opts.Seed))
	}
	if opts.Agents != nil {
		engineOpts = append(engineOpts, pathway.WithAgents(*opts.Agents))
	}
	if opts.Horizon != nil {
		engineOpts = append(engineOpts, pathway.WithHorizon(*opts.Horizon))
	}
	if opts.MaxEvents != nil {
		engineOpts = append(engineOpts, pathway.WithMaxEvents(*opts.MaxEvents))
	}
	if opts.SkipValidation {
		engineOpts = append(engineOpts, pathway.WithoutValidation())
	}
	engineOpts = append(engineOpts, extra...)

	engine, err := pathway.New(opts.ProjectPath, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
