package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/pathway/internal/presentation/graph"
)

// GraphOptions holds configuration for the graph command.
type GraphOptions struct {
	EngineOptions
	// RunID overlays the occupancy of a stored run.
	RunID string
}

// Graph writes the project's Mermaid diagram to out.
func Graph(ctx context.Context, opts GraphOptions, out io.Writer) error {
	logger, err := createLogger(opts.Log)
	if err != nil {
		return err
	}
	opts.SkipValidation = true

	engine, err := createEngine(opts.EngineOptions, logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	gopts := graph.Options{Start: engine.Start(), Routes: engine.Routes()}
	if opts.RunID != "" {
		store := engine.Store()
		if store == nil {
			return fmt.Errorf("--run needs a snapshot store in the project storage section")
		}
		snap, err := store.Load(ctx, opts.RunID)
		if err != nil {
			return fmt.Errorf("failed to load run %q: %w", opts.RunID, err)
		}
		gopts.Overlay = &graph.Overlay{Occupancy: snap.Occupancy}
	}

	_, err = fmt.Fprintln(out, graph.GenerateMermaid(engine.Topology(), gopts))
	return err
}
