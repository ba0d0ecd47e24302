package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/pathway"
	httpAdapter "github.com/aretw0/pathway/pkg/adapters/http"
	"github.com/aretw0/pathway/pkg/adapters/memory"
	"github.com/aretw0/pathway/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions holds configuration for the serve command.
type ServeOptions struct {
	EngineOptions
	Addr string
	// Simulate runs the project once before serving so /runs is not empty.
	Simulate bool
}

// newServer wires the engine, the metrics registry and the HTTP handler.
// Projects without a snapshot store get an in-memory one.
func newServer(ctx context.Context, opts ServeOptions, logger *slog.Logger) (http.Handler, *pathway.Engine, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, nil, err
	}

	engine, err := createEngine(opts.EngineOptions, logger, pathway.WithMetrics(metrics))
	if err != nil {
		return nil, nil, err
	}
	store := engine.Store()
	if store == nil {
		_ = engine.Close()
		engine, err = createEngine(opts.EngineOptions, logger,
			pathway.WithMetrics(metrics),
			pathway.WithSnapshotStore(memory.NewStore()),
		)
		if err != nil {
			return nil, nil, err
		}
		store = engine.Store()
	}

	if opts.Simulate {
		res, _, err := engine.Run(ctx, "")
		if err != nil {
			_ = engine.Close()
			return nil, nil, fmt.Errorf("initial run failed: %w", err)
		}
		logger.Info("initial run finished", "run", res.RunID, "events", res.Events, "reason", res.Reason)
	}

	handler := httpAdapter.NewHandler(httpAdapter.Config{
		Name:     engine.Name,
		Start:    engine.Start(),
		Topology: engine.Topology(),
		Routes:   engine.Routes(),
		Store:    store,
		Gatherer: reg,
		Logger:   logger,
	})
	return handler, engine, nil
}

// Serve starts the HTTP server and blocks until ctx is cancelled or a signal arrives.
func Serve(ctx context.Context, opts ServeOptions, out io.Writer) error {
	logger, err := createLogger(opts.Log)
	if err != nil {
		return err
	}

	sc := NewSignalContext(ctx)
	defer sc.Cancel()

	handler, engine, err := newServer(sc, opts, logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(out, "Serving %q on %s", engine.Name, srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-sc.Done():
		if sig := sc.Signal(); sig != nil {
			printSystemMessage(out, "Shutting down (signal: %v)", sig)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		printSystemMessage(out, "Server stopped gracefully")
		return nil
	}
}
