package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/pathway/internal/presentation/graph"
	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/policy"
	"github.com/aretw0/pathway/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config is what the server exposes.
type Config struct {
	Name     string
	Start    string
	Topology *domain.Topology
	Routes   policy.Routes
	Store    ports.SnapshotStore
	// Gatherer serves /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Server serves read-only views of a project and its run snapshots.
type Server struct {
	cfg    Config
	logger *slog.Logger
}

// BubbleView is the JSON form of a bubble.
type BubbleView struct {
	Slug        string        `json:"slug"`
	Description string        `json:"description,omitempty"`
	Depth       int           `json:"depth"`
	Connections []string      `json:"connections"`
	Route       *policy.Route `json:"route,omitempty"`
}

// TopologyView is the JSON form of the topology.
type TopologyView struct {
	Name    string       `json:"name,omitempty"`
	Start   string       `json:"start,omitempty"`
	Bubbles []BubbleView `json:"bubbles"`
}

// NewHandler creates a new HTTP handler for the project.
func NewHandler(cfg Config) http.Handler {
	s := &Server{cfg: cfg, logger: cfg.Logger}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/topology", s.GetTopology)
	r.Get("/graph", s.GetGraph)
	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.ListRuns)
		r.Get("/{runID}", s.GetRun)
		r.Delete("/{runID}", s.DeleteRun)
		r.Get("/{runID}/diff/{otherID}", s.DiffRuns)
	})
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetTopology handles GET /topology.
func (s *Server) GetTopology(w http.ResponseWriter, r *http.Request) {
	view := TopologyView{
		Name:    s.cfg.Name,
		Start:   s.cfg.Start,
		Bubbles: make([]BubbleView, 0, s.cfg.Topology.Len()),
	}
	for _, b := range s.cfg.Topology.Bubbles() {
		bv := BubbleView{
			Slug:        b.Slug,
			Description: b.Description,
			Depth:       b.Depth,
			Connections: make([]string, 0),
		}
		for _, c := range b.Connections() {
			bv.Connections = append(bv.Connections, c.Slug)
		}
		if route, ok := s.cfg.Routes[b.Slug]; ok {
			bv.Route = &route
		}
		view.Bubbles = append(view.Bubbles, bv)
	}
	s.writeJSON(w, http.StatusOK, view)
}

// GetGraph handles GET /graph[?run=ID]. With a run, occupancy is overlaid.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	opts := graph.Options{Start: s.cfg.Start, Routes: s.cfg.Routes}

	if runID := r.URL.Query().Get("run"); runID != "" {
		snap, ok := s.loadSnapshot(w, r, runID)
		if !ok {
			return
		}
		opts.Overlay = &graph.Overlay{Occupancy: snap.Occupancy}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(s.cfg.Topology, opts)))
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	runs, err := s.cfg.Store.List(r.Context())
	if err != nil {
		s.logger.Error("ListRuns failed", "err", err)
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []string{}
	}
	s.writeJSON(w, http.StatusOK, runs)
}

// GetRun handles GET /runs/{runID}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadSnapshot(w, r, chi.URLParam(r, "runID"))
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// DeleteRun handles DELETE /runs/{runID}.
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.cfg.Store.Delete(r.Context(), chi.URLParam(r, "runID")); err != nil {
		s.logger.Error("DeleteRun failed", "err", err)
		http.Error(w, "failed to delete run", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DiffRuns handles GET /runs/{runID}/diff/{otherID}: what changed from runID to otherID.
func (s *Server) DiffRuns(w http.ResponseWriter, r *http.Request) {
	from, ok := s.loadSnapshot(w, r, chi.URLParam(r, "runID"))
	if !ok {
		return
	}
	to, ok := s.loadSnapshot(w, r, chi.URLParam(r, "otherID"))
	if !ok {
		return
	}
	diff := domain.Diff(from, to)
	if diff == nil {
		diff = &domain.SnapshotDiff{RunID: to.RunID}
	}
	s.writeJSON(w, http.StatusOK, diff)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.cfg.Store == nil {
		http.Error(w, "no snapshot store configured", http.StatusNotImplemented)
		return false
	}
	return true
}

func (s *Server) loadSnapshot(w http.ResponseWriter, r *http.Request, runID string) (*domain.Snapshot, bool) {
	if !s.requireStore(w) {
		return nil, false
	}
	snap, err := s.cfg.Store.Load(r.Context(), runID)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			http.Error(w, "run not found", http.StatusNotFound)
			return nil, false
		}
		s.logger.Error("Load snapshot failed", "run", runID, "err", err)
		http.Error(w, "failed to load run", http.StatusInternalServerError)
		return nil, false
	}
	return snap, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "err", err)
	}
}
