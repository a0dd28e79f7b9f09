// Package diag implements a minimal, read-only HTTP introspection server
// over the Phase Pipeline: the last TickReport, registry entity count,
// and wave statistics. It never mutates simulation state — every handler
// is a pure observer, the same role the ports package's read-only
// accessors play inside the core.
package diag

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tickforge/simcore/entityregistry"
	"github.com/tickforge/simcore/pipeline"
	"github.com/tickforge/simcore/simlog"
)

// Reporter feeds the server the state it exposes. Pipeline.Tick's
// returned TickReport is pushed in via RecordTick; the server never
// pulls from the pipeline directly so it stays decoupled from the tick
// loop's goroutine.
type Reporter struct {
	mu       sync.RWMutex
	last     pipeline.TickReport
	registry *entityregistry.Registry
}

// NewReporter builds a Reporter over registry, used to answer the active
// entity count endpoint. registry may be nil if that endpoint isn't
// needed.
func NewReporter(registry *entityregistry.Registry) *Reporter {
	return &Reporter{registry: registry}
}

// RecordTick stores report as the latest tick snapshot. Call this once
// per Pipeline.Tick, from whichever goroutine drives the tick loop.
func (r *Reporter) RecordTick(report pipeline.TickReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = report
}

// LastTick returns the most recently recorded TickReport.
func (r *Reporter) LastTick() pipeline.TickReport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Config configures the Server's listen address and graceful-shutdown
// budget.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Server wraps a chi router and a stdlib http.Server over a Reporter.
type Server struct {
	config   Config
	reporter *Reporter
	log      simlog.Logger
	router   chi.Router
	server   *http.Server
}

// NewServer builds a Server, mounting its read-only routes onto a fresh
// chi.Router. A nil log falls back to simlog.NopLogger{}.
func NewServer(config Config, reporter *Reporter, log simlog.Logger) *Server {
	if log == nil {
		log = simlog.NopLogger{}
	}
	s := &Server{config: config, reporter: reporter, log: log, router: chi.NewRouter()}
	s.router.Use(middleware.Recoverer)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/tick", s.handleLastTick)
	s.router.Get("/entities/active", s.handleActiveCount)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleLastTick(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.reporter.LastTick())
}

type activeCountResponse struct {
	ActiveEntities int `json:"activeEntities"`
}

func (s *Server) handleActiveCount(w http.ResponseWriter, _ *http.Request) {
	if s.reporter.registry == nil {
		writeJSON(w, activeCountResponse{})
		return
	}
	writeJSON(w, activeCountResponse{ActiveEntities: len(s.reporter.registry.GetAllActive())})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Start launches the HTTP server on a background goroutine and returns
// immediately; a failure to bind is logged, not returned, since the
// caller is the tick loop and diagnostics failing shouldn't halt
// simulation.
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{Addr: s.config.Addr, Handler: s.router}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("diag server failed", "addr", s.config.Addr, "err", err)
		}
	}()
	s.log.Info("diag server started", "addr", s.config.Addr)
	return nil
}

// Stop gracefully shuts the server down within the configured
// ShutdownTimeout.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("diag: shutting down server: %w", err)
	}
	s.log.Info("diag server stopped")
	return nil
}
