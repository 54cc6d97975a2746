// Package server exposes the brick analysis pipeline over HTTP.
//
// Routes:
//
//	POST /v1/analyze                          analyze a snapshot, store the report
//	GET  /v1/reports                          list stored reports, newest first
//	GET  /v1/reports/{id}                     full report (JSON, or YAML with ?format=yaml)
//	GET  /v1/reports/{id}/dot                 support graph as Graphviz DOT
//	GET  /v1/reports/{id}/bricks/{brick}/fall bricks that fall when one is removed
//	GET  /healthz                             liveness and build info
//
// Errors are returned as {"error": "...", "code": "..."} with a status derived
// from the error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/brickfall/pkg/observability"
	"github.com/matzehuels/brickfall/pkg/pipeline"
	"github.com/matzehuels/brickfall/pkg/store"
)

// MaxBodyBytes bounds an analyze request body.
const MaxBodyBytes = 8 << 20

// Config wires the server's dependencies.
type Config struct {
	Runner  *pipeline.Runner
	Store   store.Store
	Logger  *log.Logger
	Workers int // analyzer goroutines per request; 0 means one per CPU
}

// Server handles API requests. Create with [New].
type Server struct {
	runner  *pipeline.Runner
	store   store.Store
	logger  *log.Logger
	workers int
	router  chi.Router
}

// New builds a server and its routes. A nil Runner gets an uncached runner;
// a nil Store gets an in-memory store.
func New(cfg Config) *Server {
	s := &Server{
		runner:  cfg.Runner,
		store:   cfg.Store,
		logger:  cfg.Logger,
		workers: cfg.Workers,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/reports", s.handleListReports)
		r.Route("/reports/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetReport)
			r.Get("/dot", s.handleReportDOT)
			r.Get("/bricks/{brick}/fall", s.handleFall)
		})
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// instrument reports requests to the registered HTTP hooks.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}
