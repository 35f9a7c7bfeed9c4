// Package web provides the HTTP API for catalog imports.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/catalog-import/internal/config"
	"github.com/JonMunkholm/catalog-import/internal/importer"
	"github.com/JonMunkholm/catalog-import/internal/storage"
	weblog "github.com/JonMunkholm/catalog-import/internal/web/middleware"
)

// Pinger reports whether the catalog database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RunHistory lists stored import runs.
type RunHistory interface {
	Recent(ctx context.Context, limit int) ([]storage.ImportRun, error)
	Get(ctx context.Context, runID string) (*storage.ImportRun, error)
}

// Options wires a Server.
type Options struct {
	Importer *importer.Importer
	DB       Pinger

	// History serves /api/imports. Nil disables the endpoints.
	History RunHistory

	// Gatherer serves /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	Server config.ServerConfig
	Import config.ImportConfig
}

// Server is the HTTP server for the catalog import API.
type Server struct {
	importer *importer.Importer
	db       Pinger
	history  RunHistory
	gatherer prometheus.Gatherer
	cfg      config.ServerConfig
	importCf config.ImportConfig
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new Server instance.
func NewServer(opts Options) *Server {
	s := &Server{
		importer: opts.Importer,
		db:       opts.DB,
		history:  opts.History,
		gatherer: opts.Gatherer,
		cfg:      opts.Server,
		importCf: opts.Import,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(weblog.Logger)
	s.router.Use(middleware.Recoverer)
}

// setupRoutes configures all HTTP routes. Imports are bounded by the import
// timeout instead of the request timeout.
func (s *Server) setupRoutes() {
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.requestTimeout()))

		r.Get("/healthz", s.handleHealth)
		r.Get("/api/callbacks", s.handleCallbacks)
		if s.history != nil {
			r.Get("/api/imports", s.handleListRuns)
			r.Get("/api/imports/{runID}", s.handleGetRun)
		}
		if s.gatherer != nil {
			r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
		}
	})

	s.router.Post("/api/import", s.handleImport)
}

func (s *Server) requestTimeout() time.Duration {
	if s.cfg.RequestTimeout > 0 {
		return s.cfg.RequestTimeout
	}
	return 60 * time.Second
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start begins listening for HTTP requests. It returns http.ErrServerClosed
// after Shutdown.
func (s *Server) Start() error {
	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for running imports to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	return s.importer.Limiter().WaitForDrain(ctx)
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
