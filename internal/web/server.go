// Package web provides the HTTP API over the entity registry.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/masterdata/internal/config"
	"github.com/JonMunkholm/masterdata/internal/core"
	"github.com/JonMunkholm/masterdata/internal/web/middleware"
)

// Options carries the server's optional collaborators.
type Options struct {
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	// Health is called by /healthz. Nil always reports healthy.
	Health func(ctx context.Context) error
}

// Server is the HTTP server for the master-data API.
type Server struct {
	registry *core.Registry
	cfg      *config.Config
	opts     Options
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a Server serving every entity in reg.
func NewServer(reg *core.Registry, cfg *config.Config, opts Options) *Server {
	s := &Server{
		registry: reg,
		cfg:      cfg,
		opts:     opts,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	}
	s.router.Use(securityHeaders)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	if s.opts.Gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(s.cfg.Security))

		r.Get("/entities", s.handleListEntities)

		r.Route("/{entity}", func(r chi.Router) {
			r.Use(s.entityContext)

			r.Get("/", s.handleList)
			r.Get("/template", s.handleTemplate)
			r.Get("/export", s.handleExport)
			r.Get("/{id}", s.handleGet)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireActor)

				r.Post("/", s.handleCreate)
				r.Post("/import", s.handleImport)
				r.Put("/{id}", s.handleUpdate)
				r.Delete("/{id}", s.handleDelete)
			})
		})
	})
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds hardening headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v with status. Encoding errors are logged since the
// header is already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
