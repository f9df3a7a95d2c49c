// Package server provides HTTP server management and lifecycle handling for the pharmacy API.
// It includes server setup, middleware configuration, route management, and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/eczane/pharmacy-api/config"
	"github.com/eczane/pharmacy-api/interfaces"
	"github.com/eczane/pharmacy-api/logging"
	"github.com/eczane/pharmacy-api/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  chi.Router
	handler interfaces.HTTPHandler
	config  *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, handler interfaces.HTTPHandler) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second, // RxNorm interaction lookups can take 15s
			IdleTimeout:  60 * time.Second,
		},
		router:  router,
		handler: handler,
		config:  cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	if s.config.RequireProxy {
		s.router.Use(BlockDirectAccessMiddleware) // before RealIPMiddleware to see the original RemoteAddr
	}
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.Logger()))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Metrics)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(RateLimitHandler)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	h := s.handler

	s.router.Route("/api/pharmacy", func(r chi.Router) {
		r.Post("/interactions", h.CheckInteractions)
		r.Get("/alternatives/{drug}", h.Alternatives)
		r.Post("/comprehensive-check", h.ComprehensiveCheck)

		r.Get("/pregnancy/{drug}", h.PregnancySafety)
		r.Post("/pregnancy", h.PregnancySafetyMany)
		r.Get("/pregnancy-categories", h.PregnancyCategories)

		r.Route("/dose", func(r chi.Router) {
			r.Post("/pediatric", h.PediatricDose)
			r.Post("/renal", h.RenalDose)
			r.Post("/hepatic", h.HepaticDose)
			r.Post("/comprehensive", h.ComprehensiveDose)
		})

		r.Route("/fda", func(r chi.Router) {
			r.Get("/label/{drug}", h.FDALabel)
			r.Get("/adverse/{drug}", h.FDAAdverseEvents)
			r.Get("/interactions/{drug}", h.FDAInteractions)
			r.Get("/pregnancy/{drug}", h.FDAPregnancy)
			r.Get("/recalls/{drug}", h.FDARecalls)
		})

		r.Route("/rxnorm", func(r chi.Router) {
			r.Get("/search/{drug}", h.RxNormSearch)
			r.Post("/interactions", h.RxNormInteractions)
			r.Get("/class/{rxcui}", h.RxNormClass)
		})

		r.Route("/icd10", func(r chi.Router) {
			r.Get("/search/{query}", h.ICD10Search)
			r.Get("/code/{code}", h.ICD10ByCode)
			r.Get("/category/{category}", h.ICD10ByCategory)
			r.Get("/categories", h.ICD10Categories)
			r.Get("/drugs/{code}", h.ICD10Drugs)
		})

		r.Route("/titck", func(r chi.Router) {
			r.Get("/search/{query}", h.TITCKSearch)
			r.Get("/drug/{name}", h.TITCKDrug)
			r.Get("/warnings/{drug}", h.TITCKWarnings)
			r.Get("/otc", h.TITCKOTC)
			r.Get("/reimbursed", h.TITCKReimbursed)
			r.Get("/atc/{code}", h.TITCKByATC)
		})
	})

	s.router.Get("/health", h.HealthCheck)
	s.router.Handle("/metrics", promhttp.Handler())
}

// Router exposes the configured router, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the server
func (s *Server) Start() error {
	// Start profiling server if in development mode
	if s.config.Env == config.EnvDevelopment {
		s.startProfilingServer()
	}

	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}

// startProfilingServer starts the pprof profiling server in development mode
func (s *Server) startProfilingServer() {
	go func() {
		logging.Info("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			logging.Warn("Profiling server failed", "error", err)
		}
	}()
}
