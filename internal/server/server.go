// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/cybrdelic/repotronium/internal/insight"
	"github.com/cybrdelic/repotronium/internal/pipeline"
	"github.com/cybrdelic/repotronium/internal/report"
	"github.com/cybrdelic/repotronium/internal/store"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS and websocket origins (dev mode)
}

// Runner executes one analysis; satisfied by *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, owner, repo string, opts pipeline.Options) (*pipeline.Bundle, error)
}

// Server is the analysis API server.
type Server struct {
	cfg        Config
	runner     Runner
	generator  Insighter
	store      *store.Store
	renderer   *report.Renderer
	upgrader   websocket.Upgrader
	router     chi.Router
	httpServer *http.Server
}

// New creates a Server. generator, store, and renderer may be nil, in which
// case the endpoints depending on them report the feature as unavailable.
func New(cfg Config, runner Runner, generator Insighter, st *store.Store, renderer *report.Renderer) *Server {
	s := &Server{
		cfg:       cfg,
		runner:    runner,
		generator: generator,
		store:     st,
		renderer:  renderer,
	}
	if cfg.AllowAll {
		s.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/analyze/{owner}/{repo}", handleAnalyze(s.runner))
		r.Get("/analyze/{owner}/{repo}/ws", s.handleAnalyzeWS)
		r.Get("/advanced-analysis/{owner}/{repo}", handleAdvancedAnalysis(s.runner, s.store))
		r.Post("/business-insights", handleBusinessInsights(s.generator))
		r.Get("/analyses", handleListAnalyses(s.store))
		r.Get("/analyses/{id}", handleGetAnalysis(s.store))
		r.Get("/analyses/{id}/report", handleAnalysisReport(s.store, s.renderer))
	})

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("repotronium server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// allKinds returns the report kinds generated for an advanced analysis.
func allKinds() []insight.Kind {
	kinds := make([]insight.Kind, len(insight.Kinds))
	copy(kinds, insight.Kinds)
	return kinds
}
