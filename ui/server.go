// Package ui exposes the design and analysis services over a small JSON API.
// All computation stays in the core packages; handlers only decode, invoke,
// and encode.
package ui

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fac2x2/adapters/excel"
	"fac2x2/app"
	"fac2x2/ports"
)

// Server wires the app services into HTTP routes
type Server struct {
	design      *app.DesignService
	analysis    *app.AnalysisService
	sweep       *app.SweepService
	scenarios   ports.ScenarioRepository
	excel       *excel.ReportWriter
	defaultSeed int64
}

// Config holds server dependencies
type Config struct {
	Design      *app.DesignService
	Analysis    *app.AnalysisService
	Sweep       *app.SweepService
	Scenarios   ports.ScenarioRepository
	DefaultSeed int64
}

// NewServer creates the API server
func NewServer(cfg Config) *Server {
	return &Server{
		design:      cfg.Design,
		analysis:    cfg.Analysis,
		sweep:       cfg.Sweep,
		scenarios:   cfg.Scenarios,
		excel:       excel.NewReportWriter(),
		defaultSeed: cfg.DefaultSeed,
	}
}

// Routes builds the chi router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/design", s.handleDesign)
		r.Post("/design/report", s.handleDesignReport)
		r.Post("/design/export", s.handleDesignExport)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/sweep", s.handleSweep)
		r.Get("/scenarios", s.handleListScenarios)
		r.Get("/scenarios/{id}", s.handleGetScenario)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

// ListenAndServe runs the server on the given port
func (s *Server) ListenAndServe(port string) error {
	log.Printf("[Server] listening on :%s", port)
	return http.ListenAndServe(":"+port, s.Routes())
}
