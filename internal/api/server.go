package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dgallion1/curricula/internal/classify"
	"github.com/dgallion1/curricula/internal/config"
	"github.com/dgallion1/curricula/internal/pipeline"
)

// Server is the HTTP API server for curricula.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	classifier   *classify.Classifier
	catalog      config.Catalog
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, classifier *classify.Classifier, catalog config.Catalog, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		classifier:   classifier,
		catalog:      catalog,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/parse", s.handleParse)
		r.Post("/api/classify", s.handleClassify)

		r.Post("/api/ingest", s.handleIngest)
		r.Post("/api/ingest/batch", s.handleBatchIngest)
		r.Get("/api/ingest/{jobID}/status", s.handleIngestStatus)
		r.Get("/api/ingest/{jobID}/result", s.handleIngestResult)

		r.Get("/api/programs", s.handleListPrograms)
		r.Post("/api/programs/refresh", s.handleRefreshAll)
		r.Get("/api/programs/{programID}", s.handleGetProgram)
		r.Get("/api/programs/{programID}/history", s.handleProgramHistory)
		r.Post("/api/programs/{programID}/refresh", s.handleRefreshProgram)

		r.Get("/api/stats/parse", s.handleParseStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"programs":    len(s.catalog.Programs),
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
