package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/niknshinde/Traditional-Rag/internal/api/handlers"
	"github.com/niknshinde/Traditional-Rag/internal/config"
	"github.com/niknshinde/Traditional-Rag/internal/core"
	"github.com/niknshinde/Traditional-Rag/internal/services"
	"github.com/niknshinde/Traditional-Rag/pkg/logger"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        logger.Logger
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, db core.DbClient, docs *services.DocumentService, query *services.QueryService, log logger.Logger) *Server {
	statusHandler := handlers.NewStatusHandler(db, log)
	docHandler := handlers.NewDocumentHandler(docs, log)
	queryHandler := handlers.NewQueryHandler(query, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// Serve the static UI from the web directory.
	fileServer := http.FileServer(http.Dir("./web"))
	r.Handle("/*", fileServer)

	r.Route("/api", func(api chi.Router) {
		api.Get("/status", statusHandler.GetStatus)
		api.Get("/documents", docHandler.GetDocuments)
		api.Post("/upload", docHandler.UploadDocument)
		api.Post("/query", queryHandler.Query)
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv, log: log.Named("http")}
}

// Start runs the HTTP server.
func (s *Server) Start() {
	s.log.Info("HTTP server listening", logger.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.log.Fatal("server error", logger.Error(err))
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
