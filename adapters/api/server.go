package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"replayrng/app"
	"replayrng/internal"
	apperrors "replayrng/internal/errors"
)

// Server exposes generator sessions over JSON/HTTP
type Server struct {
	router  *chi.Mux
	service *app.GeneratorService
	logger  *internal.Logger
}

// NewServer creates the HTTP surface for service
func NewServer(service *app.GeneratorService, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		logger:  logger.With("api"),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/generators", func(r chi.Router) {
		r.Post("/", s.handleCreate)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)

			// Consuming draws
			r.Post("/next", s.handleNext)
			r.Post("/next-float", s.handleNextFloat)
			r.Post("/range", s.handleRange)
			r.Post("/restore", s.handleRestore)

			// Non-consuming peeks
			r.Get("/peek", s.handlePeek)
			r.Get("/peek-float", s.handlePeekFloat)
			r.Get("/peek-range", s.handlePeekRange)

			r.Post("/snapshots", s.handleSaveSnapshot)
		})
	})

	s.router.Get("/api/snapshots", s.handleListSnapshots)
	s.router.Post("/api/snapshots/{snapshotId}/load", s.handleLoadSnapshot)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	err = apperrors.FromDomain(err)
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed: %v", err)
	} else {
		s.logger.Debug("Request rejected: %v", err)
	}
	s.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	})
}
