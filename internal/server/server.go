package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/liftlog/internal/ingest/alpha"
	"github.com/meltforce/liftlog/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  storage.Backend
	alpha  *alpha.Importer
	users  map[string]string
	log    *slog.Logger
	router chi.Router
}

// New creates a new Server with all routes configured. users maps each
// login to its password for HTTP Basic auth.
func New(store storage.Backend, importer *alpha.Importer, users map[string]string, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		alpha:  importer,
		users:  users,
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(BasicAuth(s.users, s.store, s.log))

		r.Post("/sessions", s.handleStartSession)
		r.Get("/sessions/{id}", s.handleSessionDetail)
		r.Put("/sessions/{id}/end", s.handleEndSession)
		r.Delete("/sessions/{id}", s.handleDeleteSession)

		r.Get("/exercises", s.handleListExercises)
		r.Post("/exercises", s.handleCreateExercise)
		r.Get("/exercises/{id}/last-set", s.handleLastSet)

		r.Post("/sets", s.handleCreateSet)
		r.Put("/sets/{id}", s.handleUpdateSet)
		r.Delete("/sets/{id}", s.handleDeleteSet)

		r.Get("/history", s.handleHistory)
		r.Get("/history/summary", s.handleTrainingSummary)

		r.Post("/import/alpha", s.handleAlphaImport)
	})
}
