package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/liftlog/internal/models"
)

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.store.ListExercises(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, exercises)
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, models.Invalid("invalid JSON: "+err.Error()))
		return
	}
	e, err := s.store.CreateExercise(r.Context(), body.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, e)
}

// handleLastSet answers with data: null when the exercise has no set
// outside the current session.
func (s *Server) handleLastSet(w http.ResponseWriter, r *http.Request) {
	ws, err := s.store.LastSet(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("currentSessionId"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, ws)
}

func (s *Server) handleCreateSet(w http.ResponseWriter, r *http.Request) {
	var in models.NewSet
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.writeError(w, models.Invalid("invalid JSON: "+err.Error()))
		return
	}
	if err := in.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := s.ownedSession(r, in.SessionID); err != nil {
		s.writeError(w, err)
		return
	}
	ws, err := s.store.CreateSet(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, ws)
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	var patch models.SetPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.writeError(w, models.Invalid("invalid JSON: "+err.Error()))
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.ownedSet(r, id); err != nil {
		s.writeError(w, err)
		return
	}
	ws, err := s.store.UpdateSet(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, ws)
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.ownedSet(r, id); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.DeleteSet(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ownedSet hides sets whose session belongs to another user or no longer
// exists.
func (s *Server) ownedSet(r *http.Request, id string) error {
	ws, err := s.store.GetSet(r.Context(), id)
	if err != nil {
		return err
	}
	if _, err := s.ownedSession(r, ws.SessionID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NotFound("set", id)
		}
		return err
	}
	return nil
}
