package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/liftlog/internal/models"
)

const (
	codeNotFound     = "NOT_FOUND"
	codeUnauthorized = "UNAUTHORIZED"
	codeInvalidInput = "INVALID_INPUT"
	codeInternal     = "INTERNAL"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// envelope is the body of every API response.
type envelope struct {
	OK    bool      `json:"ok"`
	Data  any       `json:"data"`
	Error *apiError `json:"error,omitempty"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.StartSession(r.Context(), userFromContext(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, session)
}

func (s *Server) handleSessionDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.ownedSession(r, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, detail)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.ownedSession(r, id); err != nil {
		s.writeError(w, err)
		return
	}
	session, err := s.store.EndSession(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.ownedSession(r, id); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.DeleteSession(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ownedSession loads a session and hides sessions of other users.
func (s *Server) ownedSession(r *http.Request, id string) (*models.SessionDetail, error) {
	detail, err := s.store.SessionDetail(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if detail.UserID != userFromContext(r) {
		return nil, models.NotFound("session", id)
	}
	return detail, nil
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.ListHistory(r.Context(), userFromContext(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, sessions)
}

func (s *Server) handleTrainingSummary(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r, 12*7)
	if err != nil {
		s.writeError(w, models.Invalid(err.Error()))
		return
	}
	bucket := r.URL.Query().Get("bucket")
	if bucket == "" {
		bucket = "week"
	}
	periods, err := s.store.TrainingSummary(r.Context(), userFromContext(r), start, end, bucket)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, periods)
}

func (s *Server) handleAlphaImport(w http.ResponseWriter, r *http.Request) {
	warmups, _ := strconv.ParseBool(r.URL.Query().Get("warmups"))
	result, err := s.alpha.Import(r.Context(), r.Body, userFromContext(r), warmups)
	if err != nil {
		s.log.Error("alpha import error", "error", err)
		s.writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{OK: true, Data: data})
}

func writeFail(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{OK: false, Error: &apiError{Code: code, Message: message}})
}

// writeError maps sentinel errors to status codes. Unclassified errors are
// logged and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeFail(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidInput):
		writeFail(w, http.StatusBadRequest, codeInvalidInput, err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		writeFail(w, http.StatusUnauthorized, codeUnauthorized, err.Error())
	default:
		s.log.Error("request failed", "error", err)
		writeFail(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

// parseTimeRange reads start/end as RFC 3339 or YYYY-MM-DD. Without start,
// the range covers the last defaultDays days.
func parseTimeRange(r *http.Request, defaultDays int) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if endStr == "" {
		end = time.Now()
	} else if end, err = parseTime(endStr); err != nil {
		return time.Time{}, time.Time{}, err
	}

	if startStr == "" {
		return end.AddDate(0, 0, -defaultDays), end, nil
	}
	if start, err = parseTime(startStr); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
	}
	return t, err
}
