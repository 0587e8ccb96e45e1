package server

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"
)

type contextKey string

const userKey contextKey = "user"

// UserEnsurer records that a login has made an authenticated request.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, login string) error
}

// BasicAuth returns middleware that checks HTTP Basic credentials against
// users and stores the login in the request context.
func BasicAuth(users map[string]string, ensurer UserEnsurer, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			login, pass, ok := r.BasicAuth()
			if !ok {
				writeFail(w, http.StatusUnauthorized, codeUnauthorized, "missing credentials")
				return
			}
			want, known := users[login]
			if !known || subtle.ConstantTimeCompare([]byte(pass), []byte(want)) != 1 {
				writeFail(w, http.StatusUnauthorized, codeUnauthorized, "invalid credentials")
				return
			}
			if err := ensurer.EnsureUser(r.Context(), login); err != nil {
				log.Error("ensuring user", "login", login, "error", err)
				writeFail(w, http.StatusInternalServerError, codeInternal, "internal error")
				return
			}
			ctx := context.WithValue(r.Context(), userKey, login)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// userFromContext returns the authenticated login, or "" outside BasicAuth.
func userFromContext(r *http.Request) string {
	login, _ := r.Context().Value(userKey).(string)
	return login
}

// RequestLogging returns middleware that logs each request.
func RequestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// CORS adds permissive CORS headers so browser clients can call the API.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter wraps ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
