// Package client implements the remote store over the liftlog REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/liftlog/internal/auth"
	"github.com/meltforce/liftlog/internal/ingest"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/tracker"
)

// Client calls the liftlog server, attaching the gate's credential to every
// request. A 401 response revokes the credential.
type Client struct {
	baseURL    string
	httpClient *http.Client
	gate       *auth.Gate
	log        *slog.Logger
}

// Compile-time check: Client is the tracker's remote store.
var _ tracker.Store = (*Client)(nil)

// New creates a Client targeting baseURL. Requests are bounded only by the
// caller's context.
func New(baseURL string, gate *auth.Gate, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		gate:       gate,
		log:        log,
	}
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do sends a request and decodes the envelope's data into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body io.Reader, contentType string, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cred := c.gate.Credential(); cred != "" {
		req.Header.Set("Authorization", cred)
	}

	c.log.Debug("api request", "method", method, "path", path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", models.ErrTransient, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		c.gate.Revoke()
		return fmt.Errorf("%s %s: %w", method, path, models.ErrUnauthorized)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", models.ErrTransient, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return fmt.Errorf("%s %s returned %d: %w", method, path, resp.StatusCode, statusError(resp.StatusCode, ""))
		}
		return fmt.Errorf("%w: decode response: %w", models.ErrTransient, err)
	}

	if resp.StatusCode >= 300 || !env.OK {
		code, msg := "", "unknown API error"
		if env.Error != nil {
			code, msg = env.Error.Code, env.Error.Message
		}
		return fmt.Errorf("%s %s: %s: %w", method, path, msg, statusError(resp.StatusCode, code))
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %w", models.ErrTransient, err)
	}
	return nil
}

// statusError maps an HTTP status and envelope code to a sentinel error.
func statusError(status int, code string) error {
	switch {
	case status == http.StatusNotFound || code == "NOT_FOUND":
		return models.ErrNotFound
	case status == http.StatusBadRequest || code == "INVALID_INPUT":
		return models.ErrInvalidInput
	case code == "UNAUTHORIZED":
		return models.ErrUnauthorized
	default:
		return models.ErrTransient
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, params url.Values, in, out any) error {
	if in == nil {
		return c.do(ctx, method, path, params, nil, "", out)
	}
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("client: encode request: %w", err)
	}
	return c.do(ctx, method, path, params, bytes.NewReader(b), "application/json", out)
}

// StartSession creates a new active session for the authenticated user.
func (c *Client) StartSession(ctx context.Context) (*models.Session, error) {
	var s models.Session
	if err := c.doJSON(ctx, http.MethodPost, "/api/sessions", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// EndSession stamps the session's end time.
func (c *Client) EndSession(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	if err := c.doJSON(ctx, http.MethodPut, "/api/sessions/"+url.PathEscape(id)+"/end", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSession deletes a session. Its sets are not removed.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/sessions/"+url.PathEscape(id), nil, nil, nil)
}

// SessionDetail returns a session with its sets and referenced exercises.
func (c *Client) SessionDetail(ctx context.Context, id string) (*models.SessionDetail, error) {
	var d models.SessionDetail
	if err := c.doJSON(ctx, http.MethodGet, "/api/sessions/"+url.PathEscape(id), nil, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListHistory returns completed sessions of the authenticated user.
func (c *Client) ListHistory(ctx context.Context) ([]models.Session, error) {
	var out []models.Session
	if err := c.doJSON(ctx, http.MethodGet, "/api/history", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TrainingSummary returns per-period volume between start and end.
func (c *Client) TrainingSummary(ctx context.Context, start, end time.Time, bucket string) ([]models.TrainingPeriod, error) {
	params := url.Values{}
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))
	params.Set("bucket", bucket)

	var out []models.TrainingPeriod
	if err := c.doJSON(ctx, http.MethodGet, "/api/history/summary", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListExercises returns catalog entries, filtered by a case-insensitive
// substring when query is non-empty.
func (c *Client) ListExercises(ctx context.Context, query string) ([]models.Exercise, error) {
	var params url.Values
	if query != "" {
		params = url.Values{"query": {query}}
	}
	var out []models.Exercise
	if err := c.doJSON(ctx, http.MethodGet, "/api/exercises", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateExercise adds a catalog entry. Names are not unique.
func (c *Client) CreateExercise(ctx context.Context, name string) (*models.Exercise, error) {
	var e models.Exercise
	if err := c.doJSON(ctx, http.MethodPost, "/api/exercises", nil, map[string]string{"name": name}, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// LastSet returns the newest set for the exercise outside currentSessionID,
// or nil when none exists.
func (c *Client) LastSet(ctx context.Context, exerciseID, currentSessionID string) (*models.WorkoutSet, error) {
	params := url.Values{"currentSessionId": {currentSessionID}}
	var s *models.WorkoutSet
	if err := c.doJSON(ctx, http.MethodGet, "/api/exercises/"+url.PathEscape(exerciseID)+"/last-set", params, nil, &s); err != nil {
		return nil, err
	}
	return s, nil
}

// CreateSet records a set; the server assigns ID and order.
func (c *Client) CreateSet(ctx context.Context, in models.NewSet) (*models.WorkoutSet, error) {
	var s models.WorkoutSet
	if err := c.doJSON(ctx, http.MethodPost, "/api/sets", nil, in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSet applies a partial update.
func (c *Client) UpdateSet(ctx context.Context, id string, patch models.SetPatch) (*models.WorkoutSet, error) {
	var s models.WorkoutSet
	if err := c.doJSON(ctx, http.MethodPut, "/api/sets/"+url.PathEscape(id), nil, patch, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSet removes a set.
func (c *Client) DeleteSet(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/sets/"+url.PathEscape(id), nil, nil, nil)
}

// ImportAlpha uploads an Alpha Progression CSV export.
func (c *Client) ImportAlpha(ctx context.Context, csv io.Reader, includeWarmups bool) (*ingest.Result, error) {
	params := url.Values{"warmups": {strconv.FormatBool(includeWarmups)}}
	var res ingest.Result
	if err := c.do(ctx, http.MethodPost, "/api/import/alpha", params, csv, "text/csv", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// IsAuthError reports whether err means the user must log in again.
func IsAuthError(err error) bool {
	return errors.Is(err, models.ErrUnauthorized)
}
