package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/tracker"
)

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// timeRange parses optional start/end, defaulting end to now and start to
// end minus back.
func timeRange(startStr, endStr string, back func(time.Time) time.Time) (time.Time, time.Time, error) {
	end := time.Now()
	if endStr != "" {
		t, err := parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = t
	}
	if startStr == "" {
		return back(end), end, nil
	}
	start, err := parseFlexTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// --- Tool definitions ---

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("List completed training sessions, newest first. Returns start/end time and note for each session."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of sessions. Defaults to 10; 0 returns all.")),
)

var toolGetSession = mcp.NewTool("get_session",
	mcp.WithDescription("Get one session with its sets grouped by exercise, in the order the exercises were first trained."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Session id from get_history")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List exercises in the catalog, most recently used first."),
	mcp.WithString("query", mcp.Description("Case-insensitive name filter (partial match, e.g. 'bench')")),
)

var toolGetLastSet = mcp.NewTool("get_last_set",
	mcp.WithDescription("The most recent set recorded for an exercise, formatted like '40kg × 10'."),
	mcp.WithString("exercise_id", mcp.Description("Exercise id from list_exercises")),
	mcp.WithString("exercise", mcp.Description("Exercise name; used when exercise_id is not given. Exact matches win over partial ones.")),
)

var toolGetTrainingSummary = mcp.NewTool("get_training_summary",
	mcp.WithDescription("Weekly or monthly strength volume: sessions, sets, total reps and tonnage per period."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 6 months ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithString("bucket", mcp.Description("Aggregation period. Defaults to '1 week'."), mcp.Enum("1 week", "1 month")),
)

// --- Tool handlers ---

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 10)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	sessions, err := tracker.History(ctx, h.ds, limit)
	if err != nil {
		h.log.Error("mcp get_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// blockJSON is one exercise of a session with its sets.
type blockJSON struct {
	Exercise models.Exercise     `json:"exercise"`
	Sets     []models.WorkoutSet `json:"sets"`
}

type sessionJSON struct {
	models.Session
	Blocks []blockJSON `json:"blocks"`
}

func groupDetail(d *models.SessionDetail) sessionJSON {
	names := make(map[string]models.Exercise, len(d.Exercises))
	for _, e := range d.Exercises {
		names[e.ID] = e
	}
	out := sessionJSON{Session: d.Session, Blocks: []blockJSON{}}
	for _, b := range tracker.Group(d.Sets, nil) {
		ex, ok := names[b.ExerciseID]
		if !ok {
			ex = models.Exercise{ID: b.ExerciseID}
		}
		out.Blocks = append(out.Blocks, blockJSON{Exercise: ex, Sets: b.Sets})
	}
	return out
}

func (h *handlers) getSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	detail, err := h.ds.SessionDetail(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return mcp.NewToolResultError("session " + id + " not found"), nil
	}
	if err != nil {
		h.log.Error("mcp get_session", "id", id, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(groupDetail(detail))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.ListExercises(ctx, req.GetString("query", ""))
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// findExercise prefers a case-insensitive exact name match, then the first
// partial match.
func (h *handlers) findExercise(ctx context.Context, name string) (*models.Exercise, error) {
	list, err := h.ds.ListExercises(ctx, name)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if strings.EqualFold(list[i].Name, name) {
			return &list[i], nil
		}
	}
	if len(list) == 0 {
		return nil, models.NotFound("exercise", name)
	}
	return &list[0], nil
}

func (h *handlers) getLastSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("exercise_id", "")
	name := req.GetString("exercise", "")
	if id == "" && name == "" {
		return mcp.NewToolResultError("exercise_id or exercise is required"), nil
	}

	ex := &models.Exercise{ID: id}
	if id == "" {
		found, err := h.findExercise(ctx, name)
		if errors.Is(err, models.ErrNotFound) {
			return mcp.NewToolResultError("no exercise matches " + name), nil
		}
		if err != nil {
			h.log.Error("mcp get_last_set: lookup", "exercise", name, "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		ex = found
	}

	set, err := h.ds.LastSet(ctx, ex.ID, "")
	if err != nil {
		h.log.Error("mcp get_last_set", "exercise_id", ex.ID, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"exercise": ex,
		"lastSet":  set,
		"text":     tracker.FormatLastTime(set),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := timeRange(req.GetString("start", ""), req.GetString("end", ""), func(t time.Time) time.Time {
		return t.AddDate(0, -6, 0)
	})
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	bucket := req.GetString("bucket", "1 week")
	summary, err := h.ds.TrainingSummary(ctx, start, end, bucket)
	if err != nil {
		h.log.Error("mcp get_training_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summary)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
