package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/liftlog/internal/models"
)

type fakeSource struct {
	sessions  []models.Session
	details   map[string]*models.SessionDetail
	exercises []models.Exercise
	lastSets  map[string]*models.WorkoutSet
	summary   []models.TrainingPeriod
	bucket    string
	err       error
}

func (f *fakeSource) ListHistory(context.Context) ([]models.Session, error) {
	return append([]models.Session(nil), f.sessions...), f.err
}

func (f *fakeSource) SessionDetail(_ context.Context, id string) (*models.SessionDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.details[id]
	if !ok {
		return nil, models.NotFound("session", id)
	}
	return d, nil
}

func (f *fakeSource) ListExercises(_ context.Context, query string) ([]models.Exercise, error) {
	var out []models.Exercise
	for _, e := range f.exercises {
		if strings.Contains(strings.ToLower(e.Name), strings.ToLower(query)) {
			out = append(out, e)
		}
	}
	return out, f.err
}

func (f *fakeSource) LastSet(_ context.Context, exerciseID, _ string) (*models.WorkoutSet, error) {
	return f.lastSets[exerciseID], f.err
}

func (f *fakeSource) TrainingSummary(_ context.Context, _, _ time.Time, bucket string) ([]models.TrainingPeriod, error) {
	f.bucket = bucket
	return f.summary, f.err
}

func newHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func callReq(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 18, 0, 0, 0, time.UTC)
}

func sampleSource() *fakeSource {
	end := day(3).Add(time.Hour)
	return &fakeSource{
		sessions: []models.Session{
			{ID: "s1", StartAt: day(1), EndAt: &end},
			{ID: "s3", StartAt: day(3), EndAt: &end},
			{ID: "s2", StartAt: day(2), EndAt: &end},
		},
		details: map[string]*models.SessionDetail{
			"s3": {
				Session: models.Session{ID: "s3", StartAt: day(3), EndAt: &end},
				Sets: []models.WorkoutSet{
					{ID: "a", ExerciseID: "squat", OrderInExercise: 1, Weight: 100, Reps: 5},
					{ID: "b", ExerciseID: "bench", OrderInExercise: 1, Weight: 80, Reps: 8},
					{ID: "c", ExerciseID: "squat", OrderInExercise: 2, Weight: 105, Reps: 5},
				},
				Exercises: []models.Exercise{{ID: "bench", Name: "Bench Press"}, {ID: "squat", Name: "Squat"}},
			},
		},
		exercises: []models.Exercise{
			{ID: "bench-incline", Name: "Incline Bench Press"},
			{ID: "bench", Name: "Bench Press"},
		},
		lastSets: map[string]*models.WorkoutSet{
			"bench": {ID: "b", ExerciseID: "bench", Weight: 82.5, Reps: 6},
		},
	}
}

func TestGetHistoryNewestFirstWithLimit(t *testing.T) {
	h := newHandlers(sampleSource())

	res, err := h.getHistory(context.Background(), callReq(map[string]any{"limit": 2}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}

	var got []models.Session
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "s3" || got[1].ID != "s2" {
		t.Errorf("history = %+v, want s3, s2", got)
	}
}

func TestGetSessionGroupsSets(t *testing.T) {
	h := newHandlers(sampleSource())

	res, err := h.getSession(context.Background(), callReq(map[string]any{"id": "s3"}))
	if err != nil {
		t.Fatal(err)
	}

	var got sessionJSON
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(got.Blocks))
	}
	if got.Blocks[0].Exercise.Name != "Squat" || len(got.Blocks[0].Sets) != 2 {
		t.Errorf("first block = %+v, want Squat with 2 sets", got.Blocks[0])
	}
	if got.Blocks[1].Exercise.Name != "Bench Press" {
		t.Errorf("second block = %q, want Bench Press", got.Blocks[1].Exercise.Name)
	}
}

func TestGetSessionErrors(t *testing.T) {
	h := newHandlers(sampleSource())

	res, _ := h.getSession(context.Background(), callReq(map[string]any{}))
	if !res.IsError {
		t.Error("missing id should be a tool error")
	}

	res, _ = h.getSession(context.Background(), callReq(map[string]any{"id": "nope"}))
	if !res.IsError || !strings.Contains(resultText(t, res), "not found") {
		t.Errorf("unknown session: %+v", res)
	}
}

func TestGetLastSetByName(t *testing.T) {
	h := newHandlers(sampleSource())

	res, err := h.getLastSet(context.Background(), callReq(map[string]any{"exercise": "bench press"}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "82.5kg × 6") {
		t.Errorf("result %s does not contain formatted last set", text)
	}
	if !strings.Contains(text, `"id":"bench"`) {
		t.Errorf("exact match should win over partial: %s", text)
	}
}

func TestGetLastSetNoHistory(t *testing.T) {
	h := newHandlers(sampleSource())

	res, err := h.getLastSet(context.Background(), callReq(map[string]any{"exercise_id": "bench-incline"}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("no previous set is not an error: %s", resultText(t, res))
	}
	if !strings.Contains(resultText(t, res), `"lastSet":null`) {
		t.Errorf("expected null lastSet: %s", resultText(t, res))
	}

	res, _ = h.getLastSet(context.Background(), callReq(map[string]any{"exercise": "deadlift"}))
	if !res.IsError {
		t.Error("unknown exercise name should be a tool error")
	}

	res, _ = h.getLastSet(context.Background(), callReq(map[string]any{}))
	if !res.IsError {
		t.Error("missing exercise should be a tool error")
	}
}

func TestGetTrainingSummaryDefaults(t *testing.T) {
	src := sampleSource()
	src.summary = []models.TrainingPeriod{{Period: "2026-03-02", Sessions: 2, Sets: 6, TotalReps: 36, TonnageKg: 3000}}
	h := newHandlers(src)

	res, err := h.getTrainingSummary(context.Background(), callReq(map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	if src.bucket != "1 week" {
		t.Errorf("bucket = %q, want default 1 week", src.bucket)
	}
	if !strings.Contains(resultText(t, res), `"tonnageKg":3000`) {
		t.Errorf("unexpected result %s", resultText(t, res))
	}

	res, _ = h.getTrainingSummary(context.Background(), callReq(map[string]any{"start": "yesterday"}))
	if !res.IsError {
		t.Error("invalid date should be a tool error")
	}
}

func TestSourceErrorsBecomeToolErrors(t *testing.T) {
	src := sampleSource()
	src.err = errors.Join(models.ErrTransient, errors.New("connection refused"))
	h := newHandlers(src)

	res, err := h.listExercises(context.Background(), callReq(map[string]any{}))
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error")
	}
}

func TestRecentSessionsResource(t *testing.T) {
	h := newHandlers(sampleSource())

	var req mcp.ReadResourceRequest
	req.Params.URI = "liftlog://recent_sessions"
	contents, err := h.recentSessions(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	text := contents[0].(mcp.TextResourceContents).Text

	var got []sessionJSON
	if err := json.Unmarshal([]byte(text), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].ID != "s3" {
		t.Fatalf("recent = %+v, want 3 sessions starting with s3", got)
	}
	if len(got[0].Blocks) != 2 {
		t.Errorf("s3 should be grouped, got %d blocks", len(got[0].Blocks))
	}
	if len(got[1].Blocks) != 0 {
		t.Errorf("missing detail should yield no blocks, got %d", len(got[1].Blocks))
	}
}

func TestTimeRangeDefaults(t *testing.T) {
	start, end, err := timeRange("", "", func(t time.Time) time.Time { return t.AddDate(0, -6, 0) })
	if err != nil {
		t.Fatal(err)
	}
	if d := end.Sub(start); d < 180*24*time.Hour || d > 185*24*time.Hour {
		t.Errorf("default range = %v, want about six months", d)
	}

	start, end, err = timeRange("2026-01-01", "2026-01-31T12:00:00Z", nil)
	if err != nil {
		t.Fatal(err)
	}
	if start.Day() != 1 || end.Hour() != 12 {
		t.Errorf("start=%v end=%v", start, end)
	}
}
