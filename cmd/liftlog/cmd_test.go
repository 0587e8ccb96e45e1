package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/ingest/alpha"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/server"
	"github.com/meltforce/liftlog/internal/storage"
	"github.com/meltforce/liftlog/internal/tracker"
)

func TestParseSetRef(t *testing.T) {
	tests := []struct {
		input   string
		want    setRef
		wantErr bool
	}{
		{input: "1.2", want: setRef{block: 1, set: 2}},
		{input: "10.1", want: setRef{block: 10, set: 1}},
		{input: "1", wantErr: true},
		{input: "0.1", wantErr: true},
		{input: "1.0", wantErr: true},
		{input: "a.b", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseSetRef(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseSetRef(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSetRef(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseSetRef(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func sampleView() tracker.View {
	return tracker.View{Blocks: []tracker.BlockView{
		{Exercise: models.Exercise{ID: "e1", Name: "Squat"}, Sets: []models.WorkoutSet{
			{ID: "a", Weight: 100, Reps: 5},
			{ID: "b", Weight: 102.5, Reps: 3},
		}},
		{Exercise: models.Exercise{ID: "e2", Name: "Row"}, Sets: []models.WorkoutSet{}},
	}}
}

func TestSetRefLookup(t *testing.T) {
	v := sampleView()

	s, err := setRef{block: 1, set: 2}.lookup(v)
	if err != nil {
		t.Fatal(err)
	}
	if s.ID != "b" {
		t.Errorf("got set %q, want b", s.ID)
	}

	if _, err := (setRef{block: 2, set: 1}).lookup(v); err == nil {
		t.Error("expected error for empty block")
	}
	if _, err := (setRef{block: 3, set: 1}).lookup(v); err == nil {
		t.Error("expected error for missing block")
	}
}

func TestBlockExercise(t *testing.T) {
	v := sampleView()
	if e, ok := blockExercise(v, "2"); !ok || e.ID != "e2" {
		t.Errorf("blockExercise(2) = %+v, %v", e, ok)
	}
	for _, arg := range []string{"0", "3", "Squat"} {
		if _, ok := blockExercise(v, arg); ok {
			t.Errorf("blockExercise(%q) should not match", arg)
		}
	}
}

func TestParseWeightReps(t *testing.T) {
	w, r, err := parseWeightReps("62,5", "8")
	if err != nil {
		t.Fatal(err)
	}
	if w != 62.5 || r != 8 {
		t.Errorf("got %v × %d, want 62.5 × 8", w, r)
	}
	if _, _, err := parseWeightReps("-5", "8"); err == nil {
		t.Error("negative weight should fail")
	}
	if _, _, err := parseWeightReps("60", "x"); err == nil {
		t.Error("non-numeric reps should fail")
	}
}

func TestRenderView(t *testing.T) {
	color.NoColor = true
	v := sampleView()
	v.Blocks[0].LastTime = "95kg × 5"
	v.Blocks[0].Sets = append(v.Blocks[0].Sets, models.WorkoutSet{ID: "tmp-9", Weight: 105, Reps: 1})

	var buf bytes.Buffer
	renderView(&buf, v, catalog.LangEN)
	out := buf.String()

	for _, want := range []string{
		"1. Squat  last time 95kg × 5",
		"1.2  102.5kg × 3",
		"1.3  105kg × 1 (saving)",
		"2. Row",
		"no sets",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestExerciseNamePrefersLanguage(t *testing.T) {
	e := models.Exercise{Name: "硬舉 (Deadlift)"}
	if got := exerciseName(e, catalog.LangEN); got != "Deadlift (硬舉)" {
		t.Errorf("en name = %q", got)
	}
	if got := exerciseName(e, catalog.LangTW); got != "硬舉 (Deadlift)" {
		t.Errorf("tw name = %q", got)
	}
	if got := exerciseName(models.Exercise{Name: "Zercher Squat"}, catalog.LangTW); got != "Zercher Squat" {
		t.Errorf("custom name = %q", got)
	}
}

// run executes the CLI in-process against the test server.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append([]string{"--config", configPath}, args...))
	app = nil
	err := rootCmd.Execute()
	if err != nil && app != nil {
		app.state.Close()
	}
	return out.String(), err
}

func newCLIEnv(t *testing.T) {
	t.Helper()
	color.NoColor = true
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := storage.NewMemory()
	ts := httptest.NewServer(server.New(mem, alpha.NewImporter(mem, log), map[string]string{"ana": "pw"}, log))
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	t.Setenv("LIFTLOG_SERVER_URL", ts.URL)
	t.Setenv("LIFTLOG_STATE_DIR", filepath.Join(dir, "state"))
	t.Setenv("LIFTLOG_LOG_LEVEL", "error")
	t.Setenv("LIFTLOG_PASSWORD", "")
	configPath = filepath.Join(dir, "missing.yaml")
}

func TestWorkoutOverCLI(t *testing.T) {
	newCLIEnv(t)

	if _, err := run(t, "status"); err == nil {
		t.Fatal("status before login should fail")
	}
	if _, err := run(t, "login", "ana", "-p", "wrong"); err == nil {
		t.Fatal("wrong password should be rejected")
	}
	if _, err := run(t, "login", "ana", "-p", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := run(t, "start"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := run(t, "set", "add", "Deadlift", "100", "5"); err != nil {
		t.Fatalf("set add: %v", err)
	}
	out, err := run(t, "set", "add", "1")
	if err != nil {
		t.Fatalf("set add defaults: %v", err)
	}
	if !strings.Contains(out, "set 2: 100kg × 5") {
		t.Errorf("defaults not reused: %q", out)
	}
	if _, err := run(t, "set", "edit", "1.2", "--reps", "4"); err != nil {
		t.Fatalf("set edit: %v", err)
	}
	if _, err := run(t, "exercise", "add", "Zercher", "Squat"); err != nil {
		t.Fatalf("exercise add: %v", err)
	}

	out, err = run(t, "start")
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	for _, want := range []string{"Resuming", "1. Deadlift (硬舉)", "1.1  100kg × 5", "1.2  100kg × 4", "2. Zercher Squat", "no sets"} {
		if !strings.Contains(out, want) {
			t.Errorf("status missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "finish"); err != nil {
		t.Fatalf("finish: %v", err)
	}
	out, err = run(t, "history", "list")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if strings.Contains(out, "No completed sessions") {
		t.Errorf("finished session missing from history:\n%s", out)
	}

	if _, err := run(t, "status"); err == nil {
		t.Error("status after finish should report no active session")
	}
}

func TestFinishEmptyNeedsYes(t *testing.T) {
	newCLIEnv(t)
	finishYes = false

	if _, err := run(t, "login", "ana", "-p", "pw"); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "start"); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, "finish")
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("expected confirmation error, got %v", err)
	}
	if _, err := run(t, "finish", "--yes"); err != nil {
		t.Fatalf("finish --yes: %v", err)
	}
	finishYes = false

	if _, err := run(t, "status"); err == nil {
		t.Error("session should be closed after finish --yes")
	}
}

func TestSummaryRendering(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	renderSummary(&buf, []models.TrainingPeriod{{Period: "2026-03-02", Sessions: 2, Sets: 10, TotalReps: 50, TonnageKg: 4250}})
	if !strings.Contains(buf.String(), "4250kg") {
		t.Errorf("unexpected summary:\n%s", buf.String())
	}

	end := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	buf.Reset()
	renderSessions(&buf, []models.Session{{ID: "s1", StartAt: end.Add(-75 * time.Minute), EndAt: &end}})
	if !strings.Contains(buf.String(), "1h15m0s") {
		t.Errorf("unexpected session line:\n%s", buf.String())
	}
}
