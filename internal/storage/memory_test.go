package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

func newTestMemory(t *testing.T) (*Memory, *models.Session, *models.Exercise) {
	t.Helper()
	ctx := context.Background()
	m := NewMemory()
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m.SetClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})
	s, err := m.StartSession(ctx, "alice")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	e, err := m.CreateExercise(ctx, "臥推 (Bench Press)")
	if err != nil {
		t.Fatalf("CreateExercise: %v", err)
	}
	return m, s, e
}

func TestMemoryCreateSetAssignsOrder(t *testing.T) {
	ctx := context.Background()
	m, s, e := newTestMemory(t)
	other, _ := m.CreateExercise(ctx, "深蹲 (Squat)")

	for i := 1; i <= 3; i++ {
		ws, err := m.CreateSet(ctx, models.NewSet{SessionID: s.ID, ExerciseID: e.ID, Weight: 60, Reps: 5})
		if err != nil {
			t.Fatalf("CreateSet: %v", err)
		}
		if ws.OrderInExercise != i {
			t.Errorf("set %d: order = %d, want %d", i, ws.OrderInExercise, i)
		}
	}
	ws, err := m.CreateSet(ctx, models.NewSet{SessionID: s.ID, ExerciseID: other.ID, Weight: 100, Reps: 3})
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}
	if ws.OrderInExercise != 1 {
		t.Errorf("other exercise order = %d, want 1", ws.OrderInExercise)
	}

	list, _ := m.ListExercises(ctx, "")
	if list[0].ID != other.ID || list[0].LastUsedAt == nil {
		t.Errorf("most recently used exercise should sort first, got %+v", list[0])
	}
}

func TestMemoryDeleteSetDoesNotRenumber(t *testing.T) {
	ctx := context.Background()
	m, s, e := newTestMemory(t)

	var ids []string
	for i := 0; i < 3; i++ {
		ws, _ := m.CreateSet(ctx, models.NewSet{SessionID: s.ID, ExerciseID: e.ID, Weight: 50, Reps: 8})
		ids = append(ids, ws.ID)
	}
	if err := m.DeleteSet(ctx, ids[1]); err != nil {
		t.Fatalf("DeleteSet: %v", err)
	}
	if err := m.DeleteSet(ctx, ids[1]); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}

	ws, _ := m.CreateSet(ctx, models.NewSet{SessionID: s.ID, ExerciseID: e.ID, Weight: 50, Reps: 8})
	if ws.OrderInExercise != 3 {
		t.Errorf("order after delete = %d, want count+1 = 3", ws.OrderInExercise)
	}

	detail, err := m.SessionDetail(ctx, s.ID)
	if err != nil {
		t.Fatalf("SessionDetail: %v", err)
	}
	var orders []int
	for _, ws := range detail.Sets {
		orders = append(orders, ws.OrderInExercise)
	}
	want := []int{1, 3, 3}
	for i := range want {
		if orders[i] != want[i] {
			t.Fatalf("orders = %v, want %v", orders, want)
		}
	}
}

func TestMemoryUpdateSet(t *testing.T) {
	ctx := context.Background()
	m, s, e := newTestMemory(t)
	ws, _ := m.CreateSet(ctx, models.NewSet{SessionID: s.ID, ExerciseID: e.ID, Weight: 60, Reps: 5})

	reps := 6
	got, err := m.UpdateSet(ctx, ws.ID, models.SetPatch{Reps: &reps})
	if err != nil {
		t.Fatalf("UpdateSet: %v", err)
	}
	if got.Reps != 6 || got.Weight != 60 {
		t.Errorf("UpdateSet = %+v, want weight 60 reps 6", got)
	}
	if _, err := m.UpdateSet(ctx, "missing", models.SetPatch{Reps: &reps}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UpdateSet missing: got %v, want ErrNotFound", err)
	}
	neg := -1.0
	if _, err := m.UpdateSet(ctx, ws.ID, models.SetPatch{Weight: &neg}); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("UpdateSet negative: got %v, want ErrInvalidInput", err)
	}
}

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m, s, e := newTestMemory(t)

	ws, _ := m.CreateSet(ctx, models.NewSet{SessionID: s.ID, ExerciseID: e.ID, Weight: 70, Reps: 6})
	weight := 72.5
	if _, err := m.UpdateSet(ctx, ws.ID, models.SetPatch{Weight: &weight}); err != nil {
		t.Fatalf("UpdateSet: %v", err)
	}

	got, err := m.GetSet(ctx, ws.ID)
	if err != nil {
		t.Fatalf("GetSet: %v", err)
	}
	if got.SessionID != s.ID || got.Weight != 72.5 || got.Reps != 6 {
		t.Errorf("GetSet = %+v", got)
	}

	if err := m.DeleteSet(ctx, ws.ID); err != nil {
		t.Fatalf("DeleteSet: %v", err)
	}
	if _, err := m.GetSet(ctx, ws.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetSet after delete err = %v, want ErrNotFound", err)
	}
}

func TestMemoryCreateSetValidation(t *testing.T) {
	ctx := context.Background()
	m, s, e := newTestMemory(t)

	tests := []struct {
		name string
		in   models.NewSet
		want error
	}{
		{"negative weight", models.NewSet{SessionID: s.ID, ExerciseID: e.ID, Weight: -5, Reps: 5}, models.ErrInvalidInput},
		{"negative reps", models.NewSet{SessionID: s.ID, ExerciseID: e.ID, Weight: 5, Reps: -1}, models.ErrInvalidInput},
		{"unknown exercise", models.NewSet{SessionID: s.ID, ExerciseID: "nope", Weight: 5, Reps: 5}, models.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.CreateSet(ctx, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMemoryLastSetExcludesSession(t *testing.T) {
	ctx := context.Background()
	m, s1, e := newTestMemory(t)

	if got, err := m.LastSet(ctx, e.ID, s1.ID); err != nil || got != nil {
		t.Fatalf("LastSet with no history = %v, %v; want nil, nil", got, err)
	}

	m.CreateSet(ctx, models.NewSet{SessionID: s1.ID, ExerciseID: e.ID, Weight: 60, Reps: 5})
	m.CreateSet(ctx, models.NewSet{SessionID: s1.ID, ExerciseID: e.ID, Weight: 62.5, Reps: 4})

	s2, _ := m.StartSession(ctx, "alice")
	m.CreateSet(ctx, models.NewSet{SessionID: s2.ID, ExerciseID: e.ID, Weight: 70, Reps: 3})

	got, err := m.LastSet(ctx, e.ID, s2.ID)
	if err != nil {
		t.Fatalf("LastSet: %v", err)
	}
	if got == nil || got.SessionID != s1.ID || got.Weight != 62.5 {
		t.Errorf("LastSet = %+v, want newest set of the previous session", got)
	}
}

func TestMemoryHistoryAndDetail(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	base := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	end := base.Add(time.Hour)
	older, _ := m.InsertSession(ctx, "alice", base, &end, nil)
	laterEnd := base.Add(49 * time.Hour)
	newer, _ := m.InsertSession(ctx, "alice", base.Add(48*time.Hour), &laterEnd, nil)
	m.StartSession(ctx, "alice")
	m.InsertSession(ctx, "bob", base, &end, nil)

	hist, err := m.ListHistory(ctx, "alice")
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("ListHistory len = %d, want 2 completed sessions", len(hist))
	}
	if hist[0].ID != newer.ID || hist[1].ID != older.ID {
		t.Errorf("history not sorted by start desc: %v", hist)
	}

	squat, _ := m.CreateExercise(ctx, "Squat")
	bench, _ := m.CreateExercise(ctx, "Bench")
	m.CreateSet(ctx, models.NewSet{SessionID: older.ID, ExerciseID: squat.ID, Weight: 100, Reps: 5})
	m.CreateSet(ctx, models.NewSet{SessionID: older.ID, ExerciseID: bench.ID, Weight: 60, Reps: 5})
	m.CreateSet(ctx, models.NewSet{SessionID: older.ID, ExerciseID: squat.ID, Weight: 100, Reps: 5})

	detail, err := m.SessionDetail(ctx, older.ID)
	if err != nil {
		t.Fatalf("SessionDetail: %v", err)
	}
	if len(detail.Sets) != 3 || len(detail.Exercises) != 2 {
		t.Fatalf("detail has %d sets and %d exercises, want 3 and 2", len(detail.Sets), len(detail.Exercises))
	}
	if detail.Exercises[0].ID != squat.ID {
		t.Errorf("exercises should be listed in first-appearance order")
	}

	if _, err := m.SessionDetail(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("SessionDetail missing: got %v, want ErrNotFound", err)
	}
}

func TestMemoryDeleteSessionKeepsSets(t *testing.T) {
	ctx := context.Background()
	m, s, e := newTestMemory(t)
	m.CreateSet(ctx, models.NewSet{SessionID: s.ID, ExerciseID: e.ID, Weight: 40, Reps: 10})

	if err := m.DeleteSession(ctx, s.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := m.SessionDetail(ctx, s.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("deleted session still readable: %v", err)
	}
	if err := m.DeleteSession(ctx, s.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second DeleteSession: got %v, want ErrNotFound", err)
	}
	s2, _ := m.StartSession(ctx, "alice")
	if got, _ := m.LastSet(ctx, e.ID, s2.ID); got == nil {
		t.Error("sets of a deleted session should survive")
	}
}

func TestMemoryEndSession(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	fixed := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	m.SetClock(func() time.Time { return fixed })

	s, _ := m.StartSession(ctx, "alice")
	ended, err := m.EndSession(ctx, s.ID)
	if err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	if ended.EndAt == nil || !ended.EndAt.Equal(fixed) {
		t.Errorf("EndAt = %v, want %v", ended.EndAt, fixed)
	}
	if _, err := m.EndSession(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("EndSession missing: got %v, want ErrNotFound", err)
	}
}

func TestMemoryCreateExercise(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.CreateExercise(ctx, "   "); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("blank name: got %v, want ErrInvalidInput", err)
	}
	a, _ := m.CreateExercise(ctx, "Deadlift")
	b, _ := m.CreateExercise(ctx, "Deadlift")
	if a.ID == b.ID {
		t.Error("duplicate names should create distinct exercises")
	}

	got, _ := m.ListExercises(ctx, "dead")
	if len(got) != 2 {
		t.Errorf("ListExercises(dead) = %d results, want 2", len(got))
	}
	got, _ = m.ListExercises(ctx, "squat")
	if len(got) != 0 {
		t.Errorf("ListExercises(squat) = %d results, want 0", len(got))
	}
}

func TestMemoryTrainingSummary(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	e, _ := m.CreateExercise(ctx, "Squat")

	// Wednesday and Friday of the same week, then the following Monday.
	days := []time.Time{
		time.Date(2026, 3, 4, 18, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC),
	}
	for _, d := range days {
		end := d.Add(time.Hour)
		s, _ := m.InsertSession(ctx, "alice", d, &end, nil)
		m.CreateSet(ctx, models.NewSet{SessionID: s.ID, ExerciseID: e.ID, Weight: 100, Reps: 5})
	}

	got, err := m.TrainingSummary(ctx, "alice", days[0].AddDate(0, 0, -7), days[2].AddDate(0, 0, 1), "week")
	if err != nil {
		t.Fatalf("TrainingSummary: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d periods, want 2", len(got))
	}
	if got[0].Period != "2026-03-09" || got[1].Period != "2026-03-02" {
		t.Errorf("periods = %s, %s", got[0].Period, got[1].Period)
	}
	if got[1].Sessions != 2 || got[1].Sets != 2 || got[1].TotalReps != 10 || got[1].TonnageKg != 1000 {
		t.Errorf("first week = %+v", got[1])
	}
}

func TestPeriodStart(t *testing.T) {
	sunday := time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC)
	if got := periodStart(sunday, "1 week"); !got.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("week start = %v", got)
	}
	if got := periodStart(sunday, "1 month"); !got.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("month start = %v", got)
	}
}
