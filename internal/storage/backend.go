package storage

import (
	"context"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

// Backend is the authoritative store for sessions, exercises and sets.
// *DB (Postgres) and *Memory both satisfy it.
type Backend interface {
	EnsureUser(ctx context.Context, login string) error

	StartSession(ctx context.Context, userID string) (*models.Session, error)
	// InsertSession stores a session with explicit timestamps (imports).
	InsertSession(ctx context.Context, userID string, startAt time.Time, endAt *time.Time, note *string) (*models.Session, error)
	EndSession(ctx context.Context, id string) (*models.Session, error)
	// DeleteSession removes the session from listings and detail lookups.
	// Its sets are left in place.
	DeleteSession(ctx context.Context, id string) error
	SessionDetail(ctx context.Context, id string) (*models.SessionDetail, error)
	ListHistory(ctx context.Context, userID string) ([]models.Session, error)
	TrainingSummary(ctx context.Context, userID string, start, end time.Time, bucket string) ([]models.TrainingPeriod, error)

	ListExercises(ctx context.Context, query string) ([]models.Exercise, error)
	CreateExercise(ctx context.Context, name string) (*models.Exercise, error)
	// LastSet returns the most recently created set for the exercise outside
	// excludeSessionID, or nil when there is none.
	LastSet(ctx context.Context, exerciseID, excludeSessionID string) (*models.WorkoutSet, error)

	CreateSet(ctx context.Context, in models.NewSet) (*models.WorkoutSet, error)
	GetSet(ctx context.Context, id string) (*models.WorkoutSet, error)
	UpdateSet(ctx context.Context, id string, patch models.SetPatch) (*models.WorkoutSet, error)
	DeleteSet(ctx context.Context, id string) error

	Close()
}

// Compile-time checks.
var (
	_ Backend = (*DB)(nil)
	_ Backend = (*Memory)(nil)
)

// periodStart truncates t to the start of its week (Monday) or month, in UTC.
func periodStart(t time.Time, bucket string) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if truncInterval(bucket) == "week" {
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// truncInterval converts bucket strings like "1 month" to the interval name
// date_trunc expects.
func truncInterval(bucket string) string {
	switch bucket {
	case "1 week", "week":
		return "week"
	default:
		return "month"
	}
}
