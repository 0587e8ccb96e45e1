// Package tracker is the client-side engine for the workout in progress.
// It applies edits optimistically, reconciles temporary set ids with the
// ids the store assigns, and groups sets into per-exercise blocks.
package tracker

import (
	"context"
	"errors"

	"github.com/meltforce/liftlog/internal/models"
)

// ErrNoActiveSession is returned by mutations when no session is loaded.
var ErrNoActiveSession = errors.New("no active session")

// Store is the remote, authoritative copy of sessions, exercises and sets.
// A nil result with a nil error from LastSet means "no previous set".
type Store interface {
	StartSession(ctx context.Context) (*models.Session, error)
	EndSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	SessionDetail(ctx context.Context, id string) (*models.SessionDetail, error)
	ListHistory(ctx context.Context) ([]models.Session, error)

	ListExercises(ctx context.Context, query string) ([]models.Exercise, error)
	CreateExercise(ctx context.Context, name string) (*models.Exercise, error)
	LastSet(ctx context.Context, exerciseID, currentSessionID string) (*models.WorkoutSet, error)

	CreateSet(ctx context.Context, in models.NewSet) (*models.WorkoutSet, error)
	UpdateSet(ctx context.Context, id string, patch models.SetPatch) (*models.WorkoutSet, error)
	DeleteSet(ctx context.Context, id string) error
}
