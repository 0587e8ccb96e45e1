package mcp

import (
	"context"
	"time"

	"github.com/meltforce/liftlog/internal/client"
	"github.com/meltforce/liftlog/internal/models"
)

// DataSource is the read side of the remote store used by the MCP tools.
// *client.Client satisfies it, so the tools run with the CLI's login.
type DataSource interface {
	ListHistory(ctx context.Context) ([]models.Session, error)
	SessionDetail(ctx context.Context, id string) (*models.SessionDetail, error)
	ListExercises(ctx context.Context, query string) ([]models.Exercise, error)
	LastSet(ctx context.Context, exerciseID, currentSessionID string) (*models.WorkoutSet, error)
	TrainingSummary(ctx context.Context, start, end time.Time, bucket string) ([]models.TrainingPeriod, error)
}

// Compile-time check: *client.Client satisfies DataSource.
var _ DataSource = (*client.Client)(nil)
