package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/ingest"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// Importer writes parsed Alpha Progression sessions through a storage
// backend.
type Importer struct {
	store storage.Backend
	log   *slog.Logger
}

// NewImporter creates an importer.
func NewImporter(store storage.Backend, log *slog.Logger) *Importer {
	return &Importer{store: store, log: log}
}

// Import parses a CSV export and stores each session as a completed session
// of userID. Exercises are matched to presets or existing entries by name
// before new ones are created. Warmup sets are skipped unless
// includeWarmups is set.
func (im *Importer) Import(ctx context.Context, r io.Reader, userID string, includeWarmups bool) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing CSV: %w", models.ErrInvalidInput, err)
	}

	picker, err := catalog.NewPicker(ctx, im.store)
	if err != nil {
		return nil, err
	}

	result := &ingest.Result{}
	for _, as := range sessions {
		if err := im.importSession(ctx, picker, as, userID, includeWarmups, result); err != nil {
			return result, fmt.Errorf("importing session %s: %w", as.StartedAt.Format("2006-01-02"), err)
		}
	}

	im.log.Info("alpha import complete",
		"user", userID,
		"sessions", result.Sessions,
		"sets", result.Sets,
		"exercises_created", result.ExercisesCreated,
	)
	return result, nil
}

func (im *Importer) importSession(ctx context.Context, picker *catalog.Picker, as models.AlphaSession, userID string, includeWarmups bool, result *ingest.Result) error {
	ended := as.EndedAt()
	var note *string
	if as.Name != "" {
		name := as.Name
		note = &name
	}
	session, err := im.store.InsertSession(ctx, userID, as.StartedAt, &ended, note)
	if err != nil {
		return err
	}
	result.Sessions++

	for _, ex := range as.Exercises {
		e, created, err := picker.ResolveName(ctx, ex.Name)
		if err != nil {
			return err
		}
		if created {
			result.ExercisesCreated++
		}
		for _, set := range ex.Sets {
			if set.Warmup && !includeWarmups {
				result.WarmupsSkipped++
				continue
			}
			if _, err := im.store.CreateSet(ctx, models.NewSet{
				SessionID:  session.ID,
				ExerciseID: e.ID,
				Weight:     set.WeightKg,
				Reps:       set.Reps,
			}); err != nil {
				return fmt.Errorf("set %d of %s: %w", set.Number, ex.Name, err)
			}
			result.Sets++
		}
	}
	return nil
}
