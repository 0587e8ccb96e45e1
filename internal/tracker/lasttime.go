package tracker

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/meltforce/liftlog/internal/models"
)

// maxLookups bounds concurrent last-time queries after a load.
const maxLookups = 4

// FormatLastTime renders a set as "60kg × 5".
func FormatLastTime(ws *models.WorkoutSet) string {
	if ws == nil {
		return ""
	}
	return strconv.FormatFloat(ws.Weight, 'f', -1, 64) + "kg × " + strconv.Itoa(ws.Reps)
}

// refreshLastTimes looks up every exercise concurrently. Lookups are best
// effort; failures are logged and leave the previous value in place.
func (m *Manager) refreshLastTimes(ctx context.Context, sessionID string, exerciseIDs []string) {
	var g errgroup.Group
	g.SetLimit(maxLookups)
	for _, id := range exerciseIDs {
		g.Go(func() error {
			m.lookupLastTime(ctx, sessionID, id)
			return nil
		})
	}
	_ = g.Wait()
}

func (m *Manager) lookupLastTime(ctx context.Context, sessionID, exerciseID string) {
	ws, err := m.store.LastSet(ctx, exerciseID, sessionID)
	if err != nil {
		m.log.Debug("last-time lookup failed", "exercise", exerciseID, "error", err)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(LastTimeResolved{SessionID: sessionID, ExerciseID: exerciseID, Text: FormatLastTime(ws)})
}
