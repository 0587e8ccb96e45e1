package tracker

import "github.com/meltforce/liftlog/internal/models"

// BlockView is a block joined with its exercise metadata.
type BlockView struct {
	Exercise models.Exercise
	Sets     []models.WorkoutSet
	// LastTime is the newest set of this exercise in another session,
	// e.g. "60kg × 5", or "" when there is none.
	LastTime string
}

// View is the grouped state of the active session.
type View struct {
	Session *models.Session
	Blocks  []BlockView
}

// View groups the current sets for display.
func (m *Manager) View() View {
	return ViewOf(m.Snapshot())
}

// ViewOf groups a snapshot for display. Exercises missing from the
// snapshot's metadata are shown with their id as the name.
func ViewOf(s Snapshot) View {
	v := View{Session: s.Session}
	for _, b := range Group(s.Sets, s.Manual) {
		e, ok := s.Exercises[b.ExerciseID]
		if !ok {
			e = models.Exercise{ID: b.ExerciseID, Name: b.ExerciseID}
		}
		v.Blocks = append(v.Blocks, BlockView{
			Exercise: e,
			Sets:     b.Sets,
			LastTime: s.LastTimes[b.ExerciseID],
		})
	}
	return v
}

// LastTime returns the last-time string for the exercise, or "".
func (m *Manager) LastTime(exerciseID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.LastTimes[exerciseID]
}
