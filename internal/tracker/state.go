package tracker

import (
	"maps"
	"slices"

	"github.com/meltforce/liftlog/internal/models"
)

// Snapshot is an immutable view of the workout in progress. Commands never
// modify a snapshot in place; they return a new one.
type Snapshot struct {
	Session   *models.Session
	Sets      []models.WorkoutSet
	Exercises map[string]models.Exercise
	// Manual lists exercises added to the session before any set was
	// recorded for them, in insertion order.
	Manual []string
	// LastTimes maps exercise id to the display string of its newest set
	// in another session.
	LastTimes map[string]string
}

// Active reports whether a session is loaded.
func (s Snapshot) Active() bool {
	return s.Session != nil
}

// SetCount returns the number of local sets recorded for the exercise.
func (s Snapshot) SetCount(exerciseID string) int {
	n := 0
	for _, ws := range s.Sets {
		if ws.ExerciseID == exerciseID {
			n++
		}
	}
	return n
}

// Find returns the local set with the given id.
func (s Snapshot) Find(id string) (models.WorkoutSet, bool) {
	for _, ws := range s.Sets {
		if ws.ID == id {
			return ws, true
		}
	}
	return models.WorkoutSet{}, false
}

// Command is one state transition. Applying a command is pure.
type Command interface {
	apply(Snapshot) Snapshot
}

// Replay applies cmds to base in order.
func Replay(base Snapshot, cmds []Command) Snapshot {
	for _, c := range cmds {
		base = c.apply(base)
	}
	return base
}

// Loaded replaces the state with a session read from the store.
type Loaded struct {
	Detail models.SessionDetail
}

func (c Loaded) apply(Snapshot) Snapshot {
	session := c.Detail.Session
	exercises := make(map[string]models.Exercise, len(c.Detail.Exercises))
	for _, e := range c.Detail.Exercises {
		exercises[e.ID] = e
	}
	sets := slices.Clone(c.Detail.Sets)
	if sets == nil {
		sets = []models.WorkoutSet{}
	}
	return Snapshot{
		Session:   &session,
		Sets:      sets,
		Exercises: exercises,
		LastTimes: map[string]string{},
	}
}

// Closed drops the active session.
type Closed struct{}

func (Closed) apply(Snapshot) Snapshot {
	return Snapshot{}
}

// ExerciseAdded makes an exercise part of the session. Adding an exercise
// that is already present only refreshes its metadata.
type ExerciseAdded struct {
	Exercise models.Exercise
}

func (c ExerciseAdded) apply(s Snapshot) Snapshot {
	s.Exercises = maps.Clone(s.Exercises)
	if s.Exercises == nil {
		s.Exercises = map[string]models.Exercise{}
	}
	s.Exercises[c.Exercise.ID] = c.Exercise
	if s.SetCount(c.Exercise.ID) == 0 && !slices.Contains(s.Manual, c.Exercise.ID) {
		s.Manual = append(slices.Clone(s.Manual), c.Exercise.ID)
	}
	return s
}

// ExerciseRemoved drops an exercise that has no sets. It has no effect on an
// exercise with recorded sets.
type ExerciseRemoved struct {
	ExerciseID string
}

func (c ExerciseRemoved) apply(s Snapshot) Snapshot {
	if s.SetCount(c.ExerciseID) > 0 {
		return s
	}
	s.Exercises = maps.Clone(s.Exercises)
	delete(s.Exercises, c.ExerciseID)
	s.LastTimes = maps.Clone(s.LastTimes)
	delete(s.LastTimes, c.ExerciseID)
	s.Manual = slices.DeleteFunc(slices.Clone(s.Manual), func(id string) bool {
		return id == c.ExerciseID
	})
	return s
}

// SetAppended adds an optimistic set at the end of the append order.
type SetAppended struct {
	Set models.WorkoutSet
}

func (c SetAppended) apply(s Snapshot) Snapshot {
	s.Sets = append(slices.Clone(s.Sets), c.Set)
	return s
}

// SetReconciled swaps the set whose id is LocalID for the store's copy,
// keeping its position. It has no effect if LocalID is gone.
type SetReconciled struct {
	LocalID string
	Set     models.WorkoutSet
}

func (c SetReconciled) apply(s Snapshot) Snapshot {
	i := slices.IndexFunc(s.Sets, func(ws models.WorkoutSet) bool { return ws.ID == c.LocalID })
	if i < 0 {
		return s
	}
	s.Sets = slices.Clone(s.Sets)
	s.Sets[i] = c.Set
	return s
}

// SetEdited applies a patch to a local set.
type SetEdited struct {
	SetID string
	Patch models.SetPatch
}

func (c SetEdited) apply(s Snapshot) Snapshot {
	i := slices.IndexFunc(s.Sets, func(ws models.WorkoutSet) bool { return ws.ID == c.SetID })
	if i < 0 {
		return s
	}
	s.Sets = slices.Clone(s.Sets)
	s.Sets[i] = c.Patch.Apply(s.Sets[i])
	return s
}

// SetDeleted removes a local set. Remaining sets keep their order numbers.
type SetDeleted struct {
	SetID string
}

func (c SetDeleted) apply(s Snapshot) Snapshot {
	s.Sets = slices.DeleteFunc(slices.Clone(s.Sets), func(ws models.WorkoutSet) bool {
		return ws.ID == c.SetID
	})
	return s
}

// SetsRestored puts back a previous set list.
type SetsRestored struct {
	Sets []models.WorkoutSet
}

func (c SetsRestored) apply(s Snapshot) Snapshot {
	s.Sets = slices.Clone(c.Sets)
	return s
}

// LastTimeResolved records the result of a last-time lookup. Results for a
// session that is no longer loaded are dropped. An empty Text means the
// exercise has no history.
type LastTimeResolved struct {
	SessionID  string
	ExerciseID string
	Text       string
}

func (c LastTimeResolved) apply(s Snapshot) Snapshot {
	if s.Session == nil || s.Session.ID != c.SessionID {
		return s
	}
	s.LastTimes = maps.Clone(s.LastTimes)
	if s.LastTimes == nil {
		s.LastTimes = map[string]string{}
	}
	if c.Text == "" {
		delete(s.LastTimes, c.ExerciseID)
	} else {
		s.LastTimes[c.ExerciseID] = c.Text
	}
	return s
}
