package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/meltforce/liftlog/internal/models"
)

// Manager owns the active session's local state. Mutations update the
// snapshot immediately and then call the store outside the lock, so readers
// see the optimistic state while a call is in flight. Manager is safe for
// concurrent use.
type Manager struct {
	store Store
	log   *slog.Logger
	ids   *TempIDs

	mu      sync.Mutex
	snap    Snapshot
	journal []Command
	pending map[string]*pendingCreate
	// confirmed maps resolved temporary ids to the store's copy so a
	// rollback can restore reconciled entities.
	confirmed map[string]models.WorkoutSet
}

// pendingCreate tracks a set whose create call has not returned yet.
type pendingCreate struct {
	done chan struct{}
	// set once done is closed; empty when the create failed
	confirmedID string
	// edits made while the create was in flight
	edit *models.SetPatch
}

// NewManager creates a manager with no active session.
func NewManager(store Store, log *slog.Logger) *Manager {
	return &Manager{
		store:     store,
		log:       log,
		ids:       &processTempIDs,
		pending:   make(map[string]*pendingCreate),
		confirmed: make(map[string]models.WorkoutSet),
	}
}

// apply must be called with m.mu held.
func (m *Manager) apply(c Command) {
	if _, ok := c.(Loaded); ok {
		m.journal = m.journal[:0:0]
		clear(m.confirmed)
	}
	m.snap = c.apply(m.snap)
	m.journal = append(m.journal, c)
}

// Snapshot returns the current state. The returned value must be treated as
// read-only.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// Journal returns the commands applied since the last load. Replaying them
// over an empty Snapshot yields the current state.
func (m *Manager) Journal() []Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.journal)
}

// SessionID returns the active session id, or "" when none is loaded.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap.Session == nil {
		return ""
	}
	return m.snap.Session.ID
}

// Start creates a session at the store and makes it active.
func (m *Manager) Start(ctx context.Context) (*models.Session, error) {
	s, err := m.store.StartSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting session: %w", err)
	}
	m.mu.Lock()
	m.apply(Loaded{Detail: models.SessionDetail{Session: *s}})
	m.mu.Unlock()
	m.log.Info("session started", "session", s.ID)
	return s, nil
}

// Load replaces local state with the store's copy of the session and
// refreshes the last-time strings of every exercise in it.
func (m *Manager) Load(ctx context.Context, sessionID string) error {
	detail, err := m.store.SessionDetail(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session %s: %w", sessionID, err)
	}

	m.mu.Lock()
	m.apply(Loaded{Detail: *detail})
	m.mu.Unlock()

	ids := make([]string, 0, len(detail.Exercises))
	for _, e := range detail.Exercises {
		ids = append(ids, e.ID)
	}
	m.refreshLastTimes(ctx, sessionID, ids)
	return nil
}

// AddExercise makes the exercise visible in the session even before it has
// sets. Adding an exercise twice is harmless.
func (m *Manager) AddExercise(ctx context.Context, e models.Exercise) error {
	m.mu.Lock()
	if m.snap.Session == nil {
		m.mu.Unlock()
		return ErrNoActiveSession
	}
	sessionID := m.snap.Session.ID
	m.apply(ExerciseAdded{Exercise: e})
	m.mu.Unlock()

	m.lookupLastTime(ctx, sessionID, e.ID)
	return nil
}

// RemoveExercise drops an exercise that has no sets yet. It reports whether
// anything was removed; an exercise with sets is left untouched.
func (m *Manager) RemoveExercise(exerciseID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap.SetCount(exerciseID) > 0 {
		return false
	}
	if _, ok := m.snap.Exercises[exerciseID]; !ok {
		return false
	}
	m.apply(ExerciseRemoved{ExerciseID: exerciseID})
	return true
}

// DefaultsForNewSet returns the weight and reps of the most recently
// appended set of the exercise in this session, or zeros.
func (m *Manager) DefaultsForNewSet(exerciseID string) (float64, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if last, ok := lastOf(m.snap.Sets, exerciseID); ok {
		return last.Weight, last.Reps
	}
	return 0, 0
}

func lastOf(sets []models.WorkoutSet, exerciseID string) (models.WorkoutSet, bool) {
	for i := len(sets) - 1; i >= 0; i-- {
		if sets[i].ExerciseID == exerciseID {
			return sets[i], true
		}
	}
	return models.WorkoutSet{}, false
}

// CreateSet appends a set with a temporary id and sends it to the store.
// The order number is reserved in the same critical section as the append,
// so concurrent calls never pick the same number. On success the temporary
// set is swapped for the store's copy. On failure the error is returned and
// the optimistic set stays in place.
func (m *Manager) CreateSet(ctx context.Context, exerciseID string, weight float64, reps int) (models.WorkoutSet, error) {
	m.mu.Lock()
	if m.snap.Session == nil {
		m.mu.Unlock()
		return models.WorkoutSet{}, ErrNoActiveSession
	}
	in := models.NewSet{SessionID: m.snap.Session.ID, ExerciseID: exerciseID, Weight: weight, Reps: reps}
	if err := in.Validate(); err != nil {
		m.mu.Unlock()
		return models.WorkoutSet{}, err
	}
	local := models.WorkoutSet{
		ID:              m.ids.Next(),
		SessionID:       in.SessionID,
		ExerciseID:      exerciseID,
		OrderInExercise: m.snap.SetCount(exerciseID) + 1,
		Weight:          weight,
		Reps:            reps,
	}
	p := &pendingCreate{done: make(chan struct{})}
	m.pending[local.ID] = p
	m.apply(SetAppended{Set: local})
	m.mu.Unlock()

	created, err := m.store.CreateSet(ctx, in)

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, local.ID)
	defer close(p.done)
	if err != nil {
		return local, fmt.Errorf("creating set: %w", err)
	}

	p.confirmedID = created.ID
	reconciled := *created
	if p.edit != nil {
		reconciled = p.edit.Apply(reconciled)
	}
	m.confirmed[local.ID] = reconciled
	m.apply(SetReconciled{LocalID: local.ID, Set: reconciled})
	return reconciled, nil
}

// CopyLastSet repeats the most recent set of the exercise. It returns nil
// without doing anything when the exercise has no sets.
func (m *Manager) CopyLastSet(ctx context.Context, exerciseID string) (*models.WorkoutSet, error) {
	m.mu.Lock()
	last, ok := lastOf(m.snap.Sets, exerciseID)
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}
	ws, err := m.CreateSet(ctx, exerciseID, last.Weight, last.Reps)
	return &ws, err
}

// EditSet changes a set's weight and reps locally, then at the store. The
// local change is kept if the store call fails. Editing a set whose create
// is still in flight waits for the store id; if that create failed, the
// edit fails with models.ErrNotFound.
func (m *Manager) EditSet(ctx context.Context, setID string, weight float64, reps int) error {
	patch := models.SetPatch{Weight: &weight, Reps: &reps}
	if err := patch.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	if _, ok := m.snap.Find(setID); !ok {
		m.mu.Unlock()
		return models.NotFound("set", setID)
	}
	m.apply(SetEdited{SetID: setID, Patch: patch})
	p := m.pending[setID]
	if p != nil {
		p.edit = &patch
	}
	m.mu.Unlock()

	target, err := m.resolveID(ctx, setID, p)
	if err != nil {
		return fmt.Errorf("editing set: %w", err)
	}
	if _, err := m.store.UpdateSet(ctx, target, patch); err != nil {
		return fmt.Errorf("editing set: %w", err)
	}
	return nil
}

// DeleteSet removes a set locally, then at the store. If the store call
// fails the previous set list is put back.
func (m *Manager) DeleteSet(ctx context.Context, setID string) error {
	m.mu.Lock()
	if _, ok := m.snap.Find(setID); !ok {
		m.mu.Unlock()
		return models.NotFound("set", setID)
	}
	prev := m.snap.Sets
	m.apply(SetDeleted{SetID: setID})
	p := m.pending[setID]
	m.mu.Unlock()

	target, err := m.resolveID(ctx, setID, p)
	if errors.Is(err, models.ErrNotFound) {
		// The store never had this set.
		return nil
	}
	if err == nil {
		err = m.store.DeleteSet(ctx, target)
	}
	if err != nil {
		m.mu.Lock()
		m.restore(prev)
		m.mu.Unlock()
		return fmt.Errorf("deleting set: %w", err)
	}
	return nil
}

// restore puts prev back, substituting sets whose create was confirmed
// since prev was taken. Must be called with m.mu held.
func (m *Manager) restore(prev []models.WorkoutSet) {
	m.apply(SetsRestored{Sets: prev})
	for _, ws := range prev {
		if c, ok := m.confirmed[ws.ID]; ok {
			m.apply(SetReconciled{LocalID: ws.ID, Set: c})
		}
	}
}

// resolveID returns the store id for a local set id, waiting for an
// in-flight create when p is non-nil.
func (m *Manager) resolveID(ctx context.Context, setID string, p *pendingCreate) (string, error) {
	if p == nil {
		if IsTemp(setID) {
			return "", models.NotFound("set", setID)
		}
		return setID, nil
	}
	select {
	case <-p.done:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if p.confirmedID == "" {
		return "", models.NotFound("set", setID)
	}
	return p.confirmedID, nil
}

// NeedsEmptyConfirmation reports whether finishing now would close a
// session without sets. Such a session does not show up in history, so
// callers should ask the user first.
func (m *Manager) NeedsEmptyConfirmation() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.Session != nil && len(m.snap.Sets) == 0
}

// Finish ends the session at the store and closes it locally. A store
// failure is logged; the session is closed regardless.
func (m *Manager) Finish(ctx context.Context) error {
	m.mu.Lock()
	if m.snap.Session == nil {
		m.mu.Unlock()
		return ErrNoActiveSession
	}
	id := m.snap.Session.ID
	m.mu.Unlock()

	if _, err := m.store.EndSession(ctx, id); err != nil {
		m.log.Warn("ending session at store failed, closing locally", "session", id, "error", err)
	} else {
		m.log.Info("session finished", "session", id)
	}

	m.close(id)
	return nil
}

// Discard deletes the session at the store and closes it locally. Sets
// already recorded for the session are not deleted.
func (m *Manager) Discard(ctx context.Context) error {
	id := m.SessionID()
	if id == "" {
		return ErrNoActiveSession
	}
	if err := m.store.DeleteSession(ctx, id); err != nil && !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("discarding session: %w", err)
	}
	m.close(id)
	m.log.Info("session discarded", "session", id)
	return nil
}

func (m *Manager) close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap.Session != nil && m.snap.Session.ID == id {
		m.apply(Closed{})
	}
}
