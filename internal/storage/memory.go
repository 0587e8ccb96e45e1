package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/models"
)

// Memory is an in-process Backend used in dev mode and tests. It honors the
// same contract as DB, including non-cascading session deletes.
type Memory struct {
	mu        sync.Mutex
	now       func() time.Time
	users     map[string]time.Time
	sessions  map[string]models.Session
	exercises map[string]models.Exercise
	// sets is kept in creation order, which stands in for DB's seq column.
	sets []models.WorkoutSet
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		now:       func() time.Time { return time.Now().UTC() },
		users:     make(map[string]time.Time),
		sessions:  make(map[string]models.Session),
		exercises: make(map[string]models.Exercise),
	}
}

// SetClock replaces the time source. Intended for tests.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *Memory) Close() {}

func (m *Memory) EnsureUser(_ context.Context, login string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[login] = m.now()
	return nil
}

func (m *Memory) StartSession(ctx context.Context, userID string) (*models.Session, error) {
	m.mu.Lock()
	start := m.now()
	m.mu.Unlock()
	return m.InsertSession(ctx, userID, start, nil, nil)
}

func (m *Memory) InsertSession(_ context.Context, userID string, startAt time.Time, endAt *time.Time, note *string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := models.Session{ID: uuid.NewString(), UserID: userID, StartAt: startAt, EndAt: endAt, Note: note}
	m.sessions[s.ID] = s
	return &s, nil
}

func (m *Memory) EndSession(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, models.NotFound("session", id)
	}
	now := m.now()
	s.EndAt = &now
	m.sessions[id] = s
	return &s, nil
}

func (m *Memory) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return models.NotFound("session", id)
	}
	delete(m.sessions, id)
	return nil
}

func (m *Memory) SessionDetail(_ context.Context, id string) (*models.SessionDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, models.NotFound("session", id)
	}
	detail := &models.SessionDetail{Session: s, Sets: []models.WorkoutSet{}, Exercises: []models.Exercise{}}
	seen := make(map[string]bool)
	for _, ws := range m.sets {
		if ws.SessionID != id {
			continue
		}
		detail.Sets = append(detail.Sets, ws)
		if !seen[ws.ExerciseID] {
			seen[ws.ExerciseID] = true
			if e, ok := m.exercises[ws.ExerciseID]; ok {
				detail.Exercises = append(detail.Exercises, e)
			}
		}
	}
	return detail, nil
}

func (m *Memory) ListHistory(_ context.Context, userID string) ([]models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []models.Session{}
	for _, s := range m.sessions {
		if s.UserID == userID && s.EndAt != nil {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartAt.After(result[j].StartAt)
	})
	return result, nil
}

func (m *Memory) TrainingSummary(_ context.Context, userID string, start, end time.Time, bucket string) ([]models.TrainingPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	periods := make(map[time.Time]*models.TrainingPeriod)
	periodOf := make(map[string]time.Time)
	for _, s := range m.sessions {
		if s.UserID != userID || s.EndAt == nil || s.StartAt.Before(start) || !s.StartAt.Before(end) {
			continue
		}
		key := periodStart(s.StartAt, bucket)
		p, ok := periods[key]
		if !ok {
			p = &models.TrainingPeriod{Period: key.Format("2006-01-02")}
			periods[key] = p
		}
		p.Sessions++
		periodOf[s.ID] = key
	}
	for _, ws := range m.sets {
		key, ok := periodOf[ws.SessionID]
		if !ok {
			continue
		}
		p := periods[key]
		p.Sets++
		p.TotalReps += ws.Reps
		p.TonnageKg += ws.Weight * float64(ws.Reps)
	}

	keys := make([]time.Time, 0, len(periods))
	for k := range periods {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].After(keys[j]) })
	result := make([]models.TrainingPeriod, 0, len(keys))
	for _, k := range keys {
		result = append(result, *periods[k])
	}
	return result, nil
}

func (m *Memory) ListExercises(_ context.Context, query string) ([]models.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(strings.TrimSpace(query))
	result := []models.Exercise{}
	for _, e := range m.exercises {
		if q != "" && !strings.Contains(strings.ToLower(e.Name), q) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].LastUsedAt, result[j].LastUsedAt
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *Memory) CreateExercise(_ context.Context, name string) (*models.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.Invalid("name is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e := models.Exercise{ID: uuid.NewString(), Name: name}
	m.exercises[e.ID] = e
	return &e, nil
}

func (m *Memory) LastSet(_ context.Context, exerciseID, excludeSessionID string) (*models.WorkoutSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sets) - 1; i >= 0; i-- {
		ws := m.sets[i]
		if ws.ExerciseID == exerciseID && ws.SessionID != excludeSessionID {
			return &ws, nil
		}
	}
	return nil, nil
}

func (m *Memory) CreateSet(_ context.Context, in models.NewSet) (*models.WorkoutSet, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.exercises[in.ExerciseID]
	if !ok {
		return nil, models.NotFound("exercise", in.ExerciseID)
	}
	n := 0
	for _, ws := range m.sets {
		if ws.SessionID == in.SessionID && ws.ExerciseID == in.ExerciseID {
			n++
		}
	}
	now := m.now()
	e.LastUsedAt = &now
	m.exercises[e.ID] = e

	s := models.WorkoutSet{
		ID:              uuid.NewString(),
		SessionID:       in.SessionID,
		ExerciseID:      in.ExerciseID,
		OrderInExercise: n + 1,
		Weight:          in.Weight,
		Reps:            in.Reps,
	}
	m.sets = append(m.sets, s)
	return &s, nil
}

func (m *Memory) GetSet(_ context.Context, id string) (*models.WorkoutSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ws := range m.sets {
		if ws.ID == id {
			return &ws, nil
		}
	}
	return nil, models.NotFound("set", id)
}

func (m *Memory) UpdateSet(_ context.Context, id string, patch models.SetPatch) (*models.WorkoutSet, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sets {
		if m.sets[i].ID == id {
			m.sets[i] = patch.Apply(m.sets[i])
			s := m.sets[i]
			return &s, nil
		}
	}
	return nil, models.NotFound("set", id)
}

func (m *Memory) DeleteSet(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sets {
		if m.sets[i].ID == id {
			m.sets = append(m.sets[:i:i], m.sets[i+1:]...)
			return nil
		}
	}
	return models.NotFound("set", id)
}
