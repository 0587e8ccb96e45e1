package tracker

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// fakeStore serves one user from storage.Memory and can fail or hold
// individual operations.
type fakeStore struct {
	mem  *storage.Memory
	user string

	mu    sync.Mutex
	fail  map[string]error
	holds map[string]chan struct{}
	calls []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		mem:   storage.NewMemory(),
		user:  "alice",
		fail:  map[string]error{},
		holds: map[string]chan struct{}{},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (f *fakeStore) failOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = err
}

// hold makes op block until the returned func is called.
func (f *fakeStore) hold(op string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.holds[op] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (f *fakeStore) enter(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	ch := f.holds[op]
	err := f.fail[op]
	f.mu.Unlock()
	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeStore) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeStore) StartSession(ctx context.Context) (*models.Session, error) {
	if err := f.enter(ctx, "StartSession"); err != nil {
		return nil, err
	}
	return f.mem.StartSession(ctx, f.user)
}

func (f *fakeStore) EndSession(ctx context.Context, id string) (*models.Session, error) {
	if err := f.enter(ctx, "EndSession"); err != nil {
		return nil, err
	}
	return f.mem.EndSession(ctx, id)
}

func (f *fakeStore) DeleteSession(ctx context.Context, id string) error {
	if err := f.enter(ctx, "DeleteSession"); err != nil {
		return err
	}
	return f.mem.DeleteSession(ctx, id)
}

func (f *fakeStore) SessionDetail(ctx context.Context, id string) (*models.SessionDetail, error) {
	if err := f.enter(ctx, "SessionDetail"); err != nil {
		return nil, err
	}
	return f.mem.SessionDetail(ctx, id)
}

func (f *fakeStore) ListHistory(ctx context.Context) ([]models.Session, error) {
	if err := f.enter(ctx, "ListHistory"); err != nil {
		return nil, err
	}
	return f.mem.ListHistory(ctx, f.user)
}

func (f *fakeStore) ListExercises(ctx context.Context, query string) ([]models.Exercise, error) {
	if err := f.enter(ctx, "ListExercises"); err != nil {
		return nil, err
	}
	return f.mem.ListExercises(ctx, query)
}

func (f *fakeStore) CreateExercise(ctx context.Context, name string) (*models.Exercise, error) {
	if err := f.enter(ctx, "CreateExercise"); err != nil {
		return nil, err
	}
	return f.mem.CreateExercise(ctx, name)
}

func (f *fakeStore) LastSet(ctx context.Context, exerciseID, currentSessionID string) (*models.WorkoutSet, error) {
	if err := f.enter(ctx, "LastSet"); err != nil {
		return nil, err
	}
	return f.mem.LastSet(ctx, exerciseID, currentSessionID)
}

func (f *fakeStore) CreateSet(ctx context.Context, in models.NewSet) (*models.WorkoutSet, error) {
	if err := f.enter(ctx, "CreateSet"); err != nil {
		return nil, err
	}
	return f.mem.CreateSet(ctx, in)
}

func (f *fakeStore) UpdateSet(ctx context.Context, id string, patch models.SetPatch) (*models.WorkoutSet, error) {
	if err := f.enter(ctx, "UpdateSet"); err != nil {
		return nil, err
	}
	return f.mem.UpdateSet(ctx, id, patch)
}

func (f *fakeStore) DeleteSet(ctx context.Context, id string) error {
	if err := f.enter(ctx, "DeleteSet"); err != nil {
		return err
	}
	return f.mem.DeleteSet(ctx, id)
}

// insertPastSession stores a completed session with one set per weight.
func (f *fakeStore) insertPastSession(ctx context.Context, start time.Time, exerciseID string, weights ...float64) *models.Session {
	end := start.Add(time.Hour)
	s, err := f.mem.InsertSession(ctx, f.user, start, &end, nil)
	if err != nil {
		panic(err)
	}
	for _, w := range weights {
		if _, err := f.mem.CreateSet(ctx, models.NewSet{SessionID: s.ID, ExerciseID: exerciseID, Weight: w, Reps: 5}); err != nil {
			panic(err)
		}
	}
	return s
}

var _ Store = (*fakeStore)(nil)
