package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/meltforce/liftlog/internal/models"
)

// RecentLimit is how many recently used exercises the picker offers.
const RecentLimit = 5

// Store is the part of the remote store the picker needs.
type Store interface {
	ListExercises(ctx context.Context, query string) ([]models.Exercise, error)
	CreateExercise(ctx context.Context, name string) (*models.Exercise, error)
}

// Picker resolves picked exercises against the store's catalog. The store
// does not enforce unique names, so every create is preceded by a lookup
// in the list loaded by NewPicker. Two pickers creating the same name at
// the same time can still produce duplicates.
type Picker struct {
	store     Store
	exercises []models.Exercise
}

// NewPicker loads the full exercise list.
func NewPicker(ctx context.Context, store Store) (*Picker, error) {
	list, err := store.ListExercises(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	return &Picker{store: store, exercises: list}, nil
}

// Exercises returns the loaded catalog.
func (p *Picker) Exercises() []models.Exercise {
	return p.exercises
}

// Resolve returns the catalog entry for a preset, trying the canonical name
// and then the legacy flipped name before creating it under the canonical
// name. created reports whether a new entry was made.
func (p *Picker) Resolve(ctx context.Context, item Item) (e *models.Exercise, created bool, err error) {
	if found := p.findExact(item.CanonicalName()); found != nil {
		return found, false, nil
	}
	if found := p.findExact(item.LegacyName()); found != nil {
		return found, false, nil
	}
	e, err = p.create(ctx, item.CanonicalName())
	return e, err == nil, err
}

// CreateCustom returns an existing entry whose name matches ignoring case,
// or creates one.
func (p *Picker) CreateCustom(ctx context.Context, name string) (e *models.Exercise, created bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, models.Invalid("exercise name is required")
	}
	for i := range p.exercises {
		if strings.EqualFold(p.exercises[i].Name, name) {
			return &p.exercises[i], false, nil
		}
	}
	e, err = p.create(ctx, name)
	return e, err == nil, err
}

// ResolveName maps a free-form name to a preset when one matches and
// otherwise treats it as a custom exercise.
func (p *Picker) ResolveName(ctx context.Context, name string) (*models.Exercise, bool, error) {
	if item, ok := Lookup(name); ok {
		return p.Resolve(ctx, item)
	}
	return p.CreateCustom(ctx, name)
}

// Search filters the loaded catalog by a case-insensitive substring.
func (p *Picker) Search(query string) []models.Exercise {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Exercise
	for _, e := range p.exercises {
		if strings.Contains(strings.ToLower(e.Name), q) {
			out = append(out, e)
		}
	}
	return out
}

// Recent returns the most recently used exercises.
func (p *Picker) Recent() []models.Exercise {
	return Recent(p.exercises, RecentLimit)
}

// Recent returns up to n exercises that have been used, newest first.
func Recent(exercises []models.Exercise, n int) []models.Exercise {
	var used []models.Exercise
	for _, e := range exercises {
		if e.LastUsedAt != nil {
			used = append(used, e)
		}
	}
	sort.SliceStable(used, func(i, j int) bool {
		return used[i].LastUsedAt.After(*used[j].LastUsedAt)
	})
	if len(used) > n {
		used = used[:n]
	}
	return used
}

func (p *Picker) findExact(name string) *models.Exercise {
	for i := range p.exercises {
		if p.exercises[i].Name == name {
			return &p.exercises[i]
		}
	}
	return nil
}

func (p *Picker) create(ctx context.Context, name string) (*models.Exercise, error) {
	e, err := p.store.CreateExercise(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("creating exercise %q: %w", name, err)
	}
	p.exercises = append(p.exercises, *e)
	return e, nil
}
