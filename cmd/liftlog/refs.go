package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/tracker"
)

// setRef addresses a set as shown by status: 1-based block and set numbers.
type setRef struct {
	block int
	set   int
}

func parseSetRef(s string) (setRef, error) {
	b, n, ok := strings.Cut(s, ".")
	if !ok {
		return setRef{}, fmt.Errorf("set reference %q must look like BLOCK.SET, e.g. 1.2", s)
	}
	block, err := strconv.Atoi(b)
	if err != nil || block < 1 {
		return setRef{}, fmt.Errorf("invalid block number in %q", s)
	}
	set, err := strconv.Atoi(n)
	if err != nil || set < 1 {
		return setRef{}, fmt.Errorf("invalid set number in %q", s)
	}
	return setRef{block: block, set: set}, nil
}

// lookup finds the referenced set in v.
func (r setRef) lookup(v tracker.View) (models.WorkoutSet, error) {
	if r.block > len(v.Blocks) {
		return models.WorkoutSet{}, fmt.Errorf("block %d does not exist (session has %d)", r.block, len(v.Blocks))
	}
	b := v.Blocks[r.block-1]
	if r.set > len(b.Sets) {
		return models.WorkoutSet{}, fmt.Errorf("%s has no set %d", b.Exercise.Name, r.set)
	}
	return b.Sets[r.set-1], nil
}

// blockExercise returns the exercise of block number arg, if arg is one.
func blockExercise(v tracker.View, arg string) (models.Exercise, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(v.Blocks) {
		return models.Exercise{}, false
	}
	return v.Blocks[n-1].Exercise, true
}

// resolveExercise maps arg to an exercise: a block number of the active
// session, an exercise already in it, or a catalog entry (created when
// missing). Catalog exercises are added to the session.
func (a *App) resolveExercise(ctx context.Context, arg string) (models.Exercise, error) {
	v := a.mgr.View()
	if e, ok := blockExercise(v, arg); ok {
		return e, nil
	}
	for _, b := range v.Blocks {
		if strings.EqualFold(b.Exercise.Name, arg) {
			return b.Exercise, nil
		}
	}

	p, err := a.picker(ctx)
	if err != nil {
		return models.Exercise{}, err
	}
	e, created, err := p.ResolveName(ctx, arg)
	if err != nil {
		return models.Exercise{}, err
	}
	if created {
		a.log.Info("exercise created", "name", e.Name, "id", e.ID)
	}
	if err := a.mgr.AddExercise(ctx, *e); err != nil {
		return models.Exercise{}, err
	}
	return *e, nil
}
