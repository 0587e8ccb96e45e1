package models

import "time"

// AlphaSession is one workout parsed from an Alpha Progression CSV export.
type AlphaSession struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Exercises []AlphaExercise
}

// EndedAt returns the start time plus the recorded duration.
func (s AlphaSession) EndedAt() time.Time {
	return s.StartedAt.Add(s.Duration)
}

// AlphaExercise is one exercise block inside an exported session, in the
// order the app listed it.
type AlphaExercise struct {
	Position   int
	Name       string
	Equipment  string
	TargetReps int
	Sets       []AlphaSet
}

// WorkingSets returns the non-warmup sets.
func (e AlphaExercise) WorkingSets() []AlphaSet {
	var out []AlphaSet
	for _, s := range e.Sets {
		if !s.Warmup {
			out = append(out, s)
		}
	}
	return out
}

// AlphaSet is a single exported set. Bodyweight-plus sets carry the added
// load in WeightKg.
type AlphaSet struct {
	Number           int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	RIR              float64
	Warmup           bool
}
