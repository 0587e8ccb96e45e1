package models

import "time"

// Session is one bounded workout. EndAt is nil while the session is active.
type Session struct {
	ID      string     `json:"id"`
	UserID  string     `json:"userId"`
	StartAt time.Time  `json:"startAt"`
	EndAt   *time.Time `json:"endAt"`
	Note    *string    `json:"note"`
}

// Active reports whether the session has not been ended yet.
func (s Session) Active() bool {
	return s.EndAt == nil
}

// Exercise is an entry of the global exercise catalog.
type Exercise struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	LastUsedAt *time.Time `json:"lastUsedAt"`
}

// WorkoutSet is one recorded weight x reps performance. OrderInExercise is
// 1-based and scoped to the (SessionID, ExerciseID) pair.
type WorkoutSet struct {
	ID              string  `json:"id"`
	SessionID       string  `json:"sessionId"`
	ExerciseID      string  `json:"exerciseId"`
	OrderInExercise int     `json:"orderInExercise"`
	Weight          float64 `json:"weight"`
	Reps            int     `json:"reps"`
}

// NewSet is the payload for creating a set. The store assigns the ID and
// OrderInExercise.
type NewSet struct {
	SessionID  string  `json:"sessionId"`
	ExerciseID string  `json:"exerciseId"`
	Weight     float64 `json:"weight"`
	Reps       int     `json:"reps"`
}

// Validate checks the payload before it is sent or stored.
func (n NewSet) Validate() error {
	if n.SessionID == "" || n.ExerciseID == "" {
		return Invalid("sessionId and exerciseId are required")
	}
	if n.Weight < 0 {
		return Invalid("weight must not be negative")
	}
	if n.Reps < 0 {
		return Invalid("reps must not be negative")
	}
	return nil
}

// SetPatch carries a partial set update. Nil fields are left unchanged.
type SetPatch struct {
	Weight *float64 `json:"weight,omitempty"`
	Reps   *int     `json:"reps,omitempty"`
}

// Validate rejects negative values.
func (p SetPatch) Validate() error {
	if p.Weight != nil && *p.Weight < 0 {
		return Invalid("weight must not be negative")
	}
	if p.Reps != nil && *p.Reps < 0 {
		return Invalid("reps must not be negative")
	}
	return nil
}

// Apply returns s with the patch fields applied.
func (p SetPatch) Apply(s WorkoutSet) WorkoutSet {
	if p.Weight != nil {
		s.Weight = *p.Weight
	}
	if p.Reps != nil {
		s.Reps = *p.Reps
	}
	return s
}

// SessionDetail is a session with its flat set list and the distinct
// exercises those sets reference. Sets are grouped client-side.
type SessionDetail struct {
	Session
	Sets      []WorkoutSet `json:"sets"`
	Exercises []Exercise   `json:"exercises"`
}

// TrainingPeriod aggregates strength volume for one week or month.
type TrainingPeriod struct {
	Period    string  `json:"period"`
	Sessions  int     `json:"sessions"`
	Sets      int     `json:"sets"`
	TotalReps int     `json:"totalReps"`
	TonnageKg float64 `json:"tonnageKg"`
}
