package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/liftlog/internal/models"
)

const setColumns = `id, session_id, exercise_id, order_in_exercise, weight, reps`

// CreateSet inserts a set with order_in_exercise = count(existing for the
// session/exercise pair) + 1 and refreshes the exercise's last_used_at.
// An advisory lock on the pair serializes concurrent inserts.
func (db *DB) CreateSet(ctx context.Context, in models.NewSet) (*models.WorkoutSet, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning set transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1 || '/' || $2))`,
		in.SessionID, in.ExerciseID); err != nil {
		return nil, fmt.Errorf("locking set order: %w", err)
	}

	var n int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_sets WHERE session_id = $1 AND exercise_id = $2`,
		in.SessionID, in.ExerciseID).Scan(&n); err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE exercises SET last_used_at = NOW() WHERE id = $1`, in.ExerciseID)
	if err != nil {
		return nil, fmt.Errorf("touching exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, models.NotFound("exercise", in.ExerciseID)
	}

	var s models.WorkoutSet
	err = tx.QueryRow(ctx,
		`INSERT INTO workout_sets (id, session_id, exercise_id, order_in_exercise, weight, reps)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+setColumns,
		uuid.NewString(), in.SessionID, in.ExerciseID, n+1, in.Weight, in.Reps,
	).Scan(&s.ID, &s.SessionID, &s.ExerciseID, &s.OrderInExercise, &s.Weight, &s.Reps)
	if err != nil {
		return nil, fmt.Errorf("inserting set: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing set: %w", err)
	}
	return &s, nil
}

// GetSet returns a single set.
func (db *DB) GetSet(ctx context.Context, id string) (*models.WorkoutSet, error) {
	var s models.WorkoutSet
	err := db.Pool.QueryRow(ctx,
		`SELECT `+setColumns+` FROM workout_sets WHERE id = $1`, id,
	).Scan(&s.ID, &s.SessionID, &s.ExerciseID, &s.OrderInExercise, &s.Weight, &s.Reps)
	if err != nil {
		return nil, notFound(err, "set", id)
	}
	return &s, nil
}

// UpdateSet applies a partial update to weight and/or reps.
func (db *DB) UpdateSet(ctx context.Context, id string, patch models.SetPatch) (*models.WorkoutSet, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var s models.WorkoutSet
	err := db.Pool.QueryRow(ctx,
		`UPDATE workout_sets
		 SET weight = COALESCE($2, weight), reps = COALESCE($3, reps)
		 WHERE id = $1
		 RETURNING `+setColumns,
		id, patch.Weight, patch.Reps,
	).Scan(&s.ID, &s.SessionID, &s.ExerciseID, &s.OrderInExercise, &s.Weight, &s.Reps)
	if err != nil {
		return nil, notFound(err, "set", id)
	}
	return &s, nil
}

// DeleteSet removes a set. Remaining sets keep their order numbers.
func (db *DB) DeleteSet(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM workout_sets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting set %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.NotFound("set", id)
	}
	return nil
}

func scanSets(rows pgx.Rows) ([]models.WorkoutSet, error) {
	defer rows.Close()
	result := []models.WorkoutSet{}
	for rows.Next() {
		var s models.WorkoutSet
		if err := rows.Scan(&s.ID, &s.SessionID, &s.ExerciseID, &s.OrderInExercise, &s.Weight, &s.Reps); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
