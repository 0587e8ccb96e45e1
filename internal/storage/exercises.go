package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/liftlog/internal/models"
)

// ListExercises returns all exercises, most recently used first. A non-empty
// query filters by case-insensitive substring match on the name.
func (db *DB) ListExercises(ctx context.Context, query string) ([]models.Exercise, error) {
	sql := `SELECT id, name, last_used_at FROM exercises`
	var args []any
	if q := strings.TrimSpace(query); q != "" {
		sql += ` WHERE name ILIKE $1`
		args = append(args, "%"+q+"%")
	}
	sql += ` ORDER BY last_used_at DESC NULLS LAST, name ASC`

	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	return scanExercises(rows)
}

// CreateExercise inserts a new exercise. Names are not checked for
// uniqueness.
func (db *DB) CreateExercise(ctx context.Context, name string) (*models.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.Invalid("name is required")
	}
	var e models.Exercise
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (id, name) VALUES ($1, $2) RETURNING id, name, last_used_at`,
		uuid.NewString(), name).Scan(&e.ID, &e.Name, &e.LastUsedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting exercise: %w", err)
	}
	return &e, nil
}

// LastSet returns the newest set of the exercise recorded outside
// excludeSessionID, or nil if there is none.
func (db *DB) LastSet(ctx context.Context, exerciseID, excludeSessionID string) (*models.WorkoutSet, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+setColumns+`
		 FROM workout_sets
		 WHERE exercise_id = $1 AND session_id <> $2
		 ORDER BY seq DESC
		 LIMIT 1`, exerciseID, excludeSessionID)
	if err != nil {
		return nil, fmt.Errorf("querying last set: %w", err)
	}
	sets, err := scanSets(rows)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, nil
	}
	return &sets[0], nil
}

func scanExercises(rows pgx.Rows) ([]models.Exercise, error) {
	defer rows.Close()
	result := []models.Exercise{}
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.LastUsedAt); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
