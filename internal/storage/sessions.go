package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/liftlog/internal/models"
)

const sessionColumns = `id, user_id, start_at, end_at, note`

// StartSession creates an active session for the user.
func (db *DB) StartSession(ctx context.Context, userID string) (*models.Session, error) {
	return db.InsertSession(ctx, userID, time.Now().UTC(), nil, nil)
}

// InsertSession stores a session with explicit timestamps.
func (db *DB) InsertSession(ctx context.Context, userID string, startAt time.Time, endAt *time.Time, note *string) (*models.Session, error) {
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO sessions (id, user_id, start_at, end_at, note)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+sessionColumns,
		uuid.NewString(), userID, startAt, endAt, note)
	s, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}
	return s, nil
}

// EndSession stamps end_at with the current time.
func (db *DB) EndSession(ctx context.Context, id string) (*models.Session, error) {
	row := db.Pool.QueryRow(ctx,
		`UPDATE sessions SET end_at = NOW() WHERE id = $1 RETURNING `+sessionColumns, id)
	s, err := scanSession(row)
	if err != nil {
		return nil, notFound(err, "session", id)
	}
	return s, nil
}

// DeleteSession removes the session row. Sets referencing it are kept.
func (db *DB) DeleteSession(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.NotFound("session", id)
	}
	return nil
}

// SessionDetail returns the session, its sets in creation order and the
// distinct exercises they reference.
func (db *DB) SessionDetail(ctx context.Context, id string) (*models.SessionDetail, error) {
	s, err := scanSession(db.Pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "session", id)
	}
	detail := &models.SessionDetail{Session: *s, Sets: []models.WorkoutSet{}, Exercises: []models.Exercise{}}

	rows, err := db.Pool.Query(ctx,
		`SELECT `+setColumns+` FROM workout_sets WHERE session_id = $1 ORDER BY seq ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("querying session sets: %w", err)
	}
	sets, err := scanSets(rows)
	if err != nil {
		return nil, err
	}
	detail.Sets = append(detail.Sets, sets...)

	exRows, err := db.Pool.Query(ctx,
		`SELECT e.id, e.name, e.last_used_at
		 FROM exercises e
		 JOIN (SELECT exercise_id, MIN(seq) AS first_seq
		       FROM workout_sets WHERE session_id = $1
		       GROUP BY exercise_id) s ON s.exercise_id = e.id
		 ORDER BY s.first_seq ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("querying session exercises: %w", err)
	}
	exercises, err := scanExercises(exRows)
	if err != nil {
		return nil, err
	}
	detail.Exercises = append(detail.Exercises, exercises...)
	return detail, nil
}

// ListHistory returns the user's completed sessions, newest first.
func (db *DB) ListHistory(ctx context.Context, userID string) ([]models.Session, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM sessions
		 WHERE user_id = $1 AND end_at IS NOT NULL
		 ORDER BY start_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	result := []models.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func scanSession(row pgx.Row) (*models.Session, error) {
	var s models.Session
	if err := row.Scan(&s.ID, &s.UserID, &s.StartAt, &s.EndAt, &s.Note); err != nil {
		return nil, err
	}
	return &s, nil
}
