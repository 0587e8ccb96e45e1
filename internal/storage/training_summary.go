package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

// TrainingSummary aggregates set volume of completed sessions per period.
func (db *DB) TrainingSummary(ctx context.Context, userID string, start, end time.Time, bucket string) ([]models.TrainingPeriod, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date_trunc($1, s.start_at)::date AS period,
		        COUNT(DISTINCT s.id)::int,
		        COUNT(w.id)::int,
		        COALESCE(SUM(w.reps), 0)::int,
		        COALESCE(SUM(w.weight * w.reps), 0)
		 FROM sessions s
		 LEFT JOIN workout_sets w ON w.session_id = s.id
		 WHERE s.user_id = $2 AND s.end_at IS NOT NULL
		   AND s.start_at >= $3 AND s.start_at < $4
		 GROUP BY period
		 ORDER BY period DESC`,
		truncInterval(bucket), userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying training summary: %w", err)
	}
	defer rows.Close()

	result := []models.TrainingPeriod{}
	for rows.Next() {
		var periodTime time.Time
		var p models.TrainingPeriod
		if err := rows.Scan(&periodTime, &p.Sessions, &p.Sets, &p.TotalReps, &p.TonnageKg); err != nil {
			return nil, fmt.Errorf("scanning training summary: %w", err)
		}
		p.Period = periodTime.Format("2006-01-02")
		result = append(result, p)
	}
	return result, rows.Err()
}
