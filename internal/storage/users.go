package storage

import (
	"context"
	"fmt"
)

// EnsureUser records a login, creating the user on first sight and
// refreshing last_seen afterwards.
func (db *DB) EnsureUser(ctx context.Context, login string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO users (login)
		VALUES ($1)
		ON CONFLICT (login) DO UPDATE SET last_seen = NOW()
	`, login)
	if err != nil {
		return fmt.Errorf("upserting user %s: %w", login, err)
	}
	return nil
}
