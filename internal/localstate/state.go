// Package localstate persists the CLI's credential and active session id
// between invocations.
package localstate

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/meltforce/liftlog/internal/auth"
)

const (
	keyUser          = "current_user"
	keyCredential    = "auth_credentials"
	keyActiveSession = "active_session_id"
	keyManual        = "manual_exercises"
)

// DB is a small key/value store backed by SQLite at <dir>/state.db.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the state database in dir.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "state.db"))
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the state database.
func (s *DB) Close() error {
	return s.db.Close()
}

func (s *DB) get(key string) (string, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return v, nil
}

// set stores value under key; an empty value removes the key.
func (s *DB) set(key, value string) error {
	var err error
	if value == "" {
		_, err = s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	} else {
		_, err = s.db.Exec(
			`INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
			key, value,
		)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Auth returns the persisted user and credential.
func (s *DB) Auth() (auth.State, error) {
	user, err := s.get(keyUser)
	if err != nil {
		return auth.State{}, err
	}
	cred, err := s.get(keyCredential)
	if err != nil {
		return auth.State{}, err
	}
	return auth.State{User: user, Credential: cred}, nil
}

// SaveAuth persists st. A zero State clears the stored login.
func (s *DB) SaveAuth(st auth.State) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	for key, value := range map[string]string{keyUser: st.User, keyCredential: st.Credential} {
		if value == "" {
			_, err = tx.Exec(`DELETE FROM kv WHERE key = ?`, key)
		} else {
			_, err = tx.Exec(
				`INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
				key, value,
			)
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// ActiveSession returns the stored active session id, or "".
func (s *DB) ActiveSession() (string, error) {
	return s.get(keyActiveSession)
}

// SetActiveSession stores id; "" clears it.
func (s *DB) SetActiveSession(id string) error {
	return s.set(keyActiveSession, id)
}

// Manual returns the exercise ids added to the active session before any
// set was recorded for them.
func (s *DB) Manual() ([]string, error) {
	v, err := s.get(keyManual)
	if err != nil || v == "" {
		return nil, err
	}
	return strings.Split(v, ","), nil
}

// SetManual replaces the stored manual exercise ids.
func (s *DB) SetManual(ids []string) error {
	return s.set(keyManual, strings.Join(ids, ","))
}

// ClearSession forgets the active session and its manual exercises.
func (s *DB) ClearSession() error {
	if err := s.set(keyActiveSession, ""); err != nil {
		return err
	}
	return s.set(keyManual, "")
}

// Bind restores g from the stored login and persists every later change.
// Write errors after binding are passed to onErr.
func (s *DB) Bind(g *auth.Gate, onErr func(error)) error {
	st, err := s.Auth()
	if err != nil {
		return err
	}
	g.Restore(st)
	g.OnChange(func(st auth.State) {
		if err := s.SaveAuth(st); err != nil && onErr != nil {
			onErr(err)
		}
	})
	return nil
}
