package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionStorage implements selection.Storage for a single session.
//
// Writes create the session row on demand and refresh its touched_at, so a session lives as long as it is
// being used.
type SessionStorage struct {
	db        *sql.DB
	sessionID string
}

// NewSessionStorage creates storage scoped to sessionID
func NewSessionStorage(db *sql.DB, sessionID string) *SessionStorage {
	return &SessionStorage{db: db, sessionID: sessionID}
}

// SessionID returns the id the storage is scoped to.
func (s *SessionStorage) SessionID() string {
	return s.sessionID
}

// GetItem returns the value stored under key and whether it exists.
func (s *SessionStorage) GetItem(key string) (string, bool, error) {
	query := `SELECT value FROM session_storage WHERE session_id = ? AND key = ?`

	var value string
	err := s.db.QueryRow(query, s.sessionID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}

	return value, true, nil
}

// SetItem stores value under key, replacing any previous value.
func (s *SessionStorage) SetItem(key, value string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	_, err = tx.Exec(`
		INSERT INTO sessions (id, created_at, touched_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET touched_at = excluded.touched_at
	`, s.sessionID, now, now)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO session_storage (session_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, s.sessionID, key, value, now)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit item: %w", err)
	}

	return nil
}

// RemoveItem deletes key from the session. Removing a missing key is not an error.
func (s *SessionStorage) RemoveItem(key string) error {
	_, err := s.db.Exec(`DELETE FROM session_storage WHERE session_id = ? AND key = ?`, s.sessionID, key)
	if err != nil {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}
