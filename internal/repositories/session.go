package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/sweetlist/internal/shared"
)

// Session describes one stored session.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	TouchedAt time.Time `json:"touched_at"`
	Items     int       `json:"items"`
}

// SessionRepository manages the lifecycle of stored sessions.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session with a generated id and returns it.
func (r *SessionRepository) Create() (*Session, error) {
	now := time.Now().UTC()
	session := &Session{ID: shared.GenerateID(), CreatedAt: now, TouchedAt: now}

	query := `INSERT INTO sessions (id, created_at, touched_at) VALUES (?, ?, ?)`
	if _, err := r.db.Exec(query, session.ID, now, now); err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	return session, nil
}

// Get retrieves a session by id along with its item count
func (r *SessionRepository) Get(id string) (*Session, error) {
	query := `
		SELECT s.id, s.created_at, s.touched_at, COUNT(i.key)
		FROM sessions s
		LEFT JOIN session_storage i ON i.session_id = s.id
		WHERE s.id = ?
		GROUP BY s.id
	`

	var s Session
	err := r.db.QueryRow(query, id).Scan(&s.ID, &s.CreatedAt, &s.TouchedAt, &s.Items)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionEnded, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &s, nil
}

// List returns every session, most recently used first
func (r *SessionRepository) List() ([]*Session, error) {
	query := `
		SELECT s.id, s.created_at, s.touched_at, COUNT(i.key)
		FROM sessions s
		LEFT JOIN session_storage i ON i.session_id = s.id
		GROUP BY s.id
		ORDER BY s.touched_at DESC, s.id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.TouchedAt, &s.Items); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// End deletes a session. Its items are removed by the foreign key cascade.
func (r *SessionRepository) End(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionEnded, id)
	}

	return nil
}

// PurgeExpired deletes sessions untouched for longer than ttl and returns how many were removed.
//
// A non-positive ttl keeps every session.
func (r *SessionRepository) PurgeExpired(ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, nil
	}

	cutoff := time.Now().UTC().Add(-ttl)
	result, err := r.db.Exec(`DELETE FROM sessions WHERE touched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return n, nil
}
