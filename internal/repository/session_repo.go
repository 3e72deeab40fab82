package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"kidtutor/internal/database"
	"kidtutor/internal/models"
)

// SessionRepository handles local persistence of session records. The
// sessions table is the single shared mutable resource of the app; every
// mutation goes through Put, DeleteAll or UpdateNotes.
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Put inserts or overwrites a record by id. Idempotent.
func (r *SessionRepository) Put(rec models.SessionRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("session record id is required")
	}

	confusing, err := encodeNotes(rec.ConfusingWords)
	if err != nil {
		return fmt.Errorf("failed to encode confusing words: %w", err)
	}
	wins, err := encodeNotes(rec.Wins)
	if err != nil {
		return fmt.Errorf("failed to encode wins: %w", err)
	}

	query := r.db.Dialect.UpsertSession("sessions")
	_, err = r.db.Exec(query,
		rec.ID, rec.ProfileID, rec.Subject, rec.Prompt, rec.Response,
		rec.CreatedAt, confusing, wins)
	if err != nil {
		return fmt.Errorf("failed to put session: %w", err)
	}
	return nil
}

// GetByID retrieves a single record, returning (nil, nil) when absent.
func (r *SessionRepository) GetByID(id string) (*models.SessionRecord, error) {
	query := "SELECT " + database.SessionColumns + " FROM sessions WHERE id = ?"
	rec, err := scanSession(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return rec, nil
}

// GetRecent returns up to limit records for the profile, newest first.
// Timestamp ties break by id so the ordering is deterministic.
func (r *SessionRepository) GetRecent(profileID string, limit int) ([]models.SessionRecord, error) {
	query := "SELECT " + database.SessionColumns + ` FROM sessions
		WHERE profile_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`
	rows, err := r.db.Query(query, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// GetAll returns the full partition for a profile, newest first. An empty
// profileID returns every record in the store.
func (r *SessionRepository) GetAll(profileID string) ([]models.SessionRecord, error) {
	query := "SELECT " + database.SessionColumns + " FROM sessions"
	args := []interface{}{}
	if profileID != "" {
		query += " WHERE profile_id = ?"
		args = append(args, profileID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// DeleteAll removes every record in a profile's partition, or every record
// in the store when profileID is empty. The delete runs in a transaction so
// a failure never leaves a partially cleared partition behind.
func (r *SessionRepository) DeleteAll(profileID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if profileID != "" {
		_, err = tx.Exec("DELETE FROM sessions WHERE profile_id = ?", profileID)
	} else {
		_, err = tx.Exec("DELETE FROM sessions")
	}
	if err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// UpdateNotes replaces the provided note lists on an existing record,
// leaving omitted fields untouched. A nonexistent id is a silent no-op and
// never creates a record.
func (r *SessionRepository) UpdateNotes(id string, notes models.SessionNotes) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "SELECT " + database.SessionColumns + " FROM sessions WHERE id = ?"
	rec, err := scanSession(tx.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session for notes update: %w", err)
	}

	if notes.ConfusingWords != nil {
		rec.ConfusingWords = *notes.ConfusingWords
	}
	if notes.Wins != nil {
		rec.Wins = *notes.Wins
	}

	confusing, err := encodeNotes(rec.ConfusingWords)
	if err != nil {
		return fmt.Errorf("failed to encode confusing words: %w", err)
	}
	wins, err := encodeNotes(rec.Wins)
	if err != nil {
		return fmt.Errorf("failed to encode wins: %w", err)
	}

	_, err = tx.Exec("UPDATE sessions SET confusing_words = ?, wins = ? WHERE id = ?",
		confusing, wins, id)
	if err != nil {
		return fmt.Errorf("failed to update notes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit notes update: %w", err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*models.SessionRecord, error) {
	var rec models.SessionRecord
	var confusing, wins sql.NullString

	err := row.Scan(&rec.ID, &rec.ProfileID, &rec.Subject, &rec.Prompt,
		&rec.Response, &rec.CreatedAt, &confusing, &wins)
	if err != nil {
		return nil, err
	}

	if rec.ConfusingWords, err = decodeNotes(confusing); err != nil {
		return nil, fmt.Errorf("failed to decode confusing words: %w", err)
	}
	if rec.Wins, err = decodeNotes(wins); err != nil {
		return nil, fmt.Errorf("failed to decode wins: %w", err)
	}
	return &rec, nil
}

func scanSessions(rows *sql.Rows) ([]models.SessionRecord, error) {
	var records []models.SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// encodeNotes serializes a note list to a nullable JSON array column.
func encodeNotes(notes []string) (interface{}, error) {
	if notes == nil {
		return nil, nil
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// decodeNotes parses a nullable JSON array column into a note list.
func decodeNotes(col sql.NullString) ([]string, error) {
	if !col.Valid {
		return nil, nil
	}
	var notes []string
	if err := json.Unmarshal([]byte(col.String), &notes); err != nil {
		return nil, err
	}
	return notes, nil
}
