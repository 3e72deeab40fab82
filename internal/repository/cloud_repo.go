package repository

import (
	"database/sql"
	"fmt"

	"kidtutor/internal/database"
	"kidtutor/internal/models"
)

// CloudRepository handles the authoritative cloud store. It runs over a
// second database connection, typically PostgreSQL or MySQL.
type CloudRepository struct {
	db *database.DB
}

// NewCloudRepository creates a new cloud repository
func NewCloudRepository(db *database.DB) *CloudRepository {
	return &CloudRepository{db: db}
}

// UpsertSessions writes all rows keyed by id with conflict policy
// "overwrite existing row". All rows go in one transaction; the returned
// count is the number of rows written.
func (r *CloudRepository) UpsertSessions(rows []models.CloudSessionRow) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin cloud transaction: %w", err)
	}
	defer tx.Rollback()

	query := r.db.Dialect.UpsertSession("cloud_sessions")
	count := 0
	for _, row := range rows {
		_, err := tx.Exec(query,
			row.ID, row.ProfileID, row.Subject, row.Prompt, row.Response,
			row.CreatedAt, nullableNotes(row.ConfusingWords), nullableNotes(row.Wins))
		if err != nil {
			return 0, fmt.Errorf("failed to upsert cloud session %s: %w", row.ID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit cloud upsert: %w", err)
	}
	return count, nil
}

// GetProfileSessions returns up to limit rows for the profile, newest
// first. Cloud timestamps are fixed-width RFC 3339 strings so the string
// ordering matches chronology.
func (r *CloudRepository) GetProfileSessions(profileID string, limit int) ([]models.CloudSessionRow, error) {
	query := "SELECT " + database.SessionColumns + ` FROM cloud_sessions
		WHERE profile_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`
	rows, err := r.db.Query(query, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query cloud sessions: %w", err)
	}
	defer rows.Close()

	var result []models.CloudSessionRow
	for rows.Next() {
		var row models.CloudSessionRow
		var confusing, wins sql.NullString
		if err := rows.Scan(&row.ID, &row.ProfileID, &row.Subject, &row.Prompt,
			&row.Response, &row.CreatedAt, &confusing, &wins); err != nil {
			return nil, fmt.Errorf("failed to scan cloud session: %w", err)
		}
		if row.ConfusingWords, err = decodeNotes(confusing); err != nil {
			return nil, fmt.Errorf("failed to decode confusing words: %w", err)
		}
		if row.Wins, err = decodeNotes(wins); err != nil {
			return nil, fmt.Errorf("failed to decode wins: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// nullableNotes reuses the local note encoding; cloud columns are the same
// nullable JSON arrays. Encoding a plain string slice cannot fail.
func nullableNotes(notes []string) interface{} {
	v, _ := encodeNotes(notes)
	return v
}
