package repository

import (
	"database/sql"
	"fmt"
	"time"

	"kidtutor/internal/database"
	"kidtutor/internal/models"
)

// ProfileRepository handles database operations for learner profiles
type ProfileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a new profile
func (r *ProfileRepository) Create(p models.Profile) (*models.Profile, error) {
	query := "INSERT INTO profiles (id, name, grade, dyslexia_assist) VALUES (?, ?, ?, ?)"
	_, err := r.db.Exec(query, p.ID, p.Name, p.Grade, p.DyslexiaAssist)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	return &p, nil
}

// GetByID retrieves a profile by id, returning (nil, nil) when absent
func (r *ProfileRepository) GetByID(id string) (*models.Profile, error) {
	query := "SELECT id, name, grade, dyslexia_assist, created_at, updated_at FROM profiles WHERE id = ?"
	p := &models.Profile{}
	err := r.db.QueryRow(query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Grade,
		&p.DyslexiaAssist,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return p, nil
}

// GetAll retrieves all profiles in creation order
func (r *ProfileRepository) GetAll() ([]models.Profile, error) {
	query := `
		SELECT id, name, grade, dyslexia_assist, created_at, updated_at
		FROM profiles
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Grade,
			&p.DyslexiaAssist,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

// Update writes a profile's mutable fields
func (r *ProfileRepository) Update(p models.Profile) error {
	query := "UPDATE profiles SET name = ?, grade = ?, dyslexia_assist = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, p.Name, p.Grade, p.DyslexiaAssist, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// Delete removes a profile. Session records are deliberately left in place;
// they become orphaned but retrievable if the id is recreated.
func (r *ProfileRepository) Delete(id string) error {
	query := "DELETE FROM profiles WHERE id = ?"
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
