package repository

import (
	"database/sql"

	"kidtutor/internal/database"
	"kidtutor/internal/models"
)

// Keys for process-wide persisted settings.
const (
	SettingActiveProfile    = "active_profile"
	SettingParentCredential = "parent_credential_hash"
	SettingTheme            = "theme"
	SettingFontScale        = "font_scale"
	SettingDyslexiaFont     = "dyslexia_font"
)

type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSetting retrieves a setting value by key
func (r *SettingsRepository) GetSetting(key string) (string, error) {
	var value string
	query := `SELECT value FROM settings WHERE key = ?`
	err := r.db.QueryRow(query, key).Scan(&value)
	return value, err
}

// GetSettingDefault retrieves a setting, falling back to def when the key
// is absent or the store cannot be read.
func (r *SettingsRepository) GetSettingDefault(key, def string) string {
	value, err := r.GetSetting(key)
	if err != nil {
		return def
	}
	return value
}

// SetSetting updates or inserts a setting
func (r *SettingsRepository) SetSetting(key, value string) error {
	query := r.db.Dialect.UpsertSettings()
	_, err := r.db.Exec(query, key, value)
	return err
}

// ActiveProfile returns the active profile id, falling back to the default
// profile when none has been set.
func (r *SettingsRepository) ActiveProfile() string {
	return r.GetSettingDefault(SettingActiveProfile, models.DefaultProfileID)
}

// SetActiveProfile changes the process-wide active-profile pointer
func (r *SettingsRepository) SetActiveProfile(id string) error {
	return r.SetSetting(SettingActiveProfile, id)
}

// ParentCredentialHash returns the stored bcrypt hash of the parent code,
// or an empty string when none has been set yet.
func (r *SettingsRepository) ParentCredentialHash() (string, error) {
	hash, err := r.GetSetting(SettingParentCredential)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

// SetParentCredentialHash stores the bcrypt hash of the parent code
func (r *SettingsRepository) SetParentCredentialHash(hash string) error {
	return r.SetSetting(SettingParentCredential, hash)
}
