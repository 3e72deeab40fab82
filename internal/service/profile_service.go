package service

import (
	"errors"
	"fmt"
	"log"

	"kidtutor/internal/models"
	"kidtutor/internal/repository"
	"kidtutor/internal/security"
	"kidtutor/internal/validation"
)

// ErrInvalidCredential is returned when the parent code does not match.
var ErrInvalidCredential = errors.New("invalid parent code")

// ErrProfileNotFound is returned when an operation references a profile
// that does not exist.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileService handles learner profile business logic, including the
// process-wide active-profile pointer and the parental gate.
type ProfileService struct {
	profileRepo *repository.ProfileRepository
	settings    *repository.SettingsRepository
	gate        *security.GateTokens
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo *repository.ProfileRepository, settings *repository.SettingsRepository, gate *security.GateTokens) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		settings:    settings,
		gate:        gate,
	}
}

// SeedDefaults creates the default profile when the registry is empty and
// stores the initial parent code hash when none exists. This is the only
// place first-run data comes from.
func (s *ProfileService) SeedDefaults(defaultParentCode string) error {
	profiles, err := s.profileRepo.GetAll()
	if err != nil {
		return fmt.Errorf("failed to check existing profiles: %w", err)
	}

	if len(profiles) == 0 {
		_, err := s.profileRepo.Create(models.Profile{
			ID:    models.DefaultProfileID,
			Name:  "Learner",
			Grade: "3",
		})
		if err != nil {
			return fmt.Errorf("failed to seed default profile: %w", err)
		}
		if err := s.settings.SetActiveProfile(models.DefaultProfileID); err != nil {
			return fmt.Errorf("failed to set active profile: %w", err)
		}
		log.Println("Seeded default learner profile")
	}

	hash, err := s.settings.ParentCredentialHash()
	if err != nil {
		return fmt.Errorf("failed to read parent credential: %w", err)
	}
	if hash == "" {
		hash, err = security.HashParentCode(defaultParentCode)
		if err != nil {
			return err
		}
		if err := s.settings.SetParentCredentialHash(hash); err != nil {
			return fmt.Errorf("failed to store parent credential: %w", err)
		}
		log.Println("Stored initial parent code")
	}

	return nil
}

// Create validates and stores a new profile, assigning a fresh id when the
// draft carries none.
func (s *ProfileService) Create(draft models.Profile) (*models.Profile, error) {
	if err := validation.ValidateProfileName(draft.Name); err != nil {
		return nil, err
	}
	if err := validation.ValidateGrade(draft.Grade); err != nil {
		return nil, err
	}

	if draft.ID == "" {
		draft.ID = security.NewProfileID()
	}

	return s.profileRepo.Create(draft)
}

// Update merges patch fields into the matching profile. An absent id is a
// silent no-op.
func (s *ProfileService) Update(id string, patch models.ProfilePatch) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}

	if patch.Name != nil {
		profile.Name = *patch.Name
	}
	if patch.Grade != nil {
		profile.Grade = *patch.Grade
	}
	if patch.DyslexiaAssist != nil {
		profile.DyslexiaAssist = *patch.DyslexiaAssist
	}

	if err := validation.ValidateProfileName(profile.Name); err != nil {
		return nil, err
	}
	if err := validation.ValidateGrade(profile.Grade); err != nil {
		return nil, err
	}

	if err := s.profileRepo.Update(*profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Remove deletes a profile. Session records are kept. When the removed
// profile was active, the pointer moves to the first remaining profile in
// creation order, or to the hardcoded default id when none remain.
func (s *ProfileService) Remove(id string) error {
	profile, err := s.profileRepo.GetByID(id)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrProfileNotFound
	}

	if err := s.profileRepo.Delete(id); err != nil {
		return err
	}

	if s.settings.ActiveProfile() != id {
		return nil
	}

	remaining, err := s.profileRepo.GetAll()
	if err != nil {
		return fmt.Errorf("failed to list profiles after removal: %w", err)
	}

	next := models.DefaultProfileID
	if len(remaining) > 0 {
		next = remaining[0].ID
	}
	if err := s.settings.SetActiveProfile(next); err != nil {
		return fmt.Errorf("failed to reassign active profile: %w", err)
	}
	return nil
}

// SetActive changes the active-profile pointer after an existence check
func (s *ProfileService) SetActive(id string) error {
	profile, err := s.profileRepo.GetByID(id)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrProfileNotFound
	}
	return s.settings.SetActiveProfile(id)
}

// Active returns the active profile id
func (s *ProfileService) Active() string {
	return s.settings.ActiveProfile()
}

// ActiveProfile returns the active profile record, or nil when the pointer
// references a profile that no longer exists.
func (s *ProfileService) ActiveProfile() (*models.Profile, error) {
	return s.profileRepo.GetByID(s.settings.ActiveProfile())
}

// List returns all profiles in creation order
func (s *ProfileService) List() ([]models.Profile, error) {
	return s.profileRepo.GetAll()
}

// VerifyParentCredential is step two of the gate protocol: the supplied
// code is compared against the stored hash, and a short-lived token is
// issued on success. Gated handlers require that token.
func (s *ProfileService) VerifyParentCredential(input string) (string, error) {
	hash, err := s.settings.ParentCredentialHash()
	if err != nil {
		return "", fmt.Errorf("failed to read parent credential: %w", err)
	}
	if hash == "" || !security.CheckParentCode(hash, input) {
		return "", ErrInvalidCredential
	}
	return s.gate.Issue()
}

// SetParentCode replaces the stored parent code. Callers must already hold
// a valid gate token.
func (s *ProfileService) SetParentCode(code string) error {
	if code == "" {
		return validation.ValidationError{Field: "code", Message: "code is required"}
	}
	hash, err := security.HashParentCode(code)
	if err != nil {
		return err
	}
	return s.settings.SetParentCredentialHash(hash)
}
