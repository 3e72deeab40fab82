package models

import "time"

// DefaultProfileID is the profile every install falls back to when the
// registry is empty or the active profile is removed with none remaining.
const DefaultProfileID = "default"

// GradeLevels is the fixed, ordered set of supported grade levels.
var GradeLevels = []string{"K", "1", "2", "3", "4", "5", "6"}

// Profile represents a learner identity. Every session record belongs to
// exactly one profile; deleting a profile leaves its sessions orphaned but
// retrievable if a profile with the same id is recreated.
type Profile struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Grade          string    `json:"grade"`
	DyslexiaAssist bool      `json:"dyslexiaAssist"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProfilePatch carries partial updates to a profile. Nil fields are left
// untouched.
type ProfilePatch struct {
	Name           *string `json:"name"`
	Grade          *string `json:"grade"`
	DyslexiaAssist *bool   `json:"dyslexiaAssist"`
}

// ValidGrade reports whether grade is one of the supported grade levels.
func ValidGrade(grade string) bool {
	for _, g := range GradeLevels {
		if g == grade {
			return true
		}
	}
	return false
}
