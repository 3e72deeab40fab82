package security

import (
	"github.com/google/uuid"
)

// NewRecordID creates a new UUID for session record identification. Record
// ids are assigned once at creation and preserved across sync and import.
func NewRecordID() string {
	return uuid.New().String()
}

// NewProfileID creates a new UUID for a learner profile.
func NewProfileID() string {
	return uuid.New().String()
}
