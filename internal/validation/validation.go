package validation

import (
	"fmt"
	"strings"

	"kidtutor/internal/models"
)

// MaxMessageLength is the hard cap on a tutoring question.
const MaxMessageLength = 400

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateProfileName checks if a profile display name is valid
func ValidateProfileName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) > 50 {
		return ValidationError{Field: "name", Message: "name must be at most 50 characters"}
	}
	return nil
}

// ValidateGrade checks if a grade level is one of the supported set
func ValidateGrade(grade string) error {
	if !models.ValidGrade(grade) {
		return ValidationError{Field: "grade", Message: "grade must be one of " + strings.Join(models.GradeLevels, ", ")}
	}
	return nil
}

// ValidateSubject checks if a subject is one of the supported set
func ValidateSubject(subject string) error {
	if !models.ValidSubject(subject) {
		return ValidationError{Field: "subject", Message: "subject must be one of " + strings.Join(models.Subjects, ", ")}
	}
	return nil
}

// ValidateMessage checks a tutoring question before it goes anywhere
func ValidateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return ValidationError{Field: "message", Message: "message is required"}
	}
	if len(message) > MaxMessageLength {
		return ValidationError{Field: "message", Message: fmt.Sprintf("message must be at most %d characters", MaxMessageLength)}
	}
	return nil
}
