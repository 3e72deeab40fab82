package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"kidtutor/internal/service"
	"kidtutor/internal/validation"
)

// respondJSON writes a JSON response with the given status
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("failed to encode response: %v", err)
		}
	}
}

// respondWithError logs the underlying error and sends a user-facing
// failure reason; silent failure is never acceptable.
func respondWithError(w http.ResponseWriter, status int, userMsg string, err error) {
	if err != nil {
		log.Printf("%s: %v", userMsg, err)
	}
	respondJSON(w, status, map[string]string{"error": userMsg})
}

// isValidationError reports whether err is a validation failure, which
// blocks the operation before any side effect.
func isValidationError(err error) bool {
	var validationErr validation.ValidationError
	return errors.As(err, &validationErr)
}

// respondServiceError maps known service errors onto statuses and user
// messages, so callers don't repeat the taxonomy.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr validation.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, validationErr.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredential):
		respondWithError(w, http.StatusForbidden, "That parent code is not right", nil)
	case errors.Is(err, service.ErrProfileNotFound):
		respondWithError(w, http.StatusNotFound, "Profile not found", nil)
	case errors.Is(err, service.ErrCloudNotConfigured):
		respondWithError(w, http.StatusConflict, "Cloud sync is not set up", nil)
	case errors.Is(err, service.ErrNothingToSync):
		respondJSON(w, http.StatusOK, map[string]interface{}{"pushed": 0, "message": "nothing to sync"})
	case errors.Is(err, service.ErrNoCloudSessions):
		respondJSON(w, http.StatusOK, map[string]interface{}{"pulled": 0, "message": "no cloud sessions found"})
	default:
		respondWithError(w, http.StatusInternalServerError, "Something went wrong", err)
	}
}
