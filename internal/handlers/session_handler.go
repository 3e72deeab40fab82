package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"kidtutor/internal/models"
	"kidtutor/internal/repository"
	"kidtutor/internal/service"
)

const defaultHistoryLimit = 20

// SessionHandler serves the tutoring exchange and session history API
type SessionHandler struct {
	tutorService *service.TutorService
	sessions     *repository.SessionRepository
	profiles     *service.ProfileService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(tutorService *service.TutorService, sessions *repository.SessionRepository, profiles *service.ProfileService) *SessionHandler {
	return &SessionHandler{
		tutorService: tutorService,
		sessions:     sessions,
		profiles:     profiles,
	}
}

// Ask runs one question/answer exchange for the active profile
func (h *SessionHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}

	profile, err := h.profiles.ActiveProfile()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Something went wrong", err)
		return
	}
	if profile == nil {
		respondWithError(w, http.StatusConflict, "No active profile, pick a learner first", nil)
		return
	}

	result, err := h.tutorService.Ask(*profile, req.Subject, req.Message)
	if err != nil {
		if isValidationError(err) {
			respondServiceError(w, err)
			return
		}
		// The exchange failed; nothing was persisted. The child sees a
		// friendly fallback instead of the raw failure.
		respondWithError(w, http.StatusBadGateway, service.FallbackMessage, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Recent returns the newest sessions for the active profile
func (h *SessionHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := h.sessions.GetRecent(h.profiles.Active(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not load your sessions", err)
		return
	}
	if records == nil {
		records = []models.SessionRecord{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"sessions": records})
}

// UpdateNotes replaces a record's note lists. An unknown id is a silent
// no-op so the response is success either way.
func (h *SessionHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var notes models.SessionNotes
	if err := json.NewDecoder(r.Body).Decode(&notes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if err := h.sessions.UpdateNotes(id, notes); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not save your notes", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

// Clear wipes one profile's history, or everything when all is set
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProfileID string `json:"profileId"`
		All       bool   `json:"all"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}

	profileID := req.ProfileID
	if req.All {
		profileID = ""
	} else if profileID == "" {
		profileID = h.profiles.Active()
	}

	if err := h.sessions.DeleteAll(profileID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not clear history", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}
