package handlers

import (
	"encoding/json"
	"net/http"

	"kidtutor/internal/models"
	"kidtutor/internal/service"
)

// ProfileHandler serves the learner profile API
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// List returns all profiles plus the active profile id
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not load profiles", err)
		return
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"profiles": profiles,
		"active":   h.profiles.Active(),
	})
}

// Create adds a new learner profile (gated)
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft models.Profile
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}

	profile, err := h.profiles.Create(draft)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, profile)
}

// Update merges changes into a profile (gated)
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}

	profile, err := h.profiles.Update(r.PathValue("id"), patch)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if profile == nil {
		// Updating an unknown profile is a documented no-op
		respondJSON(w, http.StatusOK, map[string]bool{"updated": false})
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// Delete removes a profile (gated). Its sessions stay behind.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.profiles.Remove(r.PathValue("id")); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
		"active":  h.profiles.Active(),
	})
}

// Activate changes the active-profile pointer
func (h *ProfileHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if err := h.profiles.SetActive(r.PathValue("id")); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"active": r.PathValue("id")})
}

// VerifyParent is step two of the gate protocol: code in, token out
func (h *ProfileHandler) VerifyParent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}

	token, err := h.profiles.VerifyParentCredential(req.Code)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// SetParentCode replaces the parent code (gated)
func (h *ProfileHandler) SetParentCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if err := h.profiles.SetParentCode(req.Code); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"saved": true})
}
