package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"kidtutor/internal/service"
	"kidtutor/internal/tutor"
)

// TutorHandler serves the tutoring collaborator endpoint. Its request and
// response shapes are a hard contract with the client pipeline.
type TutorHandler struct {
	tutorBackend *tutor.Service
}

// NewTutorHandler creates a new tutor handler
func NewTutorHandler(tutorBackend *tutor.Service) *TutorHandler {
	return &TutorHandler{tutorBackend: tutorBackend}
}

// Respond answers one tutoring question
func (h *TutorHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req service.TutorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}

	text, err := h.tutorBackend.Respond(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, tutor.ErrProfane):
			respondWithError(w, http.StatusUnprocessableEntity, "Let's keep our questions kind and friendly!", nil)
		case isValidationError(err):
			respondServiceError(w, err)
		default:
			respondWithError(w, http.StatusBadGateway, "The tutor is taking a break, try again soon", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, service.TutorResponse{Text: text})
}
