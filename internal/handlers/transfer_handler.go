package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"kidtutor/internal/service"
)

// maxImportSize caps uploaded artifacts at 10MB
const maxImportSize = 10 * 1024 * 1024

// TransferHandler serves export/import of the active profile's history
type TransferHandler struct {
	transfer    *service.TransferService
	email       *service.EmailService
	profiles    *service.ProfileService
	parentEmail string
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(transfer *service.TransferService, email *service.EmailService, profiles *service.ProfileService, parentEmail string) *TransferHandler {
	return &TransferHandler{
		transfer:    transfer,
		email:       email,
		profiles:    profiles,
		parentEmail: parentEmail,
	}
}

// Export streams the artifact as a download with a deterministic filename
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	profileID := h.profiles.Active()

	// Buffer the document so a storage failure surfaces as an error
	// response instead of a truncated download
	var buf bytes.Buffer
	if _, err := h.transfer.Export(profileID, &buf); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not export your sessions", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.transfer.ArtifactName(profileID)))
	w.Write(buf.Bytes())
}

// Import stores an uploaded artifact into the active profile's partition
// (gated). A corrupt file fails before any write.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	count, err := h.transfer.Import(h.profiles.Active(), http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		if isValidationError(err) {
			respondServiceError(w, err)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Could not import that file", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"imported": count})
}

// EmailExport sends the artifact to the configured parent address (gated)
func (h *TransferHandler) EmailExport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To string `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}
	to := req.To
	if to == "" {
		to = h.parentEmail
	}
	if to == "" {
		respondWithError(w, http.StatusBadRequest, "No parent email configured", nil)
		return
	}
	if !h.email.IsEnabled() {
		respondWithError(w, http.StatusConflict, "Email delivery is not set up", nil)
		return
	}

	profile, err := h.profiles.ActiveProfile()
	if err != nil || profile == nil {
		respondWithError(w, http.StatusConflict, "No active profile", err)
		return
	}

	var buf bytes.Buffer
	if _, err := h.transfer.Export(profile.ID, &buf); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not export your sessions", err)
		return
	}

	err = h.email.SendExportEmail(r.Context(), to, profile.Name, h.transfer.ArtifactName(profile.ID), buf.Bytes())
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Could not send the email", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"sent": true})
}
