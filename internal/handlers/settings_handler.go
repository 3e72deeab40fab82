package handlers

import (
	"encoding/json"
	"net/http"

	"kidtutor/internal/repository"
)

// uiSettingKeys are the settings the browser UI may read and write, with
// their defaults. The active profile and parent credential have their own
// endpoints.
var uiSettingKeys = map[string]string{
	repository.SettingTheme:        "light",
	repository.SettingFontScale:    "1",
	repository.SettingDyslexiaFont: "false",
}

// SettingsHandler serves the process-wide UI settings
type SettingsHandler struct {
	settings *repository.SettingsRepository
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings *repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get returns all UI settings with defaults applied
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	values := make(map[string]string, len(uiSettingKeys))
	for key, def := range uiSettingKeys {
		values[key] = h.settings.GetSettingDefault(key, def)
	}
	respondJSON(w, http.StatusOK, values)
}

// Set updates one UI setting
func (h *SettingsHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if _, ok := uiSettingKeys[req.Key]; !ok {
		respondWithError(w, http.StatusBadRequest, "Unknown setting", nil)
		return
	}

	if err := h.settings.SetSetting(req.Key, req.Value); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not save the setting", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"saved": true})
}
