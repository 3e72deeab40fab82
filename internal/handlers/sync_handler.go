package handlers

import (
	"net/http"

	"kidtutor/internal/service"
)

// SyncHandler serves manual push/pull between the local store and the
// cloud store, always for the active profile.
type SyncHandler struct {
	sync     *service.SyncService
	profiles *service.ProfileService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(sync *service.SyncService, profiles *service.ProfileService) *SyncHandler {
	return &SyncHandler{sync: sync, profiles: profiles}
}

// Push uploads the active profile's partition to the cloud
func (h *SyncHandler) Push(w http.ResponseWriter, r *http.Request) {
	count, err := h.sync.PushToCloud(h.profiles.Active())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"pushed": count})
}

// Pull downloads the active profile's newest cloud rows into the local store
func (h *SyncHandler) Pull(w http.ResponseWriter, r *http.Request) {
	result, err := h.sync.PullFromCloud(h.profiles.Active())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
