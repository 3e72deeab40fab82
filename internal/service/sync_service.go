package service

import (
	"errors"
	"fmt"
	"log"

	"kidtutor/internal/models"
	"kidtutor/internal/repository"
)

// Sentinel outcomes surfaced to the user as specific acknowledgments
// rather than generic failures.
var (
	ErrCloudNotConfigured = errors.New("cloud sync is not configured")
	ErrNothingToSync      = errors.New("nothing to sync")
	ErrNoCloudSessions    = errors.New("no cloud sessions found")
)

const (
	// pullLimit caps how many rows one pull fetches from the cloud
	pullLimit = 50
	// recentAfterPull is how many records are re-read after a pull
	recentAfterPull = 5
)

// PullResult reports what a pull changed: the number of rows pulled and
// the most recent records as they now stand locally.
type PullResult struct {
	Pulled int                    `json:"pulled"`
	Recent []models.SessionRecord `json:"recent"`
}

// SyncService reconciles one profile's partition between the local store
// and the authoritative cloud store. Sync is operator-triggered only and
// never merges at the field level: the last writer per direction wins.
type SyncService struct {
	sessions *repository.SessionRepository
	cloud    *repository.CloudRepository
}

// NewSyncService creates a new sync service. cloud may be nil when no
// cloud store is configured; both directions then fail cleanly.
func NewSyncService(sessions *repository.SessionRepository, cloud *repository.CloudRepository) *SyncService {
	return &SyncService{sessions: sessions, cloud: cloud}
}

// Enabled reports whether a cloud store is configured
func (s *SyncService) Enabled() bool {
	return s.cloud != nil
}

// PushToCloud uploads the profile's full local partition, overwriting any
// cloud row with the same id. The local store is untouched regardless of
// outcome. Returns the number of rows written.
func (s *SyncService) PushToCloud(profileID string) (int, error) {
	if s.cloud == nil {
		return 0, ErrCloudNotConfigured
	}

	records, err := s.sessions.GetAll(profileID)
	if err != nil {
		return 0, fmt.Errorf("failed to read local sessions: %w", err)
	}
	if len(records) == 0 {
		return 0, ErrNothingToSync
	}

	rows := make([]models.CloudSessionRow, len(records))
	for i, rec := range records {
		rows[i] = rec.ToCloudRow()
	}

	count, err := s.cloud.UpsertSessions(rows)
	if err != nil {
		return 0, fmt.Errorf("cloud push failed: %w", err)
	}

	log.Printf("Pushed %d sessions to cloud for profile %s", count, profileID)
	return count, nil
}

// PullFromCloud downloads up to 50 of the profile's newest cloud rows and
// writes them into the local store, overwriting local records with the
// same id. A query error performs no local writes. After writing, the 5
// most recent local records are re-read and returned with the count.
func (s *SyncService) PullFromCloud(profileID string) (*PullResult, error) {
	if s.cloud == nil {
		return nil, ErrCloudNotConfigured
	}

	rows, err := s.cloud.GetProfileSessions(profileID, pullLimit)
	if err != nil {
		return nil, fmt.Errorf("cloud pull failed: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoCloudSessions
	}

	for _, row := range rows {
		rec := row.ToRecord()
		rec.ProfileID = profileID
		if err := s.sessions.Put(rec); err != nil {
			return nil, fmt.Errorf("failed to store pulled session %s: %w", rec.ID, err)
		}
	}

	recent, err := s.sessions.GetRecent(profileID, recentAfterPull)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read sessions after pull: %w", err)
	}

	log.Printf("Pulled %d sessions from cloud for profile %s", len(rows), profileID)
	return &PullResult{Pulled: len(rows), Recent: recent}, nil
}
