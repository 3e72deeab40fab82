package service

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"kidtutor/internal/database"
	"kidtutor/internal/models"
	"kidtutor/internal/repository"
)

// setupCloudDB opens a second SQLite file standing in for the cloud store
func setupCloudDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.OpenCloud("sqlite", filepath.Join(t.TempDir(), "cloud.db"))
	if err != nil {
		t.Fatalf("Failed to open cloud database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run cloud migrations: %v", err)
	}
	return db
}

func syncFixture(t *testing.T) (*SyncService, *repository.SessionRepository, *repository.CloudRepository) {
	t.Helper()

	sessions := repository.NewSessionRepository(setupTestDB(t))
	cloud := repository.NewCloudRepository(setupCloudDB(t))
	return NewSyncService(sessions, cloud), sessions, cloud
}

func syncRecord(id string, createdAt int64) models.SessionRecord {
	return models.SessionRecord{
		ID:        id,
		ProfileID: "kid-1",
		Subject:   "science",
		Prompt:    "Why do magnets stick?",
		Response:  "Magnets have invisible fields...",
		CreatedAt: createdAt,
	}
}

func TestSyncNotConfigured(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc := NewSyncService(repository.NewSessionRepository(setupTestDB(t)), nil)

	if svc.Enabled() {
		t.Error("Enabled() should be false without a cloud store")
	}
	if _, err := svc.PushToCloud("kid-1"); !errors.Is(err, ErrCloudNotConfigured) {
		t.Errorf("PushToCloud = %v, want ErrCloudNotConfigured", err)
	}
	if _, err := svc.PullFromCloud("kid-1"); !errors.Is(err, ErrCloudNotConfigured) {
		t.Errorf("PullFromCloud = %v, want ErrCloudNotConfigured", err)
	}
}

func TestPushToCloud(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, sessions, cloud := syncFixture(t)

	for _, rec := range []models.SessionRecord{
		syncRecord("rec-1", 1000),
		syncRecord("rec-2", 2000),
	} {
		if err := sessions.Put(rec); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	count, err := svc.PushToCloud("kid-1")
	if err != nil {
		t.Fatalf("PushToCloud failed: %v", err)
	}
	if count != 2 {
		t.Errorf("pushed = %d, want 2", count)
	}

	rows, err := cloud.GetProfileSessions("kid-1", 10)
	if err != nil {
		t.Fatalf("GetProfileSessions failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 cloud rows, got %d", len(rows))
	}
	if rows[0].CreatedAt != models.FormatCloudTime(2000) {
		t.Errorf("cloud timestamp = %q, want %q", rows[0].CreatedAt, models.FormatCloudTime(2000))
	}

	// Pushing again overwrites instead of duplicating, and the local
	// store is never touched by a push
	count, err = svc.PushToCloud("kid-1")
	if err != nil {
		t.Fatalf("second PushToCloud failed: %v", err)
	}
	if count != 2 {
		t.Errorf("pushed = %d, want 2", count)
	}
	rows, err = cloud.GetProfileSessions("kid-1", 10)
	if err != nil {
		t.Fatalf("GetProfileSessions failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 cloud rows after re-push, got %d", len(rows))
	}
}

func TestPushThenPullLeavesPartitionUnchanged(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, sessions, _ := syncFixture(t)

	first := syncRecord("rec-1", 1000)
	first.ConfusingWords = []string{"magnet", "field"}
	second := syncRecord("rec-2", 2000)
	second.Wins = []string{"explained it back"}
	for _, rec := range []models.SessionRecord{first, second} {
		if err := sessions.Put(rec); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	before, err := sessions.GetAll("kid-1")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}

	if _, err := svc.PushToCloud("kid-1"); err != nil {
		t.Fatalf("PushToCloud failed: %v", err)
	}
	if _, err := svc.PullFromCloud("kid-1"); err != nil {
		t.Fatalf("PullFromCloud failed: %v", err)
	}

	after, err := sessions.GetAll("kid-1")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}

	// Pushing and pulling back the same partition is a no-op: ids,
	// timestamps and note lists come back exactly as they went out
	if !reflect.DeepEqual(before, after) {
		t.Errorf("partition changed across push/pull:\nbefore: %+v\nafter:  %+v", before, after)
	}
}

func TestPushToCloudNothingToSync(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, _, _ := syncFixture(t)

	if _, err := svc.PushToCloud("kid-1"); !errors.Is(err, ErrNothingToSync) {
		t.Errorf("PushToCloud = %v, want ErrNothingToSync", err)
	}
}

func TestPullFromCloud(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, sessions, cloud := syncFixture(t)

	// A remote row with the same id as a local record wins on pull
	stale := syncRecord("rec-1", 1000)
	stale.Response = "old local wording"
	if err := sessions.Put(stale); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	fresh := syncRecord("rec-1", 1000)
	fresh.Response = "newer cloud wording"
	_, err := cloud.UpsertSessions([]models.CloudSessionRow{
		fresh.ToCloudRow(),
		syncRecord("rec-2", 2000).ToCloudRow(),
	})
	if err != nil {
		t.Fatalf("UpsertSessions failed: %v", err)
	}

	result, err := svc.PullFromCloud("kid-1")
	if err != nil {
		t.Fatalf("PullFromCloud failed: %v", err)
	}
	if result.Pulled != 2 {
		t.Errorf("Pulled = %d, want 2", result.Pulled)
	}
	if len(result.Recent) != 2 {
		t.Fatalf("Recent has %d records, want 2", len(result.Recent))
	}
	if result.Recent[0].ID != "rec-2" {
		t.Errorf("Recent[0].ID = %s, want rec-2", result.Recent[0].ID)
	}

	got, err := sessions.GetByID("rec-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Response != "newer cloud wording" {
		t.Errorf("Response = %q, remote row must win", got.Response)
	}
	if got.CreatedAt != 1000 {
		t.Errorf("CreatedAt = %d, want 1000", got.CreatedAt)
	}
}

func TestPullFromCloudEmpty(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, sessions, _ := syncFixture(t)

	if err := sessions.Put(syncRecord("rec-1", 1000)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if _, err := svc.PullFromCloud("kid-1"); !errors.Is(err, ErrNoCloudSessions) {
		t.Errorf("PullFromCloud = %v, want ErrNoCloudSessions", err)
	}

	// An empty pull leaves the local store exactly as it was
	records, err := sessions.GetAll("kid-1")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected local store untouched, got %d records", len(records))
	}
}
