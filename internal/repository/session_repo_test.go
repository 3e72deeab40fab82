package repository

import (
	"path/filepath"
	"testing"

	"kidtutor/internal/database"
	"kidtutor/internal/models"
)

// setupTestDB opens a throwaway SQLite store with the full schema applied
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func testRecord(id, profileID string, createdAt int64) models.SessionRecord {
	return models.SessionRecord{
		ID:        id,
		ProfileID: profileID,
		Subject:   "math",
		Prompt:    "What is 7 times 8?",
		Response:  "Let's skip-count by 7s together...",
		CreatedAt: createdAt,
	}
}

func TestSessionPutAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := NewSessionRepository(setupTestDB(t))

	rec := testRecord("rec-1", "kid-1", 1000)
	rec.ConfusingWords = []string{"product", "factor"}
	rec.Wins = []string{}

	if err := repo.Put(rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := repo.GetByID("rec-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a record, got nil")
	}
	if got.ProfileID != "kid-1" || got.Subject != "math" || got.CreatedAt != 1000 {
		t.Errorf("record fields wrong: %+v", got)
	}
	if len(got.ConfusingWords) != 2 || got.ConfusingWords[0] != "product" {
		t.Errorf("ConfusingWords = %v", got.ConfusingWords)
	}
	// Empty and nil note lists must survive storage as distinct states
	if got.Wins == nil || len(got.Wins) != 0 {
		t.Errorf("Wins = %v, want empty non-nil list", got.Wins)
	}
}

func TestSessionGetByIDAbsent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := NewSessionRepository(setupTestDB(t))

	got, err := repo.GetByID("nope")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for absent id, got %+v", got)
	}
}

func TestSessionPutRequiresID(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := NewSessionRepository(setupTestDB(t))

	if err := repo.Put(testRecord("", "kid-1", 1000)); err == nil {
		t.Error("expected error for empty id")
	}
}

func TestSessionPutOverwrites(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := NewSessionRepository(setupTestDB(t))

	rec := testRecord("rec-1", "kid-1", 1000)
	if err := repo.Put(rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	rec.Response = "Actually, here is a better explanation."
	rec.Wins = []string{"got it"}
	if err := repo.Put(rec); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, err := repo.GetByID("rec-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Response != "Actually, here is a better explanation." {
		t.Errorf("Response = %q, overwrite did not apply", got.Response)
	}
	if len(got.Wins) != 1 || got.Wins[0] != "got it" {
		t.Errorf("Wins = %v", got.Wins)
	}

	all, err := repo.GetAll("kid-1")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 record after overwrite, got %d", len(all))
	}
}

func TestSessionGetRecentOrderingAndLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := NewSessionRepository(setupTestDB(t))

	for _, rec := range []models.SessionRecord{
		testRecord("rec-a", "kid-1", 1000),
		testRecord("rec-b", "kid-1", 3000),
		testRecord("rec-c", "kid-1", 2000),
		// Same timestamp as rec-b; id breaks the tie
		testRecord("rec-z", "kid-1", 3000),
		testRecord("other", "kid-2", 9000),
	} {
		if err := repo.Put(rec); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	recent, err := repo.GetRecent("kid-1", 3)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recent))
	}

	wantOrder := []string{"rec-z", "rec-b", "rec-c"}
	for i, want := range wantOrder {
		if recent[i].ID != want {
			t.Errorf("position %d: got %s, want %s", i, recent[i].ID, want)
		}
	}
}

func TestSessionGetAllPartitions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := NewSessionRepository(setupTestDB(t))

	for _, rec := range []models.SessionRecord{
		testRecord("rec-1", "kid-1", 1000),
		testRecord("rec-2", "kid-1", 2000),
		testRecord("rec-3", "kid-2", 3000),
	} {
		if err := repo.Put(rec); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	partition, err := repo.GetAll("kid-1")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(partition) != 2 {
		t.Errorf("expected 2 records for kid-1, got %d", len(partition))
	}

	everything, err := repo.GetAll("")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(everything) != 3 {
		t.Errorf("expected 3 records total, got %d", len(everything))
	}
}

func TestSessionDeleteAllLeavesOtherPartitions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := NewSessionRepository(setupTestDB(t))

	for _, rec := range []models.SessionRecord{
		testRecord("rec-1", "kid-1", 1000),
		testRecord("rec-2", "kid-1", 2000),
		testRecord("rec-3", "kid-2", 3000),
	} {
		if err := repo.Put(rec); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	if err := repo.DeleteAll("kid-1"); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}

	cleared, err := repo.GetAll("kid-1")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(cleared) != 0 {
		t.Errorf("expected kid-1 partition empty, got %d records", len(cleared))
	}

	kept, err := repo.GetAll("kid-2")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(kept) != 1 {
		t.Errorf("expected kid-2 partition untouched, got %d records", len(kept))
	}

	// Empty profile id wipes the whole store
	if err := repo.DeleteAll(""); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	everything, err := repo.GetAll("")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(everything) != 0 {
		t.Errorf("expected empty store, got %d records", len(everything))
	}
}

func TestSessionUpdateNotes(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := NewSessionRepository(setupTestDB(t))

	rec := testRecord("rec-1", "kid-1", 1000)
	rec.ConfusingWords = []string{"old"}
	if err := repo.Put(rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Only the provided list is replaced
	wins := []string{"solved it alone"}
	if err := repo.UpdateNotes("rec-1", models.SessionNotes{Wins: &wins}); err != nil {
		t.Fatalf("UpdateNotes failed: %v", err)
	}

	got, err := repo.GetByID("rec-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.ConfusingWords) != 1 || got.ConfusingWords[0] != "old" {
		t.Errorf("ConfusingWords = %v, want untouched", got.ConfusingWords)
	}
	if len(got.Wins) != 1 || got.Wins[0] != "solved it alone" {
		t.Errorf("Wins = %v", got.Wins)
	}

	// A non-nil empty list clears the stored value
	empty := []string{}
	if err := repo.UpdateNotes("rec-1", models.SessionNotes{ConfusingWords: &empty}); err != nil {
		t.Fatalf("UpdateNotes failed: %v", err)
	}
	got, err = repo.GetByID("rec-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ConfusingWords == nil || len(got.ConfusingWords) != 0 {
		t.Errorf("ConfusingWords = %v, want empty list", got.ConfusingWords)
	}
}

func TestSessionUpdateNotesNonexistent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := NewSessionRepository(setupTestDB(t))

	wins := []string{"win"}
	if err := repo.UpdateNotes("ghost", models.SessionNotes{Wins: &wins}); err != nil {
		t.Fatalf("UpdateNotes on absent id should be a no-op, got %v", err)
	}

	got, err := repo.GetByID("ghost")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Error("UpdateNotes must never create a record")
	}
}
