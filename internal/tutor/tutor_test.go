package tutor

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"kidtutor/internal/database"
	"kidtutor/internal/service"
)

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

func askRequest(subject, message string) service.TutorRequest {
	return service.TutorRequest{
		Profile: service.TutorProfile{Grade: "3"},
		Subject: subject,
		Message: message,
	}
}

func TestCannedRespond(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc := NewService(setupTestDB(t), "canned", "")

	answer, err := svc.Respond(context.Background(), askRequest("math", "What is 9 minus 4?"))
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if !strings.HasPrefix(answer, "Math time!") {
		t.Errorf("expected the math opener, got %q", answer)
	}
	if !strings.Contains(answer, "What is 9 minus 4?") {
		t.Errorf("expected the question echoed back, got %q", answer)
	}
	if !strings.Contains(answer, "grade 3") {
		t.Errorf("expected the grade woven in, got %q", answer)
	}
}

func TestCannedRespondPerSubject(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc := NewService(setupTestDB(t), "canned", "")

	for subject, opener := range cannedOpeners {
		answer, err := svc.Respond(context.Background(), askRequest(subject, "Tell me something!"))
		if err != nil {
			t.Fatalf("Respond(%s) failed: %v", subject, err)
		}
		if !strings.HasPrefix(answer, opener) {
			t.Errorf("subject %s: expected opener %q, got %q", subject, opener, answer)
		}
	}
}

func TestCannedRespondAssistMode(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc := NewService(setupTestDB(t), "canned", "")

	req := askRequest("reading", "What is a verb?")
	plain, err := svc.Respond(context.Background(), req)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	req.Profile.DyslexiaAssist = true
	assisted, err := svc.Respond(context.Background(), req)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	if len(assisted) >= len(plain) {
		t.Errorf("assist-mode answer should be shorter: %d vs %d chars", len(assisted), len(plain))
	}
}

func TestRespondValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc := NewService(setupTestDB(t), "canned", "")

	if _, err := svc.Respond(context.Background(), askRequest("recess", "hi")); err == nil {
		t.Error("expected error for unknown subject")
	}
	if _, err := svc.Respond(context.Background(), askRequest("math", "")); err == nil {
		t.Error("expected error for empty message")
	}
}

func TestRespondRejectsProfanity(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupTestDB(t)
	if _, err := db.Exec("INSERT INTO bad_words (word) VALUES (?)", "heck"); err != nil {
		t.Fatalf("Failed to seed word: %v", err)
	}

	svc := NewService(db, "canned", "")

	_, err := svc.Respond(context.Background(), askRequest("math", "why the HECK does this work"))
	if !errors.Is(err, ErrProfane) {
		t.Errorf("Respond = %v, want ErrProfane", err)
	}

	if _, err := svc.Respond(context.Background(), askRequest("math", "why does this work")); err != nil {
		t.Errorf("clean question should pass, got %v", err)
	}
}
