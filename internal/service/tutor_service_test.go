package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kidtutor/internal/models"
	"kidtutor/internal/repository"
)

func testProfile() models.Profile {
	return models.Profile{ID: "kid-1", Name: "Maya", Grade: "4"}
}

func TestAskPersistsExchange(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	var received TutorRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode tutor request: %v", err)
		}
		json.NewEncoder(w).Encode(TutorResponse{Text: "Great question! Let's count together."})
	}))
	defer server.Close()

	sessions := repository.NewSessionRepository(setupTestDB(t))
	svc := NewTutorService(sessions, server.URL)

	result, err := svc.Ask(testProfile(), "math", "What is 2 plus 2?")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if result.SessionID == "" {
		t.Error("expected a session id")
	}
	if result.Text != "Great question! Let's count together." {
		t.Errorf("Text = %q", result.Text)
	}

	// The collaborator got the learner context, not the whole profile
	if received.Profile.Grade != "4" || received.Subject != "math" {
		t.Errorf("tutor request wrong: %+v", received)
	}

	rec, err := sessions.GetByID(result.SessionID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if rec == nil {
		t.Fatal("expected the exchange to be persisted")
	}
	if rec.ProfileID != "kid-1" || rec.Prompt != "What is 2 plus 2?" {
		t.Errorf("record fields wrong: %+v", rec)
	}
	if rec.ConfusingWords != nil || rec.Wins != nil {
		t.Error("new records must start with empty note lists")
	}
}

func TestAskFailuresWriteNothing(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "tutor returns 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model overloaded", http.StatusInternalServerError)
			},
		},
		{
			name: "tutor returns empty text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(TutorResponse{Text: ""})
			},
		},
		{
			name: "tutor returns garbage",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			sessions := repository.NewSessionRepository(setupTestDB(t))
			svc := NewTutorService(sessions, server.URL)

			if _, err := svc.Ask(testProfile(), "math", "What is 2 plus 2?"); err == nil {
				t.Fatal("expected an error")
			}

			records, err := sessions.GetAll("")
			if err != nil {
				t.Fatalf("GetAll failed: %v", err)
			}
			if len(records) != 0 {
				t.Errorf("failed exchanges must not persist, got %d records", len(records))
			}
		})
	}
}

func TestAskValidatesBeforeCalling(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		json.NewEncoder(w).Encode(TutorResponse{Text: "hi"})
	}))
	defer server.Close()

	sessions := repository.NewSessionRepository(setupTestDB(t))
	svc := NewTutorService(sessions, server.URL)

	if _, err := svc.Ask(testProfile(), "alchemy", "What is 2 plus 2?"); err == nil {
		t.Error("expected error for unknown subject")
	}
	if _, err := svc.Ask(testProfile(), "math", ""); err == nil {
		t.Error("expected error for empty message")
	}
	if called {
		t.Error("validation failures must not reach the tutor")
	}
}
