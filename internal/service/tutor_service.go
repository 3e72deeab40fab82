package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kidtutor/internal/models"
	"kidtutor/internal/repository"
	"kidtutor/internal/security"
	"kidtutor/internal/validation"
)

// FallbackMessage is shown to the child when the tutor cannot be reached.
// A failed exchange never creates a session record.
const FallbackMessage = "Hmm, I couldn't reach your tutor right now. Let's try again in a little bit!"

// TutorRequest is the wire contract of the tutoring collaborator endpoint.
type TutorRequest struct {
	Profile TutorProfile `json:"profile"`
	Subject string       `json:"subject"`
	Message string       `json:"message"`
}

// TutorProfile is the slice of a learner profile the tutor needs.
type TutorProfile struct {
	Grade          string `json:"grade"`
	DyslexiaAssist bool   `json:"dyslexiaAssist"`
}

// TutorResponse is the collaborator's success payload.
type TutorResponse struct {
	Text string `json:"text"`
}

// AskResult is one completed exchange: the persisted record's id and the
// tutor's answer.
type AskResult struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
}

// TutorService orchestrates one question/answer exchange and its
// persistence.
type TutorService struct {
	sessions *repository.SessionRepository
	tutorURL string
	client   *http.Client
}

// NewTutorService creates a new tutor service
func NewTutorService(sessions *repository.SessionRepository, tutorURL string) *TutorService {
	return &TutorService{
		sessions: sessions,
		tutorURL: tutorURL,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Ask sends the question to the tutoring collaborator and, on success,
// persists the exchange as a new session record with empty note lists.
func (s *TutorService) Ask(profile models.Profile, subject, message string) (*AskResult, error) {
	if err := validation.ValidateSubject(subject); err != nil {
		return nil, err
	}
	if err := validation.ValidateMessage(message); err != nil {
		return nil, err
	}

	body, err := json.Marshal(TutorRequest{
		Profile: TutorProfile{
			Grade:          profile.Grade,
			DyslexiaAssist: profile.DyslexiaAssist,
		},
		Subject: subject,
		Message: message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode tutor request: %w", err)
	}

	resp, err := s.client.Post(s.tutorURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tutor request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tutor returned status %d: %s", resp.StatusCode, string(detail))
	}

	var tutorResp TutorResponse
	if err := json.NewDecoder(resp.Body).Decode(&tutorResp); err != nil {
		return nil, fmt.Errorf("failed to decode tutor response: %w", err)
	}
	if tutorResp.Text == "" {
		return nil, fmt.Errorf("tutor returned an empty response")
	}

	rec := models.SessionRecord{
		ID:        security.NewRecordID(),
		ProfileID: profile.ID,
		Subject:   subject,
		Prompt:    message,
		Response:  tutorResp.Text,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.sessions.Put(rec); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return &AskResult{SessionID: rec.ID, Text: tutorResp.Text}, nil
}
