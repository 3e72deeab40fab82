package tutor

import (
	"context"
	"errors"
	"fmt"
	"log"

	"kidtutor/internal/database"
	"kidtutor/internal/service"
	"kidtutor/internal/validation"
)

// ErrProfane is returned when the question trips the profanity filter. It
// maps to a distinguishable status so the UI can respond kindly.
var ErrProfane = errors.New("message contains inappropriate language")

// Service is the tutoring collaborator: it validates the question,
// screens it, and produces an answer either from the canned bank or from
// a live language model.
type Service struct {
	db   *database.DB
	mode string
	llm  *LLMClient
}

// NewService creates the tutor backend. mode is "canned" or "live"; live
// mode needs an OpenAI API key in the environment.
func NewService(db *database.DB, mode, model string) *Service {
	s := &Service{db: db, mode: mode}
	if mode == "live" {
		s.llm = NewLLMClient(model)
		log.Printf("Tutor running in live mode (model: %s)", s.llm.model)
	} else {
		log.Println("Tutor running in canned mode")
	}
	return s
}

// Respond validates and answers one tutoring question.
func (s *Service) Respond(ctx context.Context, req service.TutorRequest) (string, error) {
	if err := validation.ValidateSubject(req.Subject); err != nil {
		return "", err
	}
	if err := validation.ValidateMessage(req.Message); err != nil {
		return "", err
	}

	profane, err := s.db.HasBadWord(req.Message)
	if err != nil {
		return "", fmt.Errorf("profanity check failed: %w", err)
	}
	if profane {
		return "", ErrProfane
	}

	if s.llm != nil {
		return s.llm.Answer(ctx, req)
	}
	return cannedAnswer(req), nil
}

// cannedAnswer produces a deterministic response per subject so the app
// works fully offline and in tests. Assist-mode answers stay short.
func cannedAnswer(req service.TutorRequest) string {
	opener, ok := cannedOpeners[req.Subject]
	if !ok {
		opener = "Great question!"
	}

	if req.Profile.DyslexiaAssist {
		return fmt.Sprintf("%s You asked: %q. Let's go step by step. Small steps make big ideas easy!",
			opener, req.Message)
	}

	return fmt.Sprintf("%s You asked: %q. Let's think it through together. "+
		"First, say the problem in your own words. Then look for what you already know. "+
		"A grade %s learner like you can definitely work this out — want a hint for the next step?",
		opener, req.Message, req.Profile.Grade)
}

var cannedOpeners = map[string]string{
	"math":    "Math time!",
	"reading": "Let's read together!",
	"science": "Time to explore!",
	"writing": "Let's get writing!",
	"history": "Back in time we go!",
}
