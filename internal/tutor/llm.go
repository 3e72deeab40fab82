package tutor

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"kidtutor/internal/service"
)

// maxAnswerTokens bounds one completion; a truncated answer gets exactly
// one continuation request, concatenated onto the first part.
const maxAnswerTokens = 600

// LLMClient answers tutoring questions with the OpenAI Chat Completions
// API. The API key comes from the environment.
type LLMClient struct {
	client openai.Client
	model  string
}

// NewLLMClient creates a live tutor client
func NewLLMClient(model string) *LLMClient {
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	return &LLMClient{
		client: openai.NewClient(),
		model:  model,
	}
}

// Answer generates a tutoring response, retrying once when the completion
// is cut off by the token limit.
func (c *LLMClient) Answer(ctx context.Context, req service.TutorRequest) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt(req)),
		openai.UserMessage(req.Message),
	}

	text, truncated, err := c.complete(ctx, messages)
	if err != nil {
		return "", err
	}

	if truncated {
		messages = append(messages,
			openai.AssistantMessage(text),
			openai.UserMessage("Please continue your answer."),
		)
		more, _, err := c.complete(ctx, messages)
		if err != nil {
			return "", err
		}
		text += more
	}

	return text, nil
}

func (c *LLMClient) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, bool, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               c.model,
		Messages:            messages,
		MaxCompletionTokens: openai.Int(maxAnswerTokens),
	})
	if err != nil {
		return "", false, fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", false, fmt.Errorf("completion returned no choices")
	}

	choice := resp.Choices[0]
	return choice.Message.Content, choice.FinishReason == "length", nil
}

// systemPrompt shapes the tutor's voice for the learner's grade level and
// reading accommodations.
func systemPrompt(req service.TutorRequest) string {
	prompt := fmt.Sprintf(
		"You are a friendly, patient tutor for a grade %s child. The subject is %s. "+
			"Explain with simple words and a warm tone. Guide the child toward the answer "+
			"with small steps and questions instead of just giving it away. "+
			"Never discuss anything inappropriate for children.",
		req.Profile.Grade, req.Subject)

	if req.Profile.DyslexiaAssist {
		prompt += " Keep the answer short. Use short sentences, one idea per line, and avoid hard words."
	}
	return prompt
}
