// Package llm wraps an OpenAI-compatible chat-completion API as the
// portal's remote judge and summary writer. The client receives an opaque
// API key; credential resolution happens at startup, not here.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/model"
)

// judgeTimeout bounds every remote call. One attempt, no retries; callers
// absorb failure.
const judgeTimeout = 15 * time.Second

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api     *openai.Client
	model   string
	variant Variant
}

// New creates a new LLM client.
func New(baseURL, apiKey, modelName string, variant Variant) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:     openai.NewClientWithConfig(config),
		model:   modelName,
		variant: variant,
	}
}

// Ping verifies the endpoint is reachable and the credential is accepted.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, judgeTimeout)
	defer cancel()
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("LLM endpoint check: %w", err)
	}
	return nil
}

// Judge asks the remote model whether a free-form answer is correct. The
// model is constrained to reply with exactly one of two tokens, and the
// reply is matched by token equality, never by substring ("incorrect"
// contains "correct"). Any transport failure, timeout, empty response, or
// off-script reply is an error; the grading engine maps errors to an
// incorrect verdict.
func (c *Client) Judge(ctx context.Context, question, studentAnswer, expected string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, judgeTimeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildJudgeSystemPrompt(c.variant)},
			{Role: openai.ChatMessageRoleUser, Content: buildJudgeUserPrompt(question, studentAnswer, expected)},
		},
		Temperature: 0,
		MaxTokens:   4,
	})
	if err != nil {
		return false, fmt.Errorf("judge API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return false, fmt.Errorf("judge returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("judge response", "raw", raw)

	return parseVerdict(raw)
}

// parseVerdict maps the model's reply to a boolean by exact-token equality
// on the trimmed, lowercased text.
func parseVerdict(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "correct":
		return true, nil
	case "incorrect":
		return false, nil
	default:
		return false, fmt.Errorf("unrecognized judge verdict %q", raw)
	}
}

// Summarize writes a short progress blurb for the student dashboard from
// the lesson star counts. Callers fall back to a fixed string on error.
func (c *Client) Summarize(ctx context.Context, student model.StudentData) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, judgeTimeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildSummaryUserPrompt(student)},
		},
		Temperature: 0.4,
		MaxTokens:   120,
	})
	if err != nil {
		return "", fmt.Errorf("summary API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summary returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("summary returned empty text")
	}
	return text, nil
}
