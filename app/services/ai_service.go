package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sepehrdad/Hydra-Marketing/config"
)

// AIService generates marketing copy through a chat-completion API
type AIService interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, out any) (raw string, decoded bool, err error)
}

// AIServiceImpl talks to an OpenAI-compatible chat completions endpoint
type AIServiceImpl struct {
	cfg    config.AIConfig
	client *http.Client
}

// NewAIService creates a new AI generation service
func NewAIService(cfg config.AIConfig) *AIServiceImpl {
	return &AIServiceImpl{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateText returns the raw completion for a prompt
func (s *AIServiceImpl) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	reqBody := chatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIBaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("completion API error (status %d): %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("completion API returned status %d", resp.StatusCode)
	}

	if len(out.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}

	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// GenerateJSON runs a completion and decodes the answer into out. Models
// often wrap JSON answers in a markdown code fence; the fence is stripped
// before decoding. A completion that is not valid JSON is not an error:
// the raw text comes back with decoded=false so callers can fall back to
// the plain prose the model produced instead.
func (s *AIServiceImpl) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, out any) (string, bool, error) {
	text, err := s.GenerateText(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", false, err
	}

	cleaned := stripCodeFence(text)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return cleaned, false, nil
	}

	return cleaned, true, nil
}

func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")

	return strings.TrimSpace(trimmed)
}

// MockAIService returns canned completions for tests and local development
type MockAIService struct {
	TextResponse string
	JSONResponse string
	Err          error
}

func (m *MockAIService) GenerateText(_ context.Context, _, _ string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.TextResponse, nil
}

func (m *MockAIService) GenerateJSON(_ context.Context, _, _ string, out any) (string, bool, error) {
	if m.Err != nil {
		return "", false, m.Err
	}
	cleaned := stripCodeFence(m.JSONResponse)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return cleaned, false, nil
	}
	return cleaned, true, nil
}
