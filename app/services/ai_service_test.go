package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sepehrdad/Hydra-Marketing/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCompletionServer serves a chat-completion response whose assistant
// message carries the given content verbatim
func newCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		resp := map[string]any{
			"choices": []any{
				map[string]any{
					"message": map[string]any{"role": "assistant", "content": content},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestAIService(baseURL string) *AIServiceImpl {
	return NewAIService(config.AIConfig{
		APIBaseURL: baseURL,
		APIKey:     "test-key",
		Model:      "test-model",
		Timeout:    5 * time.Second,
	})
}

func TestGenerateText(t *testing.T) {
	server := newCompletionServer(t, "  a tagline  ")
	defer server.Close()

	text, err := newTestAIService(server.URL).GenerateText(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "a tagline", text)
}

func TestGenerateJSONDecodesFencedAnswer(t *testing.T) {
	server := newCompletionServer(t, "```json\n{\"headline\":\"Launch\"}\n```")
	defer server.Close()

	var out struct {
		Headline string `json:"headline"`
	}
	raw, decoded, err := newTestAIService(server.URL).GenerateJSON(context.Background(), "sys", "user", &out)
	require.NoError(t, err)
	assert.True(t, decoded)
	assert.Equal(t, "Launch", out.Headline)
	assert.JSONEq(t, `{"headline":"Launch"}`, raw)
}

func TestGenerateJSONMalformedFallsBackToRawText(t *testing.T) {
	server := newCompletionServer(t, "Here is my proposal: reach out to influencers.")
	defer server.Close()

	var out struct {
		Headline string `json:"headline"`
	}
	raw, decoded, err := newTestAIService(server.URL).GenerateJSON(context.Background(), "sys", "user", &out)
	require.NoError(t, err, "prose instead of JSON is a fallback, not a failure")
	assert.False(t, decoded)
	assert.Equal(t, "Here is my proposal: reach out to influencers.", raw)
	assert.Empty(t, out.Headline)
}

func TestGenerateTextAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	_, err := newTestAIService(server.URL).GenerateText(context.Background(), "sys", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
