package platforms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sepehrdad/Hydra-Marketing/config"
	"github.com/sepehrdad/Hydra-Marketing/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTwitterPublisher(baseURL string) *TwitterPublisher {
	return NewTwitterPublisher(config.TwitterConfig{
		APIBaseURL:   baseURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Timeout:      5 * time.Second,
	})
}

func TestTwitterPublishTruncatesLongCaption(t *testing.T) {
	var posted struct {
		Text string `json:"text"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/2/tweets", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"tw-123"}}`))
	}))
	defer server.Close()

	p := newTwitterPublisher(server.URL)
	caption := strings.Repeat("a", 300)

	result := p.Publish(context.Background(), Credential{AccessToken: "tok-1"}, PostContent{Caption: caption})

	assert.True(t, result.Success)
	assert.Equal(t, "tw-123", result.ExternalID)
	assert.Len(t, []rune(posted.Text), utils.TwitterMaxChars)
	assert.Equal(t, caption[:utils.TwitterMaxChars], posted.Text)
}

func TestTwitterPublishShortCaptionUntouched(t *testing.T) {
	var posted struct {
		Text string `json:"text"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
		_, _ = w.Write([]byte(`{"data":{"id":"tw-124"}}`))
	}))
	defer server.Close()

	p := newTwitterPublisher(server.URL)
	result := p.Publish(context.Background(), Credential{AccessToken: "tok-1"},
		PostContent{Caption: "hello world", LinkURL: "https://example.com/x"})

	assert.True(t, result.Success)
	assert.Equal(t, "hello world https://example.com/x", posted.Text)
}

func TestTwitterPublishProviderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"You are not allowed to create a Tweet with duplicate content."}`))
	}))
	defer server.Close()

	p := newTwitterPublisher(server.URL)
	result := p.Publish(context.Background(), Credential{AccessToken: "tok-1"}, PostContent{Caption: "dup"})

	assert.False(t, result.Success)
	assert.Contains(t, result.Reason, "http status 403")
	assert.Contains(t, result.Reason, "duplicate content")
}

func TestTwitterExchangeCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/2/oauth2/token", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "client-id", user)
		require.Equal(t, "client-secret", pass)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		require.Equal(t, "the-code", r.PostForm.Get("code"))
		require.Equal(t, "state-tok", r.PostForm.Get("code_verifier"))

		_, _ = w.Write([]byte(`{"access_token":"at-1","refresh_token":"rt-1","expires_in":7200}`))
	}))
	defer server.Close()

	p := NewTwitterOAuthProvider(config.TwitterConfig{
		APIBaseURL:   server.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Timeout:      5 * time.Second,
	})

	token, err := p.ExchangeCode(context.Background(), "the-code", "https://hydra.example/cb", "state-tok")
	require.NoError(t, err)
	assert.Equal(t, "at-1", token.AccessToken)
	assert.Equal(t, "rt-1", token.RefreshToken)
	require.NotNil(t, token.ExpiresAt)
}

func TestTwitterAuthorizeURLChallengeMatchesExchangeVerifier(t *testing.T) {
	var sentVerifier string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		sentVerifier = r.PostForm.Get("code_verifier")
		_, _ = w.Write([]byte(`{"access_token":"at-1"}`))
	}))
	defer server.Close()

	p := NewTwitterOAuthProvider(config.TwitterConfig{
		APIBaseURL: server.URL,
		ClientID:   "client-id",
		Timeout:    5 * time.Second,
	})

	authorizeURL := p.AuthorizeURL("state-tok", "https://hydra.example/cb")
	parsed, err := url.Parse(authorizeURL)
	require.NoError(t, err)
	assert.Equal(t, "state-tok", parsed.Query().Get("code_challenge"))
	assert.Equal(t, "plain", parsed.Query().Get("code_challenge_method"))

	_, err = p.ExchangeCode(context.Background(), "the-code", "https://hydra.example/cb", "state-tok")
	require.NoError(t, err)
	assert.Equal(t, parsed.Query().Get("code_challenge"), sentVerifier,
		"token exchange must present the same value committed as the code challenge")
}
