package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sepehrdad/Hydra-Marketing/config"
	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/utils"
)

// TwitterPublisher posts tweets through the v2 API. Captions longer than the
// platform limit are truncated, not rejected.
type TwitterPublisher struct {
	cfg    config.TwitterConfig
	client *http.Client
}

// NewTwitterPublisher creates the Twitter adapter
func NewTwitterPublisher(cfg config.TwitterConfig) *TwitterPublisher {
	return &TwitterPublisher{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (p *TwitterPublisher) Platform() models.Platform {
	return models.PlatformTwitter
}

func (p *TwitterPublisher) Publish(ctx context.Context, cred Credential, content PostContent) PublishResult {
	text := content.Caption
	if content.LinkURL != "" {
		text = strings.TrimSpace(text + " " + content.LinkURL)
	}
	text = utils.TruncateRunes(text, utils.TwitterMaxChars)

	body := map[string]any{"text": text}
	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.APIBaseURL+"/2/tweets", bytes.NewReader(b))
	if err != nil {
		return failure(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return failure(fmt.Sprintf("transport: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failure(readAPIError(resp))
	}

	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return failure(fmt.Sprintf("decode response: %v", err))
	}
	if out.Data.ID == "" {
		return failure("no tweet id in response")
	}

	return published(out.Data.ID)
}

// TwitterOAuthProvider drives the OAuth 2.0 authorization-code flow with
// client credentials in the token request's basic auth header.
type TwitterOAuthProvider struct {
	cfg    config.TwitterConfig
	client *http.Client
}

// NewTwitterOAuthProvider creates the Twitter OAuth adapter
func NewTwitterOAuthProvider(cfg config.TwitterConfig) *TwitterOAuthProvider {
	return &TwitterOAuthProvider{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (p *TwitterOAuthProvider) Platform() models.Platform {
	return models.PlatformTwitter
}

func (p *TwitterOAuthProvider) AuthorizeURL(state, redirectURI string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", p.cfg.ClientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	q.Set("scope", "tweet.read tweet.write users.read offline.access")
	// PKCE plain challenge bound to the state token
	q.Set("code_challenge", state)
	q.Set("code_challenge_method", "plain")
	return "https://twitter.com/i/oauth2/authorize?" + q.Encode()
}

func (p *TwitterOAuthProvider) ExchangeCode(ctx context.Context, code, redirectURI, verifier string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)
	form.Set("client_id", p.cfg.ClientID)
	// Must match the plain code_challenge sent with AuthorizeURL; Twitter
	// rejects OAuth 2.0 exchanges without it
	form.Set("code_verifier", verifier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.APIBaseURL+"/2/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.cfg.ClientID, p.cfg.ClientSecret)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("twitter code exchange: %s", readAPIError(resp))
	}

	var out struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("twitter code exchange: empty access_token")
	}

	token := &Token{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
	}
	if out.ExpiresIn > 0 {
		expires := utils.UTCNowAdd(secondsToDuration(out.ExpiresIn))
		token.ExpiresAt = &expires
	}

	return token, nil
}

func (p *TwitterOAuthProvider) ResolveAccount(ctx context.Context, token *Token) (*AccountInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.APIBaseURL+"/2/users/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("twitter account resolution: %s", readAPIError(resp))
	}

	var out struct {
		Data struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Data.ID == "" {
		return nil, fmt.Errorf("twitter account resolution: empty user id")
	}

	name := out.Data.Name
	if name == "" {
		name = out.Data.Username
	}

	return &AccountInfo{
		AccountID:   out.Data.ID,
		AccountName: name,
		Metadata:    map[string]string{"username": out.Data.Username},
	}, nil
}
