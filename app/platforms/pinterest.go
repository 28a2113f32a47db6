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

// PinterestPublisher creates pins through the v5 API. Pins land on the board
// recorded in the credential metadata; when none is recorded, the first
// board on the account is discovered and used.
type PinterestPublisher struct {
	cfg    config.PinterestConfig
	client *http.Client
}

// NewPinterestPublisher creates the Pinterest adapter
func NewPinterestPublisher(cfg config.PinterestConfig) *PinterestPublisher {
	return &PinterestPublisher{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (p *PinterestPublisher) Platform() models.Platform {
	return models.PlatformPinterest
}

func (p *PinterestPublisher) Publish(ctx context.Context, cred Credential, content PostContent) PublishResult {
	if len(content.MediaURLs) == 0 {
		return failure("pinterest pins require an image")
	}

	boardID := cred.Metadata["board_id"]
	if boardID == "" {
		var reason string
		boardID, reason = p.firstBoard(ctx, cred.AccessToken)
		if reason != "" {
			return failure(reason)
		}
	}

	body := map[string]any{
		"board_id":    boardID,
		"title":       utils.TruncateRunes(content.Caption, utils.PinterestMaxTitleChars),
		"description": content.Caption,
		"media_source": map[string]any{
			"source_type": "image_url",
			"url":         content.MediaURLs[0],
		},
	}
	if content.LinkURL != "" {
		body["link"] = content.LinkURL
	}

	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.APIBaseURL+"/pins", bytes.NewReader(b))
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
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return failure(fmt.Sprintf("decode response: %v", err))
	}
	if out.ID == "" {
		return failure("no pin id in response")
	}

	return published(out.ID)
}

func (p *PinterestPublisher) firstBoard(ctx context.Context, accessToken string) (string, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.APIBaseURL+"/boards?page_size=1", nil)
	if err != nil {
		return "", fmt.Sprintf("build board request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Sprintf("board discovery transport: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "board discovery: " + readAPIError(resp)
	}

	var out struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Sprintf("decode board response: %v", err)
	}
	if len(out.Items) == 0 {
		return "", "board discovery: account has no boards"
	}

	return out.Items[0].ID, ""
}

// PinterestOAuthProvider drives the v5 OAuth flow
type PinterestOAuthProvider struct {
	cfg    config.PinterestConfig
	client *http.Client
}

// NewPinterestOAuthProvider creates the Pinterest OAuth adapter
func NewPinterestOAuthProvider(cfg config.PinterestConfig) *PinterestOAuthProvider {
	return &PinterestOAuthProvider{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (p *PinterestOAuthProvider) Platform() models.Platform {
	return models.PlatformPinterest
}

func (p *PinterestOAuthProvider) AuthorizeURL(state, redirectURI string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", p.cfg.ClientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	q.Set("scope", "boards:read,pins:read,pins:write")
	return "https://www.pinterest.com/oauth/?" + q.Encode()
}

func (p *PinterestOAuthProvider) ExchangeCode(ctx context.Context, code, redirectURI, _ string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.APIBaseURL+"/oauth/token", strings.NewReader(form.Encode()))
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
		return nil, fmt.Errorf("pinterest code exchange: %s", readAPIError(resp))
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
		return nil, fmt.Errorf("pinterest code exchange: empty access_token")
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

func (p *PinterestOAuthProvider) ResolveAccount(ctx context.Context, token *Token) (*AccountInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.APIBaseURL+"/user_account", nil)
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
		return nil, fmt.Errorf("pinterest account resolution: %s", readAPIError(resp))
	}

	var out struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("pinterest account resolution: empty account id")
	}

	return &AccountInfo{
		AccountID:   out.ID,
		AccountName: out.Username,
		Metadata:    map[string]string{},
	}, nil
}
