package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sepehrdad/Hydra-Marketing/config"
	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/utils"
)

// LinkedInPublisher posts UGC shares on behalf of a member. Image posts run
// a per-image upload sequence (register, upload binary, reference the asset)
// before the share itself is created.
type LinkedInPublisher struct {
	cfg    config.LinkedInConfig
	client *http.Client
}

// NewLinkedInPublisher creates the LinkedIn adapter
func NewLinkedInPublisher(cfg config.LinkedInConfig) *LinkedInPublisher {
	return &LinkedInPublisher{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (p *LinkedInPublisher) Platform() models.Platform {
	return models.PlatformLinkedIn
}

func (p *LinkedInPublisher) Publish(ctx context.Context, cred Credential, content PostContent) PublishResult {
	author := "urn:li:person:" + cred.AccountID

	// LinkedIn caps images per share; extras are dropped, not an error
	mediaURLs := content.MediaURLs
	if len(mediaURLs) > utils.LinkedInMaxImages {
		mediaURLs = mediaURLs[:utils.LinkedInMaxImages]
	}

	var assets []string
	for _, mediaURL := range mediaURLs {
		asset, reason := p.uploadImage(ctx, cred.AccessToken, author, mediaURL)
		if reason != "" {
			return failure(reason)
		}
		assets = append(assets, asset)
	}

	shareMedia := make([]map[string]any, 0, len(assets))
	for _, asset := range assets {
		shareMedia = append(shareMedia, map[string]any{
			"status": "READY",
			"media":  asset,
		})
	}

	category := "NONE"
	if len(shareMedia) > 0 {
		category = "IMAGE"
	} else if content.LinkURL != "" {
		category = "ARTICLE"
		shareMedia = append(shareMedia, map[string]any{
			"status":      "READY",
			"originalUrl": content.LinkURL,
		})
	}

	body := map[string]any{
		"author":         author,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]any{"text": content.Caption},
				"shareMediaCategory": category,
				"media":              shareMedia,
			},
		},
		"visibility": map[string]any{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.APIBaseURL+"/ugcPosts", bytes.NewReader(b))
	if err != nil {
		return failure(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return failure(fmt.Sprintf("transport: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failure(readAPIError(resp))
	}

	postID := resp.Header.Get("X-RestLi-Created-Entity-Id")
	if postID == "" {
		var out struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err == nil {
			postID = out.ID
		}
	}

	return published(postID)
}

// uploadImage registers an upload slot, fetches the source image, and pushes
// the bytes to the returned upload URL. Returns the asset URN to reference
// in the share.
func (p *LinkedInPublisher) uploadImage(ctx context.Context, accessToken, owner, mediaURL string) (string, string) {
	// Step 1: register the upload
	registerBody := map[string]any{
		"registerUploadRequest": map[string]any{
			"recipes": []string{"urn:li:digitalmediaRecipe:feedshare-image"},
			"owner":   owner,
			"serviceRelationships": []map[string]any{{
				"relationshipType": "OWNER",
				"identifier":       "urn:li:userGeneratedContent",
			}},
		},
	}
	b, _ := json.Marshal(registerBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.APIBaseURL+"/assets?action=registerUpload", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Sprintf("build register request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Sprintf("register upload transport: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "register upload: " + readAPIError(resp)
	}

	var registered struct {
		Value struct {
			Asset           string `json:"asset"`
			UploadMechanism map[string]struct {
				UploadURL string `json:"uploadUrl"`
			} `json:"uploadMechanism"`
		} `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&registered); err != nil {
		return "", fmt.Sprintf("decode register response: %v", err)
	}

	var uploadURL string
	for _, mech := range registered.Value.UploadMechanism {
		if mech.UploadURL != "" {
			uploadURL = mech.UploadURL
			break
		}
	}
	if uploadURL == "" || registered.Value.Asset == "" {
		return "", "register upload: missing upload url or asset"
	}

	// Step 2: fetch the source image
	imageBytes, reason := p.fetchImage(ctx, mediaURL)
	if reason != "" {
		return "", reason
	}

	// Step 3: push the binary
	putReq, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(imageBytes))
	if err != nil {
		return "", fmt.Sprintf("build upload request: %v", err)
	}
	putReq.Header.Set("Authorization", "Bearer "+accessToken)
	putReq.Header.Set("Content-Type", "application/octet-stream")

	putResp, err := p.client.Do(putReq)
	if err != nil {
		return "", fmt.Sprintf("upload transport: %v", err)
	}
	defer putResp.Body.Close()

	if putResp.StatusCode < 200 || putResp.StatusCode >= 300 {
		return "", "upload: " + readAPIError(putResp)
	}

	return registered.Value.Asset, ""
}

func (p *LinkedInPublisher) fetchImage(ctx context.Context, mediaURL string) ([]byte, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Sprintf("build image fetch request: %v", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Sprintf("image fetch transport: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Sprintf("image fetch http status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Sprintf("read image: %v", err)
	}

	return body, ""
}

// LinkedInOAuthProvider drives the three-legged OAuth flow and resolves the
// member through the OpenID userinfo endpoint.
type LinkedInOAuthProvider struct {
	cfg    config.LinkedInConfig
	client *http.Client
}

// NewLinkedInOAuthProvider creates the LinkedIn OAuth adapter
func NewLinkedInOAuthProvider(cfg config.LinkedInConfig) *LinkedInOAuthProvider {
	return &LinkedInOAuthProvider{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (p *LinkedInOAuthProvider) Platform() models.Platform {
	return models.PlatformLinkedIn
}

func (p *LinkedInOAuthProvider) AuthorizeURL(state, redirectURI string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", p.cfg.ClientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	q.Set("scope", "openid profile w_member_social")
	return "https://www.linkedin.com/oauth/v2/authorization?" + q.Encode()
}

func (p *LinkedInOAuthProvider) ExchangeCode(ctx context.Context, code, redirectURI, _ string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)
	form.Set("client_id", p.cfg.ClientID)
	form.Set("client_secret", p.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://www.linkedin.com/oauth/v2/accessToken", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("linkedin code exchange: %s", readAPIError(resp))
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
		return nil, fmt.Errorf("linkedin code exchange: empty access_token")
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

func (p *LinkedInOAuthProvider) ResolveAccount(ctx context.Context, token *Token) (*AccountInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.APIBaseURL+"/userinfo", nil)
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
		return nil, fmt.Errorf("linkedin account resolution: %s", readAPIError(resp))
	}

	var out struct {
		Sub  string `json:"sub"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Sub == "" {
		return nil, fmt.Errorf("linkedin account resolution: empty sub")
	}

	return &AccountInfo{
		AccountID:   out.Sub,
		AccountName: out.Name,
		Metadata:    map[string]string{},
	}, nil
}
