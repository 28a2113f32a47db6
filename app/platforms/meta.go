package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sepehrdad/Hydra-Marketing/config"
	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/utils"
)

// metaClient is the shared Graph API plumbing for the Facebook page,
// Instagram, and ads surfaces.
type metaClient struct {
	cfg    config.MetaConfig
	client *http.Client
}

func newMetaClient(cfg config.MetaConfig) *metaClient {
	return &metaClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// postGraph posts form values to a Graph API edge and returns the created
// object id. Failures of any kind come back as a reason string.
func (c *metaClient) postGraph(ctx context.Context, path, accessToken string, form url.Values) (string, string) {
	form.Set("access_token", accessToken)

	endpoint := c.cfg.GraphBaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Sprintf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Sprintf("transport: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", readAPIError(resp)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Sprintf("decode response: %v", err)
	}
	if out.ID == "" {
		return "", "no object id in response"
	}

	return out.ID, ""
}

// FacebookPublisher posts to a Facebook page feed
type FacebookPublisher struct {
	*metaClient
}

// NewFacebookPublisher creates the Facebook page adapter
func NewFacebookPublisher(cfg config.MetaConfig) *FacebookPublisher {
	return &FacebookPublisher{metaClient: newMetaClient(cfg)}
}

func (p *FacebookPublisher) Platform() models.Platform {
	return models.PlatformFacebook
}

// Publish posts to the page feed, or to /photos when media is attached.
// The page access token from the credential metadata takes precedence over
// the user token.
func (p *FacebookPublisher) Publish(ctx context.Context, cred Credential, content PostContent) PublishResult {
	pageID := cred.Metadata["page_id"]
	if pageID == "" {
		pageID = cred.AccountID
	}
	token := cred.Metadata["page_access_token"]
	if token == "" {
		token = cred.AccessToken
	}

	form := url.Values{}
	var path string
	if len(content.MediaURLs) > 0 {
		path = "/" + pageID + "/photos"
		form.Set("url", content.MediaURLs[0])
		form.Set("caption", content.Caption)
	} else {
		path = "/" + pageID + "/feed"
		form.Set("message", content.Caption)
		if content.LinkURL != "" {
			form.Set("link", content.LinkURL)
		}
	}

	id, reason := p.postGraph(ctx, path, token, form)
	if reason != "" {
		return failure(reason)
	}
	return published(id)
}

// InstagramPublisher publishes through the Instagram content API. Publishing
// is a two-step sequence: create a media container, then publish it. The
// second step only runs when the first succeeds.
type InstagramPublisher struct {
	*metaClient
}

// NewInstagramPublisher creates the Instagram adapter
func NewInstagramPublisher(cfg config.MetaConfig) *InstagramPublisher {
	return &InstagramPublisher{metaClient: newMetaClient(cfg)}
}

func (p *InstagramPublisher) Platform() models.Platform {
	return models.PlatformInstagram
}

func (p *InstagramPublisher) Publish(ctx context.Context, cred Credential, content PostContent) PublishResult {
	if len(content.MediaURLs) == 0 {
		return failure("instagram posts require at least one image")
	}

	igUserID := cred.Metadata["ig_user_id"]
	if igUserID == "" {
		igUserID = cred.AccountID
	}

	caption := utils.TruncateRunes(content.Caption, utils.InstagramMaxCaptionChars)

	// Step 1: media container
	form := url.Values{}
	form.Set("image_url", content.MediaURLs[0])
	form.Set("caption", caption)
	containerID, reason := p.postGraph(ctx, "/"+igUserID+"/media", cred.AccessToken, form)
	if reason != "" {
		return failure("create container: " + reason)
	}

	// Step 2: publish the container
	form = url.Values{}
	form.Set("creation_id", containerID)
	mediaID, reason := p.postGraph(ctx, "/"+igUserID+"/media_publish", cred.AccessToken, form)
	if reason != "" {
		return failure("publish container: " + reason)
	}

	return published(mediaID)
}

// MetaAdsClient creates paid ads through the marketing API
type MetaAdsClient interface {
	CreateAd(ctx context.Context, cred Credential, creative AdCreative) PublishResult
}

type metaAdsClient struct {
	*metaClient
}

// NewMetaAdsClient creates the Meta ads adapter
func NewMetaAdsClient(cfg config.MetaConfig) MetaAdsClient {
	return &metaAdsClient{metaClient: newMetaClient(cfg)}
}

// CreateAd runs the creative-then-ad sequence. The ad is created paused so
// billing only starts after a human review in the Meta dashboard.
func (c *metaAdsClient) CreateAd(ctx context.Context, cred Credential, creative AdCreative) PublishResult {
	adAccountID := cred.Metadata["ad_account_id"]
	if adAccountID == "" {
		adAccountID = c.cfg.AdAccountID
	}
	pageID := cred.Metadata["page_id"]

	storySpec := map[string]any{
		"page_id": pageID,
		"link_data": map[string]any{
			"message": creative.CreativeText,
			"link":    creative.LinkURL,
			"picture": creative.ImageURL,
		},
	}
	storyJSON, _ := json.Marshal(storySpec)

	// Step 1: ad creative
	form := url.Values{}
	form.Set("name", creative.Name+" creative")
	form.Set("object_story_spec", string(storyJSON))
	creativeID, reason := c.postGraph(ctx, "/act_"+adAccountID+"/adcreatives", cred.AccessToken, form)
	if reason != "" {
		return failure("create creative: " + reason)
	}

	// Step 2: the ad referencing the creative
	form = url.Values{}
	form.Set("name", creative.Name)
	form.Set("creative", fmt.Sprintf(`{"creative_id":"%s"}`, creativeID))
	form.Set("daily_budget", strconv.FormatUint(creative.DailyBudget, 10))
	form.Set("status", "PAUSED")
	adID, reason := c.postGraph(ctx, "/act_"+adAccountID+"/ads", cred.AccessToken, form)
	if reason != "" {
		return failure("create ad: " + reason)
	}

	return published(adID)
}

// MetaOAuthProvider drives the Facebook login dialog flow. The resolved
// account is the first managed page, whose page token is kept in metadata.
type MetaOAuthProvider struct {
	*metaClient
}

// NewMetaOAuthProvider creates the Meta OAuth adapter
func NewMetaOAuthProvider(cfg config.MetaConfig) *MetaOAuthProvider {
	return &MetaOAuthProvider{metaClient: newMetaClient(cfg)}
}

func (p *MetaOAuthProvider) Platform() models.Platform {
	return models.PlatformFacebook
}

func (p *MetaOAuthProvider) AuthorizeURL(state, redirectURI string) string {
	q := url.Values{}
	q.Set("client_id", p.cfg.AppID)
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	q.Set("scope", "pages_manage_posts,pages_read_engagement,instagram_content_publish,ads_management")
	q.Set("response_type", "code")
	return "https://www.facebook.com/v21.0/dialog/oauth?" + q.Encode()
}

func (p *MetaOAuthProvider) ExchangeCode(ctx context.Context, code, redirectURI, _ string) (*Token, error) {
	q := url.Values{}
	q.Set("client_id", p.cfg.AppID)
	q.Set("client_secret", p.cfg.AppSecret)
	q.Set("redirect_uri", redirectURI)
	q.Set("code", code)

	endpoint := p.cfg.GraphBaseURL + "/oauth/access_token?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("meta code exchange: %s", readAPIError(resp))
	}

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("meta code exchange: empty access_token")
	}

	token := &Token{AccessToken: out.AccessToken}
	if out.ExpiresIn > 0 {
		expires := utils.UTCNowAdd(secondsToDuration(out.ExpiresIn))
		token.ExpiresAt = &expires
	}

	return token, nil
}

// ResolveAccount picks the first managed page for the authorized user
func (p *MetaOAuthProvider) ResolveAccount(ctx context.Context, token *Token) (*AccountInfo, error) {
	endpoint := p.cfg.GraphBaseURL + "/me/accounts?access_token=" + url.QueryEscape(token.AccessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("meta account resolution: %s", readAPIError(resp))
	}

	var out struct {
		Data []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("meta account resolution: no managed pages")
	}

	page := out.Data[0]
	return &AccountInfo{
		AccountID:   page.ID,
		AccountName: page.Name,
		Metadata: map[string]string{
			"page_id":           page.ID,
			"page_access_token": page.AccessToken,
			"ad_account_id":     p.cfg.AdAccountID,
		},
	}, nil
}

// InstagramOAuthProvider reuses the Facebook login dialog but resolves the
// Instagram business account linked to the user's first managed page.
type InstagramOAuthProvider struct {
	*MetaOAuthProvider
}

// NewInstagramOAuthProvider creates the Instagram OAuth adapter
func NewInstagramOAuthProvider(cfg config.MetaConfig) *InstagramOAuthProvider {
	return &InstagramOAuthProvider{MetaOAuthProvider: NewMetaOAuthProvider(cfg)}
}

func (p *InstagramOAuthProvider) Platform() models.Platform {
	return models.PlatformInstagram
}

func (p *InstagramOAuthProvider) ResolveAccount(ctx context.Context, token *Token) (*AccountInfo, error) {
	page, err := p.MetaOAuthProvider.ResolveAccount(ctx, token)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s?fields=instagram_business_account{id,username}&access_token=%s",
		p.cfg.GraphBaseURL, page.AccountID, url.QueryEscape(token.AccessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("instagram account resolution: %s", readAPIError(resp))
	}

	var out struct {
		InstagramBusinessAccount struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"instagram_business_account"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.InstagramBusinessAccount.ID == "" {
		return nil, fmt.Errorf("instagram account resolution: page has no linked instagram business account")
	}

	return &AccountInfo{
		AccountID:   out.InstagramBusinessAccount.ID,
		AccountName: out.InstagramBusinessAccount.Username,
		Metadata: map[string]string{
			"ig_user_id": out.InstagramBusinessAccount.ID,
			"page_id":    page.Metadata["page_id"],
		},
	}, nil
}
