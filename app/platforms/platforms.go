// Package platforms contains the adapters that talk to external publishing
// platforms. Everything platform-specific stays behind these interfaces:
// provider rejections and transport errors alike surface as plain results,
// never as raw provider payloads.
package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sepehrdad/Hydra-Marketing/models"
)

// Credential is the stored token material a publisher needs for one account
type Credential struct {
	AccountID   string
	AccessToken string
	Metadata    map[string]string
}

// CredentialFromAccount builds a Credential from a stored social account
func CredentialFromAccount(account *models.SocialAccount) Credential {
	cred := Credential{
		AccountID:   account.AccountID,
		AccessToken: account.AccessToken,
		Metadata:    map[string]string{},
	}
	if len(account.Metadata) > 0 {
		// Best effort: metadata stays empty on malformed JSON
		_ = json.Unmarshal(account.Metadata, &cred.Metadata)
	}
	return cred
}

// PostContent is the platform-neutral description of a post
type PostContent struct {
	Caption   string
	MediaURLs []string
	LinkURL   string
}

// AdCreative is the platform-neutral description of a paid ad
type AdCreative struct {
	Name         string
	CreativeText string
	ImageURL     string
	LinkURL      string
	DailyBudget  uint64 // minor currency units
}

// PublishResult is the outcome of one publish attempt. Failure carries a
// short human-readable reason instead of an error so callers can record it
// without unwrapping provider internals.
type PublishResult struct {
	Success    bool
	ExternalID string
	Reason     string
}

// Token is the credential material obtained from a code exchange
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
}

// AccountInfo identifies the remote account a token belongs to
type AccountInfo struct {
	AccountID   string
	AccountName string
	Metadata    map[string]string
}

// Publisher publishes a post to one connected account
type Publisher interface {
	Platform() models.Platform
	Publish(ctx context.Context, cred Credential, content PostContent) PublishResult
}

// OAuthProvider drives the authorization-code flow for one platform.
// ExchangeCode receives the PKCE verifier minted for the attempt; providers
// whose token endpoint does not use PKCE ignore it.
type OAuthProvider interface {
	Platform() models.Platform
	AuthorizeURL(state, redirectURI string) string
	ExchangeCode(ctx context.Context, code, redirectURI, verifier string) (*Token, error)
	ResolveAccount(ctx context.Context, token *Token) (*AccountInfo, error)
}

// Registry resolves platform names to their adapters. Flows never switch on
// platform strings; they ask the registry and use the interface.
type Registry struct {
	publishers map[models.Platform]Publisher
	providers  map[models.Platform]OAuthProvider
}

// NewRegistry creates an empty adapter registry
func NewRegistry() *Registry {
	return &Registry{
		publishers: make(map[models.Platform]Publisher),
		providers:  make(map[models.Platform]OAuthProvider),
	}
}

// RegisterPublisher adds a publisher for its platform
func (r *Registry) RegisterPublisher(p Publisher) {
	r.publishers[p.Platform()] = p
}

// RegisterOAuthProvider adds an OAuth provider for its platform
func (r *Registry) RegisterOAuthProvider(p OAuthProvider) {
	r.providers[p.Platform()] = p
}

// Publisher returns the publisher for a platform, or false when unsupported
func (r *Registry) Publisher(platform models.Platform) (Publisher, bool) {
	p, ok := r.publishers[platform]
	return p, ok
}

// OAuthProvider returns the OAuth provider for a platform, or false when unsupported
func (r *Registry) OAuthProvider(platform models.Platform) (OAuthProvider, bool) {
	p, ok := r.providers[platform]
	return p, ok
}

// Platforms lists the platforms with a registered publisher
func (r *Registry) Platforms() []models.Platform {
	out := make([]models.Platform, 0, len(r.publishers))
	for p := range r.publishers {
		out = append(out, p)
	}
	return out
}

func secondsToDuration(s int64) time.Duration {
	return time.Duration(s) * time.Second
}

func failure(reason string) PublishResult {
	return PublishResult{Success: false, Reason: reason}
}

func published(externalID string) PublishResult {
	return PublishResult{Success: true, ExternalID: externalID}
}

// readAPIError extracts a short reason from a non-2xx provider response.
// The body is decoded as a generic error envelope first; unparseable bodies
// fall back to the raw text, truncated.
func readAPIError(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(body) == 0 {
		return fmt.Sprintf("http status %d", resp.StatusCode)
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Title   string `json:"title"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		switch {
		case envelope.Error.Message != "":
			return fmt.Sprintf("http status %d: %s", resp.StatusCode, envelope.Error.Message)
		case envelope.Message != "":
			return fmt.Sprintf("http status %d: %s", resp.StatusCode, envelope.Message)
		case envelope.Detail != "":
			return fmt.Sprintf("http status %d: %s", resp.StatusCode, envelope.Detail)
		case envelope.Title != "":
			return fmt.Sprintf("http status %d: %s", resp.StatusCode, envelope.Title)
		}
	}

	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return fmt.Sprintf("http status %d: %s", resp.StatusCode, text)
}
