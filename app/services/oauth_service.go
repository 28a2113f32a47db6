package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sepehrdad/Hydra-Marketing/app/platforms"
	"github.com/sepehrdad/Hydra-Marketing/config"
	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/repository"
	"github.com/sepehrdad/Hydra-Marketing/utils"
)

// OAuth service error constants
var (
	ErrPlatformUnsupported = errors.New("platform has no registered oauth provider")
	ErrStateInvalid        = errors.New("state token is missing, expired, or already used")
	ErrProviderDenied      = errors.New("authorization was denied at the provider")
	ErrCodeMissing         = errors.New("authorization code is missing from the callback")
	ErrExchangeFailed      = errors.New("authorization code exchange failed")
)

// OAuthService coordinates the authorization-code flow across all platforms:
// minting and consuming state tokens, exchanging codes through the platform
// adapter, and persisting the resulting credential.
type OAuthService interface {
	Start(ctx context.Context, customerID uint, platform models.Platform) (authorizeURL string, err error)
	Complete(ctx context.Context, stateToken, code, providerError string) (*models.SocialAccount, error)
}

// OAuthServiceImpl implements OAuthService
type OAuthServiceImpl struct {
	cfg         config.OAuthConfig
	registry    *platforms.Registry
	stateStore  StateStore
	accountRepo repository.SocialAccountRepository
}

// NewOAuthService creates a new OAuth flow coordinator
func NewOAuthService(
	cfg config.OAuthConfig,
	registry *platforms.Registry,
	stateStore StateStore,
	accountRepo repository.SocialAccountRepository,
) *OAuthServiceImpl {
	return &OAuthServiceImpl{
		cfg:         cfg,
		registry:    registry,
		stateStore:  stateStore,
		accountRepo: accountRepo,
	}
}

// Start mints a single-use state token bound to the customer and platform
// and returns the provider authorization URL to redirect the customer to.
func (s *OAuthServiceImpl) Start(ctx context.Context, customerID uint, platform models.Platform) (string, error) {
	provider, ok := s.registry.OAuthProvider(platform)
	if !ok {
		return "", ErrPlatformUnsupported
	}

	stateToken, err := utils.RandomToken(s.cfg.StateTokenLength)
	if err != nil {
		return "", fmt.Errorf("failed to mint state token: %w", err)
	}

	state := ConnectState{
		CustomerID: customerID,
		Platform:   platform,
		CreatedAt:  utils.UTCNow(),
	}
	if err := s.stateStore.Put(ctx, stateToken, state, s.cfg.StateTTL); err != nil {
		return "", err
	}

	return provider.AuthorizeURL(stateToken, s.redirectURI(platform)), nil
}

// Complete consumes the callback of one authorization attempt. The state
// token is consumed exactly once regardless of the callback outcome, so a
// replayed callback always fails on the state check.
func (s *OAuthServiceImpl) Complete(ctx context.Context, stateToken, code, providerError string) (*models.SocialAccount, error) {
	state, ok, err := s.stateStore.Take(ctx, stateToken)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStateInvalid
	}

	if providerError != "" {
		return nil, fmt.Errorf("%w: %s", ErrProviderDenied, providerError)
	}
	if code == "" {
		return nil, ErrCodeMissing
	}

	provider, ok := s.registry.OAuthProvider(state.Platform)
	if !ok {
		return nil, ErrPlatformUnsupported
	}

	// The state token doubles as the PKCE verifier: AuthorizeURL sent it as
	// the plain code challenge for providers that mandate PKCE.
	token, err := provider.ExchangeCode(ctx, code, s.redirectURI(state.Platform), stateToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	info, err := provider.ResolveAccount(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	account := &models.SocialAccount{
		CustomerID:     state.CustomerID,
		Platform:       state.Platform,
		AccountID:      info.AccountID,
		AccountName:    info.AccountName,
		AccessToken:    token.AccessToken,
		TokenExpiresAt: token.ExpiresAt,
	}
	if token.RefreshToken != "" {
		account.RefreshToken = utils.ToPtr(token.RefreshToken)
	}
	if len(info.Metadata) > 0 {
		metadata, err := json.Marshal(info.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal account metadata: %w", err)
		}
		account.Metadata = metadata
	}

	if err := s.accountRepo.Upsert(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}

	return account, nil
}

func (s *OAuthServiceImpl) redirectURI(platform models.Platform) string {
	return fmt.Sprintf("%s/api/v1/connect/%s/callback", s.cfg.RedirectBaseURL, platform)
}
