package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sepehrdad/Hydra-Marketing/app/platforms"
	"github.com/sepehrdad/Hydra-Marketing/config"
	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOAuthProvider struct {
	platform     models.Platform
	lastState    string
	lastVerifier string
	exchangeErr  error
}

func (f *fakeOAuthProvider) Platform() models.Platform { return f.platform }

func (f *fakeOAuthProvider) AuthorizeURL(state, redirectURI string) string {
	f.lastState = state
	return "https://provider.example/authorize?state=" + state + "&redirect_uri=" + redirectURI
}

func (f *fakeOAuthProvider) ExchangeCode(_ context.Context, code, _, verifier string) (*platforms.Token, error) {
	f.lastVerifier = verifier
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &platforms.Token{AccessToken: "access-for-" + code, RefreshToken: "refresh-for-" + code}, nil
}

func (f *fakeOAuthProvider) ResolveAccount(_ context.Context, _ *platforms.Token) (*platforms.AccountInfo, error) {
	return &platforms.AccountInfo{AccountID: "acct-1", AccountName: "Test Account"}, nil
}

type fakeAccountRepo struct {
	repository.SocialAccountRepository
	upserted []*models.SocialAccount
}

func (f *fakeAccountRepo) Upsert(_ context.Context, account *models.SocialAccount) error {
	f.upserted = append(f.upserted, account)
	return nil
}

func newTestOAuthService(provider *fakeOAuthProvider, accountRepo *fakeAccountRepo) *OAuthServiceImpl {
	registry := platforms.NewRegistry()
	registry.RegisterOAuthProvider(provider)

	cfg := config.OAuthConfig{
		RedirectBaseURL:  "https://hydra.example",
		StateTTL:         10 * time.Minute,
		StateTokenLength: 32,
	}
	return NewOAuthService(cfg, registry, NewMemoryStateStore(), accountRepo)
}

func TestOAuthStartUnsupportedPlatform(t *testing.T) {
	svc := newTestOAuthService(&fakeOAuthProvider{platform: models.PlatformLinkedIn}, &fakeAccountRepo{})

	_, err := svc.Start(context.Background(), 1, models.PlatformTwitter)
	assert.ErrorIs(t, err, ErrPlatformUnsupported)
}

func TestOAuthCompleteStoresAccount(t *testing.T) {
	provider := &fakeOAuthProvider{platform: models.PlatformLinkedIn}
	accountRepo := &fakeAccountRepo{}
	svc := newTestOAuthService(provider, accountRepo)

	url, err := svc.Start(context.Background(), 7, models.PlatformLinkedIn)
	require.NoError(t, err)
	assert.Contains(t, url, provider.lastState)
	assert.Contains(t, url, "/api/v1/connect/linkedin/callback")

	account, err := svc.Complete(context.Background(), provider.lastState, "auth-code", "")
	require.NoError(t, err)
	assert.Equal(t, uint(7), account.CustomerID)
	assert.Equal(t, models.PlatformLinkedIn, account.Platform)
	assert.Equal(t, "acct-1", account.AccountID)
	assert.Equal(t, "access-for-auth-code", account.AccessToken)
	require.NotNil(t, account.RefreshToken)
	require.Len(t, accountRepo.upserted, 1)

	// The state token issued at Start is handed to the exchange as the
	// PKCE verifier
	assert.Equal(t, provider.lastState, provider.lastVerifier)
}

func TestOAuthCompleteStateIsSingleUse(t *testing.T) {
	provider := &fakeOAuthProvider{platform: models.PlatformLinkedIn}
	svc := newTestOAuthService(provider, &fakeAccountRepo{})

	_, err := svc.Start(context.Background(), 7, models.PlatformLinkedIn)
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), provider.lastState, "auth-code", "")
	require.NoError(t, err)

	// Replayed callback fails even with a valid code
	_, err = svc.Complete(context.Background(), provider.lastState, "auth-code", "")
	assert.ErrorIs(t, err, ErrStateInvalid)
}

func TestOAuthCompleteProviderDeniedConsumesState(t *testing.T) {
	provider := &fakeOAuthProvider{platform: models.PlatformTwitter}
	accountRepo := &fakeAccountRepo{}
	svc := newTestOAuthService(provider, accountRepo)

	_, err := svc.Start(context.Background(), 3, models.PlatformTwitter)
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), provider.lastState, "", "access_denied")
	assert.ErrorIs(t, err, ErrProviderDenied)
	assert.Empty(t, accountRepo.upserted)

	// The denial consumed the state; retrying the same token is rejected
	_, err = svc.Complete(context.Background(), provider.lastState, "late-code", "")
	assert.ErrorIs(t, err, ErrStateInvalid)
}

func TestOAuthCompleteMissingCode(t *testing.T) {
	provider := &fakeOAuthProvider{platform: models.PlatformPinterest}
	svc := newTestOAuthService(provider, &fakeAccountRepo{})

	_, err := svc.Start(context.Background(), 2, models.PlatformPinterest)
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), provider.lastState, "", "")
	assert.ErrorIs(t, err, ErrCodeMissing)
}

func TestOAuthCompleteExchangeFailure(t *testing.T) {
	provider := &fakeOAuthProvider{platform: models.PlatformLinkedIn, exchangeErr: errors.New("token endpoint unavailable")}
	accountRepo := &fakeAccountRepo{}
	svc := newTestOAuthService(provider, accountRepo)

	_, err := svc.Start(context.Background(), 4, models.PlatformLinkedIn)
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), provider.lastState, "auth-code", "")
	assert.ErrorIs(t, err, ErrExchangeFailed)
	assert.Empty(t, accountRepo.upserted)
}

func TestOAuthCompleteUnknownState(t *testing.T) {
	svc := newTestOAuthService(&fakeOAuthProvider{platform: models.PlatformLinkedIn}, &fakeAccountRepo{})

	_, err := svc.Complete(context.Background(), "forged-token", "code", "")
	assert.ErrorIs(t, err, ErrStateInvalid)
}
