package businessflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/sepehrdad/Hydra-Marketing/app/dto"
	"github.com/sepehrdad/Hydra-Marketing/app/services"
	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/repository"
	"github.com/sepehrdad/Hydra-Marketing/utils"
)

// ConnectFlow handles connecting, listing, and disconnecting platform accounts
type ConnectFlow interface {
	Start(ctx context.Context, request *dto.StartConnectRequest, metadata *ClientMetadata) (*dto.StartConnectResponse, error)
	Complete(ctx context.Context, request *dto.CompleteConnectRequest, metadata *ClientMetadata) (*dto.SocialAccountDTO, error)
	ListAccounts(ctx context.Context, customerID uint) (*dto.ListSocialAccountsResponse, error)
	Disconnect(ctx context.Context, request *dto.DisconnectAccountRequest, metadata *ClientMetadata) error
}

// ConnectFlowImpl implements the connect business flow
type ConnectFlowImpl struct {
	oauthService services.OAuthService
	accountRepo  repository.SocialAccountRepository
	auditRepo    repository.AuditLogRepository
}

// NewConnectFlow creates a new connect flow instance
func NewConnectFlow(
	oauthService services.OAuthService,
	accountRepo repository.SocialAccountRepository,
	auditRepo repository.AuditLogRepository,
) ConnectFlow {
	return &ConnectFlowImpl{
		oauthService: oauthService,
		accountRepo:  accountRepo,
		auditRepo:    auditRepo,
	}
}

// Start begins the authorization flow for one platform and returns the
// provider URL to redirect the customer to
func (cf *ConnectFlowImpl) Start(ctx context.Context, request *dto.StartConnectRequest, metadata *ClientMetadata) (*dto.StartConnectResponse, error) {
	platform := models.Platform(request.Platform)
	if !platform.Valid() {
		return nil, NewBusinessError("CONNECT_VALIDATION_FAILED", "Connect validation failed", ErrUnsupportedPlatform)
	}

	authorizeURL, err := cf.oauthService.Start(ctx, request.CustomerID, platform)
	if err != nil {
		if errors.Is(err, services.ErrPlatformUnsupported) {
			return nil, NewBusinessError("CONNECT_VALIDATION_FAILED", "Connect validation failed", ErrUnsupportedPlatform)
		}
		return nil, NewBusinessError("CONNECT_START_FAILED", "Connect start failed", err)
	}

	msg := fmt.Sprintf("Connect started for platform: %s", platform)
	_ = logAudit(ctx, cf.auditRepo, &request.CustomerID, models.AuditActionConnectStarted, msg, true, nil, metadata)

	return &dto.StartConnectResponse{
		AuthorizeURL: authorizeURL,
	}, nil
}

// Complete consumes the provider callback and stores the credential. The
// handler serves this on an unauthenticated route; the customer identity
// comes from the state token, never from the request.
func (cf *ConnectFlowImpl) Complete(ctx context.Context, request *dto.CompleteConnectRequest, metadata *ClientMetadata) (*dto.SocialAccountDTO, error) {
	account, err := cf.oauthService.Complete(ctx, request.State, request.Code, request.Error)
	if err != nil {
		mapped := mapOAuthError(err)
		errMsg := fmt.Sprintf("Connect failed: %s", err.Error())
		_ = logAudit(ctx, cf.auditRepo, nil, models.AuditActionConnectFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("CONNECT_FAILED", "Connect failed", mapped)
	}

	msg := fmt.Sprintf("Account connected: %s on %s", account.AccountID, account.Platform)
	_ = logAudit(ctx, cf.auditRepo, &account.CustomerID, models.AuditActionAccountConnected, msg, true, nil, metadata)

	result := ToSocialAccountDTO(account)
	return &result, nil
}

// ListAccounts returns all accounts the customer has connected
func (cf *ConnectFlowImpl) ListAccounts(ctx context.Context, customerID uint) (*dto.ListSocialAccountsResponse, error) {
	accounts, err := cf.accountRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, NewBusinessError("ACCOUNT_LIST_FAILED", "Account listing failed", err)
	}

	items := make([]dto.SocialAccountDTO, 0, len(accounts))
	for _, account := range accounts {
		items = append(items, ToSocialAccountDTO(account))
	}

	return &dto.ListSocialAccountsResponse{
		Accounts: items,
	}, nil
}

// Disconnect deactivates the customer's account on a platform. The stored
// row is kept for history; reconnecting replaces the tokens in place.
func (cf *ConnectFlowImpl) Disconnect(ctx context.Context, request *dto.DisconnectAccountRequest, metadata *ClientMetadata) error {
	platform := models.Platform(request.Platform)
	if !platform.Valid() {
		return NewBusinessError("DISCONNECT_VALIDATION_FAILED", "Disconnect validation failed", ErrUnsupportedPlatform)
	}

	account, err := cf.accountRepo.ByCustomerAndPlatform(ctx, request.CustomerID, platform)
	if err != nil {
		return NewBusinessError("DISCONNECT_FAILED", "Disconnect failed", err)
	}
	if account == nil {
		return NewBusinessError("ACCOUNT_NOT_FOUND", "Account not found", ErrAccountNotFound)
	}

	if err := cf.accountRepo.Deactivate(ctx, account.ID); err != nil {
		return NewBusinessError("DISCONNECT_FAILED", "Disconnect failed", err)
	}

	msg := fmt.Sprintf("Account disconnected: %s on %s", account.AccountID, account.Platform)
	_ = logAudit(ctx, cf.auditRepo, &request.CustomerID, models.AuditActionAccountDisconnected, msg, true, nil, metadata)

	return nil
}

// ToSocialAccountDTO converts an account model to its response
// representation. Token material never crosses this boundary.
func ToSocialAccountDTO(account *models.SocialAccount) dto.SocialAccountDTO {
	return dto.SocialAccountDTO{
		UUID:           account.UUID.String(),
		Platform:       string(account.Platform),
		AccountID:      account.AccountID,
		AccountName:    account.AccountName,
		IsActive:       utils.IsTrue(account.IsActive),
		TokenExpiresAt: account.TokenExpiresAt,
		CreatedAt:      account.CreatedAt,
	}
}

// mapOAuthError translates service-level OAuth failures into business errors
func mapOAuthError(err error) error {
	switch {
	case errors.Is(err, services.ErrStateInvalid):
		return ErrOAuthStateInvalid
	case errors.Is(err, services.ErrProviderDenied):
		return ErrOAuthAccessDenied
	case errors.Is(err, services.ErrCodeMissing):
		return ErrOAuthCodeMissing
	case errors.Is(err, services.ErrExchangeFailed):
		return ErrOAuthExchangeFailed
	case errors.Is(err, services.ErrPlatformUnsupported):
		return ErrUnsupportedPlatform
	default:
		return err
	}
}
