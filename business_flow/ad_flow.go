package businessflow

import (
	"context"
	"fmt"

	"github.com/sepehrdad/Hydra-Marketing/app/dispatch"
	"github.com/sepehrdad/Hydra-Marketing/app/dto"
	"github.com/sepehrdad/Hydra-Marketing/app/platforms"
	"github.com/sepehrdad/Hydra-Marketing/app/services"
	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/repository"
	"gorm.io/gorm"
)

// AdFlow handles paid ad creation and queries. Ads go through the Meta
// marketing API using the customer's connected Facebook or Instagram account.
type AdFlow interface {
	Create(ctx context.Context, request *dto.CreateAdRequest, metadata *ClientMetadata) (*dto.CreateAdResponse, error)
	Get(ctx context.Context, request *dto.GetAdRequest) (*dto.AdDTO, error)
	List(ctx context.Context, request *dto.ListAdsRequest) (*dto.ListAdsResponse, error)
}

// AdFlowImpl implements the ad business flow
type AdFlowImpl struct {
	adRepo      repository.AdRepository
	accountRepo repository.SocialAccountRepository
	auditRepo   repository.AuditLogRepository
	adsClient   platforms.MetaAdsClient
	reconciler  services.Reconciler
	db          *gorm.DB
}

// NewAdFlow creates a new ad flow instance
func NewAdFlow(
	adRepo repository.AdRepository,
	accountRepo repository.SocialAccountRepository,
	auditRepo repository.AuditLogRepository,
	adsClient platforms.MetaAdsClient,
	reconciler services.Reconciler,
	db *gorm.DB,
) AdFlow {
	return &AdFlowImpl{
		adRepo:      adRepo,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		adsClient:   adsClient,
		reconciler:  reconciler,
		db:          db,
	}
}

// Create stores a new ad and pushes it to the marketing API right away.
// A provider rejection lands the ad in failed status with the reason
// recorded; the row itself is always kept.
func (af *AdFlowImpl) Create(ctx context.Context, request *dto.CreateAdRequest, metadata *ClientMetadata) (*dto.CreateAdResponse, error) {
	if err := af.validateCreateRequest(request); err != nil {
		return nil, NewBusinessError("AD_VALIDATION_FAILED", "Ad validation failed", err)
	}

	platform := models.Platform(request.Platform)

	account, err := af.accountRepo.ByCustomerAndPlatform(ctx, request.CustomerID, platform)
	if err != nil {
		return nil, NewBusinessError("AD_VALIDATION_FAILED", "Ad validation failed", err)
	}
	if account == nil || !account.IsConnected() {
		return nil, NewBusinessError("AD_VALIDATION_FAILED", "Ad validation failed", ErrAccountNotConnected)
	}

	ad := &models.Ad{
		CustomerID:      request.CustomerID,
		SocialAccountID: account.ID,
		Platform:        platform,
		Name:            request.Name,
		CreativeText:    request.CreativeText,
		ImageURL:        request.ImageURL,
		LinkURL:         request.LinkURL,
		DailyBudget:     request.DailyBudget,
		Status:          models.AdStatusDraft,
	}

	err = repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		return af.adRepo.Save(ctx, ad)
	})
	if err != nil {
		return nil, NewBusinessError("AD_CREATE_FAILED", "Ad creation failed", err)
	}

	msg := fmt.Sprintf("Ad created: %s on %s", ad.UUID, ad.Platform)
	_ = logAudit(ctx, af.auditRepo, &ad.CustomerID, models.AuditActionAdCreated, msg, true, nil, metadata)

	creative := platforms.AdCreative{
		Name:         ad.Name,
		CreativeText: ad.CreativeText,
		DailyBudget:  ad.DailyBudget,
	}
	if ad.ImageURL != nil {
		creative.ImageURL = *ad.ImageURL
	}
	if ad.LinkURL != nil {
		creative.LinkURL = *ad.LinkURL
	}

	cred := platforms.CredentialFromAccount(account)

	outcome := dispatch.Single(ctx, string(ad.Platform)+"_ads", account.AccountID, func(ctx context.Context, _ string) dispatch.Outcome {
		result := af.adsClient.CreateAd(ctx, cred, creative)
		return dispatch.Outcome{
			Success:    result.Success,
			Reason:     result.Reason,
			ExternalID: result.ExternalID,
		}
	})

	result := platforms.PublishResult{
		Success:    outcome.Success,
		ExternalID: outcome.ExternalID,
		Reason:     outcome.Reason,
	}
	if err := af.reconciler.ReconcileAd(ctx, ad, result); err != nil {
		return nil, NewBusinessError("AD_PUBLISH_FAILED", "Ad publishing failed", err)
	}

	if outcome.Success {
		desc := fmt.Sprintf("Ad published: %s on %s", ad.UUID, ad.Platform)
		_ = logAudit(ctx, af.auditRepo, &ad.CustomerID, models.AuditActionAdPublished, desc, true, nil, metadata)
	} else {
		errMsg := fmt.Sprintf("Ad publish failed: %s on %s: %s", ad.UUID, ad.Platform, outcome.Reason)
		_ = logAudit(ctx, af.auditRepo, &ad.CustomerID, models.AuditActionAdPublished, errMsg, false, &errMsg, metadata)
	}

	return &dto.CreateAdResponse{
		Ad: ToAdDTO(ad),
	}, nil
}

// Get fetches one ad owned by the customer
func (af *AdFlowImpl) Get(ctx context.Context, request *dto.GetAdRequest) (*dto.AdDTO, error) {
	ad, err := af.adRepo.ByUUID(ctx, request.UUID)
	if err != nil {
		return nil, NewBusinessError("AD_GET_FAILED", "Ad lookup failed", err)
	}
	if ad == nil {
		return nil, NewBusinessError("AD_NOT_FOUND", "Ad not found", ErrAdNotFound)
	}
	if ad.CustomerID != request.CustomerID {
		return nil, NewBusinessError("AD_ACCESS_DENIED", "Ad access denied", ErrAdAccessDenied)
	}

	result := ToAdDTO(ad)
	return &result, nil
}

// List returns the customer's ads, newest first
func (af *AdFlowImpl) List(ctx context.Context, request *dto.ListAdsRequest) (*dto.ListAdsResponse, error) {
	limit, offset, err := NormalizePagination(request.Page, request.PageSize)
	if err != nil {
		return nil, NewBusinessError("AD_LIST_VALIDATION_FAILED", "Ad listing validation failed", err)
	}

	filter := models.AdFilter{
		CustomerID: &request.CustomerID,
	}
	if request.Platform != "" {
		platform := models.Platform(request.Platform)
		filter.Platform = &platform
	}
	if request.Status != "" {
		status := models.AdStatus(request.Status)
		filter.Status = &status
	}

	ads, err := af.adRepo.ByFilter(ctx, filter, "created_at DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("AD_LIST_FAILED", "Ad listing failed", err)
	}

	total, err := af.adRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("AD_LIST_FAILED", "Ad listing failed", err)
	}

	items := make([]dto.AdDTO, 0, len(ads))
	for _, ad := range ads {
		items = append(items, ToAdDTO(ad))
	}

	return &dto.ListAdsResponse{
		Ads:      items,
		Total:    total,
		Page:     request.Page,
		PageSize: request.PageSize,
	}, nil
}

// ToAdDTO converts an ad model to its response representation
func ToAdDTO(ad *models.Ad) dto.AdDTO {
	return dto.AdDTO{
		UUID:         ad.UUID.String(),
		Platform:     string(ad.Platform),
		Name:         ad.Name,
		CreativeText: ad.CreativeText,
		ImageURL:     ad.ImageURL,
		LinkURL:      ad.LinkURL,
		DailyBudget:  ad.DailyBudget,
		Status:       ad.Status.String(),
		ExternalAdID: ad.ExternalAdID,
		ErrorMessage: ad.ErrorMessage,
		CreatedAt:    ad.CreatedAt,
		UpdatedAt:    ad.UpdatedAt,
	}
}

func (af *AdFlowImpl) validateCreateRequest(request *dto.CreateAdRequest) error {
	platform := models.Platform(request.Platform)
	if platform != models.PlatformFacebook && platform != models.PlatformInstagram {
		return ErrUnsupportedPlatform
	}
	if request.Name == "" {
		return ErrCampaignNameRequired
	}
	if request.CreativeText == "" {
		return ErrCaptionOrMediaRequired
	}

	return nil
}
