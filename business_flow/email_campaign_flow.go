package businessflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/sepehrdad/Hydra-Marketing/app/dispatch"
	"github.com/sepehrdad/Hydra-Marketing/app/dto"
	"github.com/sepehrdad/Hydra-Marketing/app/platforms"
	"github.com/sepehrdad/Hydra-Marketing/app/services"
	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/repository"
	"github.com/sepehrdad/Hydra-Marketing/utils"
	"gorm.io/gorm"
)

// EmailCampaignFlow handles email campaign creation, dispatch, and queries
type EmailCampaignFlow interface {
	Create(ctx context.Context, request *dto.CreateEmailCampaignRequest, metadata *ClientMetadata) (*dto.CreateEmailCampaignResponse, error)
	Get(ctx context.Context, request *dto.GetEmailCampaignRequest) (*dto.EmailCampaignDTO, error)
	List(ctx context.Context, request *dto.ListEmailCampaignsRequest) (*dto.ListEmailCampaignsResponse, error)
	Dispatch(ctx context.Context, campaign *models.EmailCampaign, metadata *ClientMetadata) (*dispatch.Summary, error)
}

// EmailCampaignFlowImpl implements the email campaign business flow
type EmailCampaignFlowImpl struct {
	campaignRepo repository.EmailCampaignRepository
	auditRepo    repository.AuditLogRepository
	sender       platforms.EmailSender
	reconciler   services.Reconciler
	db           *gorm.DB
}

// NewEmailCampaignFlow creates a new email campaign flow instance
func NewEmailCampaignFlow(
	campaignRepo repository.EmailCampaignRepository,
	auditRepo repository.AuditLogRepository,
	sender platforms.EmailSender,
	reconciler services.Reconciler,
	db *gorm.DB,
) EmailCampaignFlow {
	return &EmailCampaignFlowImpl{
		campaignRepo: campaignRepo,
		auditRepo:    auditRepo,
		sender:       sender,
		reconciler:   reconciler,
		db:           db,
	}
}

// Create stores a new campaign and, for immediate campaigns, dispatches it
// right away
func (ef *EmailCampaignFlowImpl) Create(ctx context.Context, request *dto.CreateEmailCampaignRequest, metadata *ClientMetadata) (*dto.CreateEmailCampaignResponse, error) {
	if err := ef.validateCreateRequest(request); err != nil {
		return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", err)
	}

	campaign := &models.EmailCampaign{
		CustomerID:   request.CustomerID,
		Name:         request.Name,
		Subject:      request.Subject,
		HTMLBody:     request.HTMLBody,
		Recipients:   request.Recipients,
		ScheduleType: models.ScheduleType(request.ScheduleType),
		ScheduledAt:  utils.TimeToUTCPtr(request.ScheduledAt),
		Status:       models.EmailCampaignStatusDraft,
	}
	if campaign.ScheduleType == models.ScheduleTypeScheduled {
		campaign.Status = models.EmailCampaignStatusScheduled
	}

	err := repository.WithTransaction(ctx, ef.db, func(ctx context.Context) error {
		return ef.campaignRepo.Save(ctx, campaign)
	})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_CREATE_FAILED", "Campaign creation failed", err)
	}

	msg := fmt.Sprintf("Email campaign created: %s", campaign.UUID)
	_ = logAudit(ctx, ef.auditRepo, &campaign.CustomerID, models.AuditActionCampaignCreated, msg, true, nil, metadata)

	resp := &dto.CreateEmailCampaignResponse{
		Campaign: ToEmailCampaignDTO(campaign),
	}

	if campaign.ScheduleType == models.ScheduleTypeImmediate {
		summary, err := ef.Dispatch(ctx, campaign, metadata)
		if err != nil {
			if errors.Is(err, dispatch.ErrNoValidTargets) {
				return nil, NewBusinessError("CAMPAIGN_DISPATCH_FAILED", "Campaign dispatch failed", ErrNoValidRecipients)
			}
			return nil, NewBusinessError("CAMPAIGN_DISPATCH_FAILED", "Campaign dispatch failed", err)
		}

		resp.Campaign = ToEmailCampaignDTO(campaign)
		resp.Dispatch = ToDispatchSummaryDTO(summary)
	}

	return resp, nil
}

// Dispatch fans the campaign out to its recipients and reconciles the
// resulting tallies onto the stored row
func (ef *EmailCampaignFlowImpl) Dispatch(ctx context.Context, campaign *models.EmailCampaign, metadata *ClientMetadata) (*dispatch.Summary, error) {
	summary, err := dispatch.Bulk(ctx, "email", campaign.Recipients, ef.sender.ValidRecipient, func(ctx context.Context, recipient string) dispatch.Outcome {
		result := ef.sender.SendEmail(ctx, recipient, campaign.Subject, campaign.HTMLBody)
		return dispatch.Outcome{
			Success:    result.Success,
			Reason:     result.Reason,
			ExternalID: result.ExternalID,
		}
	})
	if err != nil {
		errMsg := fmt.Sprintf("Email campaign dispatch failed: %s", err.Error())
		_ = logAudit(ctx, ef.auditRepo, &campaign.CustomerID, models.AuditActionCampaignDispatched, errMsg, false, &errMsg, metadata)
		return nil, err
	}

	if err := ef.reconciler.ReconcileEmailCampaign(ctx, campaign, summary); err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("Email campaign dispatched: %s (%d delivered, %d failed)", campaign.UUID, summary.Successful, summary.Failed)
	_ = logAudit(ctx, ef.auditRepo, &campaign.CustomerID, models.AuditActionCampaignDispatched, desc, summary.Successful > 0, nil, metadata)

	return summary, nil
}

// Get fetches one campaign owned by the customer
func (ef *EmailCampaignFlowImpl) Get(ctx context.Context, request *dto.GetEmailCampaignRequest) (*dto.EmailCampaignDTO, error) {
	campaign, err := ef.campaignRepo.ByUUID(ctx, request.UUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_GET_FAILED", "Campaign lookup failed", err)
	}
	if campaign == nil {
		return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
	}
	if campaign.CustomerID != request.CustomerID {
		return nil, NewBusinessError("CAMPAIGN_ACCESS_DENIED", "Campaign access denied", ErrCampaignAccessDenied)
	}

	result := ToEmailCampaignDTO(campaign)
	return &result, nil
}

// List returns the customer's campaigns, newest first
func (ef *EmailCampaignFlowImpl) List(ctx context.Context, request *dto.ListEmailCampaignsRequest) (*dto.ListEmailCampaignsResponse, error) {
	limit, offset, err := NormalizePagination(request.Page, request.PageSize)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_VALIDATION_FAILED", "Campaign listing validation failed", err)
	}

	filter := models.EmailCampaignFilter{
		CustomerID: &request.CustomerID,
	}
	if request.Status != "" {
		status := models.EmailCampaignStatus(request.Status)
		filter.Status = &status
	}

	campaigns, err := ef.campaignRepo.ByFilter(ctx, filter, "created_at DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Campaign listing failed", err)
	}

	total, err := ef.campaignRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Campaign listing failed", err)
	}

	items := make([]dto.EmailCampaignDTO, 0, len(campaigns))
	for _, campaign := range campaigns {
		items = append(items, ToEmailCampaignDTO(campaign))
	}

	return &dto.ListEmailCampaignsResponse{
		Campaigns: items,
		Total:     total,
		Page:      request.Page,
		PageSize:  request.PageSize,
	}, nil
}

// ToEmailCampaignDTO converts a campaign model to its response representation
func ToEmailCampaignDTO(campaign *models.EmailCampaign) dto.EmailCampaignDTO {
	return dto.EmailCampaignDTO{
		UUID:            campaign.UUID.String(),
		Name:            campaign.Name,
		Subject:         campaign.Subject,
		HTMLBody:        campaign.HTMLBody,
		Recipients:      campaign.Recipients,
		ScheduleType:    string(campaign.ScheduleType),
		ScheduledAt:     campaign.ScheduledAt,
		Status:          campaign.Status.String(),
		TotalRecipients: campaign.TotalRecipients,
		DeliveredCount:  campaign.DeliveredCount,
		FailedCount:     campaign.FailedCount,
		CreatedAt:       campaign.CreatedAt,
		UpdatedAt:       campaign.UpdatedAt,
	}
}

func (ef *EmailCampaignFlowImpl) validateCreateRequest(request *dto.CreateEmailCampaignRequest) error {
	if request.Name == "" {
		return ErrCampaignNameRequired
	}
	if request.Subject == "" {
		return ErrSubjectRequired
	}
	if request.HTMLBody == "" {
		return ErrHTMLBodyRequired
	}
	if len(request.Recipients) == 0 {
		return ErrRecipientsRequired
	}

	return validateSchedule(models.ScheduleType(request.ScheduleType), request.ScheduledAt)
}
