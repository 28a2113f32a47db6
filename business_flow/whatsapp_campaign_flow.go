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

// WhatsAppCampaignFlow handles WhatsApp campaign creation, dispatch, and queries
type WhatsAppCampaignFlow interface {
	Create(ctx context.Context, request *dto.CreateWhatsAppCampaignRequest, metadata *ClientMetadata) (*dto.CreateWhatsAppCampaignResponse, error)
	Get(ctx context.Context, request *dto.GetWhatsAppCampaignRequest) (*dto.WhatsAppCampaignDTO, error)
	List(ctx context.Context, request *dto.ListWhatsAppCampaignsRequest) (*dto.ListWhatsAppCampaignsResponse, error)
	Dispatch(ctx context.Context, campaign *models.WhatsAppCampaign, metadata *ClientMetadata) (*dispatch.Summary, error)
}

// WhatsAppCampaignFlowImpl implements the WhatsApp campaign business flow
type WhatsAppCampaignFlowImpl struct {
	campaignRepo repository.WhatsAppCampaignRepository
	auditRepo    repository.AuditLogRepository
	sender       platforms.WhatsAppSender
	reconciler   services.Reconciler
	db           *gorm.DB
}

// NewWhatsAppCampaignFlow creates a new WhatsApp campaign flow instance
func NewWhatsAppCampaignFlow(
	campaignRepo repository.WhatsAppCampaignRepository,
	auditRepo repository.AuditLogRepository,
	sender platforms.WhatsAppSender,
	reconciler services.Reconciler,
	db *gorm.DB,
) WhatsAppCampaignFlow {
	return &WhatsAppCampaignFlowImpl{
		campaignRepo: campaignRepo,
		auditRepo:    auditRepo,
		sender:       sender,
		reconciler:   reconciler,
		db:           db,
	}
}

// Create stores a new campaign and, for immediate campaigns, dispatches it
// right away. The row is committed before any provider is contacted so a
// crash mid-dispatch never loses the campaign.
func (wf *WhatsAppCampaignFlowImpl) Create(ctx context.Context, request *dto.CreateWhatsAppCampaignRequest, metadata *ClientMetadata) (*dto.CreateWhatsAppCampaignResponse, error) {
	if err := wf.validateCreateRequest(request); err != nil {
		return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", err)
	}

	campaign := &models.WhatsAppCampaign{
		CustomerID:   request.CustomerID,
		Name:         request.Name,
		MessageType:  models.WhatsAppMessageType(request.MessageType),
		TemplateName: request.TemplateName,
		MessageBody:  request.MessageBody,
		MediaURL:     request.MediaURL,
		Recipients:   request.Recipients,
		ScheduleType: models.ScheduleType(request.ScheduleType),
		ScheduledAt:  utils.TimeToUTCPtr(request.ScheduledAt),
		Status:       models.WhatsAppCampaignStatusDraft,
	}
	if campaign.ScheduleType == models.ScheduleTypeScheduled {
		campaign.Status = models.WhatsAppCampaignStatusScheduled
	}

	err := repository.WithTransaction(ctx, wf.db, func(ctx context.Context) error {
		return wf.campaignRepo.Save(ctx, campaign)
	})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_CREATE_FAILED", "Campaign creation failed", err)
	}

	msg := fmt.Sprintf("WhatsApp campaign created: %s", campaign.UUID)
	_ = logAudit(ctx, wf.auditRepo, &campaign.CustomerID, models.AuditActionCampaignCreated, msg, true, nil, metadata)

	resp := &dto.CreateWhatsAppCampaignResponse{
		Campaign: ToWhatsAppCampaignDTO(campaign),
	}

	if campaign.ScheduleType == models.ScheduleTypeImmediate {
		summary, err := wf.Dispatch(ctx, campaign, metadata)
		if err != nil {
			if errors.Is(err, dispatch.ErrNoValidTargets) {
				return nil, NewBusinessError("CAMPAIGN_DISPATCH_FAILED", "Campaign dispatch failed", ErrNoValidRecipients)
			}
			return nil, NewBusinessError("CAMPAIGN_DISPATCH_FAILED", "Campaign dispatch failed", err)
		}

		resp.Campaign = ToWhatsAppCampaignDTO(campaign)
		resp.Dispatch = ToDispatchSummaryDTO(summary)
	}

	return resp, nil
}

// Dispatch fans the campaign out to its recipients and reconciles the
// resulting tallies onto the stored row. The scheduler uses this entry
// point for due campaigns.
func (wf *WhatsAppCampaignFlowImpl) Dispatch(ctx context.Context, campaign *models.WhatsAppCampaign, metadata *ClientMetadata) (*dispatch.Summary, error) {
	msg := platforms.WhatsAppMessage{
		MessageType: campaign.MessageType,
	}
	if campaign.TemplateName != nil {
		msg.TemplateName = *campaign.TemplateName
	}
	if campaign.MessageBody != nil {
		msg.Body = *campaign.MessageBody
	}
	if campaign.MediaURL != nil {
		msg.MediaURL = *campaign.MediaURL
	}

	summary, err := dispatch.Bulk(ctx, "whatsapp", campaign.Recipients, wf.sender.ValidRecipient, func(ctx context.Context, recipient string) dispatch.Outcome {
		result := wf.sender.SendMessage(ctx, recipient, msg)
		return dispatch.Outcome{
			Success:    result.Success,
			Reason:     result.Reason,
			ExternalID: result.ExternalID,
		}
	})
	if err != nil {
		errMsg := fmt.Sprintf("WhatsApp campaign dispatch failed: %s", err.Error())
		_ = logAudit(ctx, wf.auditRepo, &campaign.CustomerID, models.AuditActionCampaignDispatched, errMsg, false, &errMsg, metadata)
		return nil, err
	}

	if err := wf.reconciler.ReconcileWhatsAppCampaign(ctx, campaign, summary); err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("WhatsApp campaign dispatched: %s (%d delivered, %d failed)", campaign.UUID, summary.Successful, summary.Failed)
	_ = logAudit(ctx, wf.auditRepo, &campaign.CustomerID, models.AuditActionCampaignDispatched, desc, summary.Successful > 0, nil, metadata)

	return summary, nil
}

// Get fetches one campaign owned by the customer
func (wf *WhatsAppCampaignFlowImpl) Get(ctx context.Context, request *dto.GetWhatsAppCampaignRequest) (*dto.WhatsAppCampaignDTO, error) {
	campaign, err := wf.campaignRepo.ByUUID(ctx, request.UUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_GET_FAILED", "Campaign lookup failed", err)
	}
	if campaign == nil {
		return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
	}
	if campaign.CustomerID != request.CustomerID {
		return nil, NewBusinessError("CAMPAIGN_ACCESS_DENIED", "Campaign access denied", ErrCampaignAccessDenied)
	}

	result := ToWhatsAppCampaignDTO(campaign)
	return &result, nil
}

// List returns the customer's campaigns, newest first
func (wf *WhatsAppCampaignFlowImpl) List(ctx context.Context, request *dto.ListWhatsAppCampaignsRequest) (*dto.ListWhatsAppCampaignsResponse, error) {
	limit, offset, err := NormalizePagination(request.Page, request.PageSize)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_VALIDATION_FAILED", "Campaign listing validation failed", err)
	}

	filter := models.WhatsAppCampaignFilter{
		CustomerID: &request.CustomerID,
	}
	if request.Status != "" {
		status := models.WhatsAppCampaignStatus(request.Status)
		filter.Status = &status
	}

	campaigns, err := wf.campaignRepo.ByFilter(ctx, filter, "created_at DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Campaign listing failed", err)
	}

	total, err := wf.campaignRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Campaign listing failed", err)
	}

	items := make([]dto.WhatsAppCampaignDTO, 0, len(campaigns))
	for _, campaign := range campaigns {
		items = append(items, ToWhatsAppCampaignDTO(campaign))
	}

	return &dto.ListWhatsAppCampaignsResponse{
		Campaigns: items,
		Total:     total,
		Page:      request.Page,
		PageSize:  request.PageSize,
	}, nil
}

// ToWhatsAppCampaignDTO converts a campaign model to its response representation
func ToWhatsAppCampaignDTO(campaign *models.WhatsAppCampaign) dto.WhatsAppCampaignDTO {
	return dto.WhatsAppCampaignDTO{
		UUID:            campaign.UUID.String(),
		Name:            campaign.Name,
		MessageType:     string(campaign.MessageType),
		TemplateName:    campaign.TemplateName,
		MessageBody:     campaign.MessageBody,
		MediaURL:        campaign.MediaURL,
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

// ToDispatchSummaryDTO converts a fan-out summary to its response representation
func ToDispatchSummaryDTO(summary *dispatch.Summary) *dto.DispatchSummaryDTO {
	out := &dto.DispatchSummaryDTO{
		Total:     summary.Total,
		Delivered: summary.Successful,
		Failed:    summary.Failed,
		Skipped:   summary.Skipped,
	}

	for _, detail := range summary.Details {
		out.Recipients = append(out.Recipients, dto.RecipientOutcomeDTO{
			Recipient: detail.Target,
			Success:   detail.Success,
			Reason:    detail.Reason,
		})
	}

	return out
}

func (wf *WhatsAppCampaignFlowImpl) validateCreateRequest(request *dto.CreateWhatsAppCampaignRequest) error {
	if request.Name == "" {
		return ErrCampaignNameRequired
	}
	if len(request.Recipients) == 0 {
		return ErrRecipientsRequired
	}

	switch models.WhatsAppMessageType(request.MessageType) {
	case models.WhatsAppMessageTypeTemplate:
		if request.TemplateName == nil || *request.TemplateName == "" {
			return ErrTemplateNameRequired
		}
	case models.WhatsAppMessageTypeText:
		if request.MessageBody == nil || *request.MessageBody == "" {
			return ErrMessageBodyRequired
		}
	default:
		return fmt.Errorf("invalid message type: %s", request.MessageType)
	}

	return validateSchedule(models.ScheduleType(request.ScheduleType), request.ScheduledAt)
}
