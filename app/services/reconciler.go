package services

import (
	"context"
	"fmt"

	"github.com/sepehrdad/Hydra-Marketing/app/dispatch"
	"github.com/sepehrdad/Hydra-Marketing/app/platforms"
	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/repository"
	"github.com/sepehrdad/Hydra-Marketing/utils"
)

// Reconciler maps dispatch outcomes back onto stored entity status. Every
// write is an absolute value derived from the outcome, so replaying the same
// outcome converges on the same row.
type Reconciler interface {
	ReconcileWhatsAppCampaign(ctx context.Context, campaign *models.WhatsAppCampaign, summary *dispatch.Summary) error
	ReconcileEmailCampaign(ctx context.Context, campaign *models.EmailCampaign, summary *dispatch.Summary) error
	ReconcilePost(ctx context.Context, post *models.SocialPost, result platforms.PublishResult) error
	ReconcileAd(ctx context.Context, ad *models.Ad, result platforms.PublishResult) error
}

// ReconcilerImpl implements Reconciler on top of the repositories
type ReconcilerImpl struct {
	whatsappRepo repository.WhatsAppCampaignRepository
	emailRepo    repository.EmailCampaignRepository
	postRepo     repository.SocialPostRepository
	adRepo       repository.AdRepository
}

// NewReconciler creates a new status reconciler
func NewReconciler(
	whatsappRepo repository.WhatsAppCampaignRepository,
	emailRepo repository.EmailCampaignRepository,
	postRepo repository.SocialPostRepository,
	adRepo repository.AdRepository,
) *ReconcilerImpl {
	return &ReconcilerImpl{
		whatsappRepo: whatsappRepo,
		emailRepo:    emailRepo,
		postRepo:     postRepo,
		adRepo:       adRepo,
	}
}

// ReconcileWhatsAppCampaign writes the dispatch tallies onto the campaign.
// A campaign with at least one delivered recipient is sent; a campaign where
// every recipient failed falls back to draft so it can be fixed and retried.
func (r *ReconcilerImpl) ReconcileWhatsAppCampaign(ctx context.Context, campaign *models.WhatsAppCampaign, summary *dispatch.Summary) error {
	status := models.WhatsAppCampaignStatusSent
	if summary.Successful == 0 {
		status = models.WhatsAppCampaignStatusDraft
	}

	if err := r.whatsappRepo.UpdateDispatchResult(ctx, campaign.ID, status, summary.Total, summary.Successful, summary.Failed); err != nil {
		return fmt.Errorf("failed to reconcile whatsapp campaign %d: %w", campaign.ID, err)
	}

	campaign.Status = status
	campaign.TotalRecipients = summary.Total
	campaign.DeliveredCount = summary.Successful
	campaign.FailedCount = summary.Failed

	return nil
}

// ReconcileEmailCampaign mirrors ReconcileWhatsAppCampaign for email
func (r *ReconcilerImpl) ReconcileEmailCampaign(ctx context.Context, campaign *models.EmailCampaign, summary *dispatch.Summary) error {
	status := models.EmailCampaignStatusSent
	if summary.Successful == 0 {
		status = models.EmailCampaignStatusDraft
	}

	if err := r.emailRepo.UpdateDispatchResult(ctx, campaign.ID, status, summary.Total, summary.Successful, summary.Failed); err != nil {
		return fmt.Errorf("failed to reconcile email campaign %d: %w", campaign.ID, err)
	}

	campaign.Status = status
	campaign.TotalRecipients = summary.Total
	campaign.DeliveredCount = summary.Successful
	campaign.FailedCount = summary.Failed

	return nil
}

// ReconcilePost records a publish outcome on the post: published with the
// external id on success, failed with the reason otherwise.
func (r *ReconcilerImpl) ReconcilePost(ctx context.Context, post *models.SocialPost, result platforms.PublishResult) error {
	var status models.SocialPostStatus
	var externalID, errorMessage *string

	if result.Success {
		status = models.SocialPostStatusPublished
		externalID = utils.ToPtr(result.ExternalID)
	} else {
		status = models.SocialPostStatusFailed
		errorMessage = utils.ToPtr(result.Reason)
	}

	if err := r.postRepo.UpdatePublishResult(ctx, post.ID, status, externalID, errorMessage); err != nil {
		return fmt.Errorf("failed to reconcile post %d: %w", post.ID, err)
	}

	post.Status = status
	post.ExternalPostID = externalID
	post.ErrorMessage = errorMessage

	return nil
}

// ReconcileAd records a publish outcome on the ad
func (r *ReconcilerImpl) ReconcileAd(ctx context.Context, ad *models.Ad, result platforms.PublishResult) error {
	var status models.AdStatus
	var externalID, errorMessage *string

	if result.Success {
		status = models.AdStatusPublished
		externalID = utils.ToPtr(result.ExternalID)
	} else {
		status = models.AdStatusFailed
		errorMessage = utils.ToPtr(result.Reason)
	}

	if err := r.adRepo.UpdatePublishResult(ctx, ad.ID, status, externalID, errorMessage); err != nil {
		return fmt.Errorf("failed to reconcile ad %d: %w", ad.ID, err)
	}

	ad.Status = status
	ad.ExternalAdID = externalID
	ad.ErrorMessage = errorMessage

	return nil
}
