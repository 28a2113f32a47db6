package services

import (
	"context"
	"testing"

	"github.com/sepehrdad/Hydra-Marketing/app/dispatch"
	"github.com/sepehrdad/Hydra-Marketing/app/platforms"
	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWhatsAppRepo struct {
	repository.WhatsAppCampaignRepository
	calls []whatsAppUpdate
}

type whatsAppUpdate struct {
	id        uint
	status    models.WhatsAppCampaignStatus
	total     int
	delivered int
	failed    int
}

func (f *fakeWhatsAppRepo) UpdateDispatchResult(_ context.Context, id uint, status models.WhatsAppCampaignStatus, total, delivered, failed int) error {
	f.calls = append(f.calls, whatsAppUpdate{id, status, total, delivered, failed})
	return nil
}

type fakePostRepo struct {
	repository.SocialPostRepository
	lastStatus models.SocialPostStatus
	lastExtID  *string
	lastErrMsg *string
}

func (f *fakePostRepo) UpdatePublishResult(_ context.Context, _ uint, status models.SocialPostStatus, externalPostID, errorMessage *string) error {
	f.lastStatus = status
	f.lastExtID = externalPostID
	f.lastErrMsg = errorMessage
	return nil
}

func TestReconcileWhatsAppCampaignPartialSuccess(t *testing.T) {
	repo := &fakeWhatsAppRepo{}
	r := NewReconciler(repo, nil, nil, nil)

	campaign := &models.WhatsAppCampaign{ID: 11, Status: models.WhatsAppCampaignStatusDraft}
	summary := &dispatch.Summary{Total: 3, Successful: 2, Failed: 1}

	require.NoError(t, r.ReconcileWhatsAppCampaign(context.Background(), campaign, summary))

	require.Len(t, repo.calls, 1)
	assert.Equal(t, models.WhatsAppCampaignStatusSent, repo.calls[0].status)
	assert.Equal(t, 3, repo.calls[0].total)
	assert.Equal(t, 2, repo.calls[0].delivered)
	assert.Equal(t, 1, repo.calls[0].failed)

	assert.Equal(t, models.WhatsAppCampaignStatusSent, campaign.Status)
	assert.Equal(t, 3, campaign.TotalRecipients)
	assert.Equal(t, 2, campaign.DeliveredCount)
	assert.Equal(t, 1, campaign.FailedCount)
}

func TestReconcileWhatsAppCampaignAllFailedFallsBackToDraft(t *testing.T) {
	repo := &fakeWhatsAppRepo{}
	r := NewReconciler(repo, nil, nil, nil)

	campaign := &models.WhatsAppCampaign{ID: 12, Status: models.WhatsAppCampaignStatusScheduled}
	summary := &dispatch.Summary{Total: 2, Successful: 0, Failed: 2}

	require.NoError(t, r.ReconcileWhatsAppCampaign(context.Background(), campaign, summary))

	require.Len(t, repo.calls, 1)
	assert.Equal(t, models.WhatsAppCampaignStatusDraft, repo.calls[0].status)
	assert.Equal(t, models.WhatsAppCampaignStatusDraft, campaign.Status)
}

func TestReconcileWhatsAppCampaignIsIdempotent(t *testing.T) {
	repo := &fakeWhatsAppRepo{}
	r := NewReconciler(repo, nil, nil, nil)

	campaign := &models.WhatsAppCampaign{ID: 13}
	summary := &dispatch.Summary{Total: 5, Successful: 4, Failed: 1}

	require.NoError(t, r.ReconcileWhatsAppCampaign(context.Background(), campaign, summary))
	require.NoError(t, r.ReconcileWhatsAppCampaign(context.Background(), campaign, summary))

	require.Len(t, repo.calls, 2)
	assert.Equal(t, repo.calls[0], repo.calls[1], "replaying the same outcome must write the same absolute values")
}

func TestReconcilePostSuccess(t *testing.T) {
	repo := &fakePostRepo{}
	r := NewReconciler(nil, nil, repo, nil)

	post := &models.SocialPost{ID: 21, Status: models.SocialPostStatusDraft}
	result := platforms.PublishResult{Success: true, ExternalID: "ext-99"}

	require.NoError(t, r.ReconcilePost(context.Background(), post, result))

	assert.Equal(t, models.SocialPostStatusPublished, post.Status)
	require.NotNil(t, post.ExternalPostID)
	assert.Equal(t, "ext-99", *post.ExternalPostID)
	assert.Nil(t, post.ErrorMessage)
}

func TestReconcilePostFailure(t *testing.T) {
	repo := &fakePostRepo{}
	r := NewReconciler(nil, nil, repo, nil)

	post := &models.SocialPost{ID: 22, Status: models.SocialPostStatusDraft}
	result := platforms.PublishResult{Success: false, Reason: "token expired"}

	require.NoError(t, r.ReconcilePost(context.Background(), post, result))

	assert.Equal(t, models.SocialPostStatusFailed, post.Status)
	assert.Nil(t, post.ExternalPostID)
	require.NotNil(t, post.ErrorMessage)
	assert.Equal(t, "token expired", *post.ErrorMessage)
}
