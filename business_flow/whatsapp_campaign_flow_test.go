package businessflow

import (
	"context"
	"testing"

	"github.com/sepehrdad/Hydra-Marketing/app/dispatch"
	"github.com/sepehrdad/Hydra-Marketing/app/platforms"
	"github.com/sepehrdad/Hydra-Marketing/app/services"
	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/repository"
	"github.com/sepehrdad/Hydra-Marketing/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWhatsAppSender struct {
	failFor map[string]string
	sent    []string
}

func (f *fakeWhatsAppSender) ValidRecipient(recipient string) bool {
	return recipient != "bogus"
}

func (f *fakeWhatsAppSender) SendMessage(_ context.Context, recipient string, _ platforms.WhatsAppMessage) platforms.PublishResult {
	f.sent = append(f.sent, recipient)
	if reason, ok := f.failFor[recipient]; ok {
		return platforms.PublishResult{Success: false, Reason: reason}
	}
	return platforms.PublishResult{Success: true, ExternalID: "wamid." + recipient}
}

type fakeReconciler struct {
	services.Reconciler
	campaigns []*models.WhatsAppCampaign
	summaries []*dispatch.Summary
}

func (f *fakeReconciler) ReconcileWhatsAppCampaign(_ context.Context, campaign *models.WhatsAppCampaign, summary *dispatch.Summary) error {
	f.campaigns = append(f.campaigns, campaign)
	f.summaries = append(f.summaries, summary)
	return nil
}

type fakeAuditRepo struct {
	repository.AuditLogRepository
	saved []*models.AuditLog
}

func (f *fakeAuditRepo) Save(_ context.Context, log *models.AuditLog) error {
	f.saved = append(f.saved, log)
	return nil
}

func TestWhatsAppDispatchPartialFailure(t *testing.T) {
	sender := &fakeWhatsAppSender{failFor: map[string]string{"+15550000002": "provider rejected"}}
	reconciler := &fakeReconciler{}
	auditRepo := &fakeAuditRepo{}

	flow := NewWhatsAppCampaignFlow(nil, auditRepo, sender, reconciler, nil)

	body := "hello"
	campaign := &models.WhatsAppCampaign{
		CustomerID:  5,
		MessageType: models.WhatsAppMessageTypeText,
		MessageBody: &body,
		Recipients:  []string{"+15550000001", "+15550000002", "bogus", "+15550000003"},
	}

	summary, err := flow.Dispatch(context.Background(), campaign, NewClientMetadata("127.0.0.1", "test"))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, []string{"bogus"}, summary.Skipped)
	assert.Equal(t, []string{"+15550000001", "+15550000002", "+15550000003"}, sender.sent)

	require.Len(t, reconciler.summaries, 1)
	assert.Same(t, summary, reconciler.summaries[0])
	assert.Same(t, campaign, reconciler.campaigns[0])

	require.Len(t, auditRepo.saved, 1)
	assert.Equal(t, models.AuditActionCampaignDispatched, auditRepo.saved[0].Action)
	require.NotNil(t, auditRepo.saved[0].Success)
	assert.True(t, *auditRepo.saved[0].Success)
}

func TestWhatsAppDispatchNoValidRecipients(t *testing.T) {
	sender := &fakeWhatsAppSender{}
	reconciler := &fakeReconciler{}
	auditRepo := &fakeAuditRepo{}

	flow := NewWhatsAppCampaignFlow(nil, auditRepo, sender, reconciler, nil)

	body := "hello"
	campaign := &models.WhatsAppCampaign{
		CustomerID:  5,
		MessageType: models.WhatsAppMessageTypeText,
		MessageBody: &body,
		Recipients:  []string{"bogus"},
	}

	_, err := flow.Dispatch(context.Background(), campaign, NewClientMetadata("127.0.0.1", "test"))
	assert.ErrorIs(t, err, dispatch.ErrNoValidTargets)
	assert.Empty(t, sender.sent)
	assert.Empty(t, reconciler.summaries)
}

func TestWhatsAppDispatchBuildsTemplateMessage(t *testing.T) {
	var captured platforms.WhatsAppMessage
	sender := &capturingSender{onSend: func(msg platforms.WhatsAppMessage) { captured = msg }}
	flow := NewWhatsAppCampaignFlow(nil, &fakeAuditRepo{}, sender, &fakeReconciler{}, nil)

	campaign := &models.WhatsAppCampaign{
		CustomerID:   5,
		MessageType:  models.WhatsAppMessageTypeTemplate,
		TemplateName: utils.ToPtr("order_update"),
		Recipients:   []string{"+15550000001"},
	}

	_, err := flow.Dispatch(context.Background(), campaign, nil)
	require.NoError(t, err)
	assert.Equal(t, models.WhatsAppMessageTypeTemplate, captured.MessageType)
	assert.Equal(t, "order_update", captured.TemplateName)
}

type capturingSender struct {
	onSend func(platforms.WhatsAppMessage)
}

func (c *capturingSender) ValidRecipient(string) bool { return true }

func (c *capturingSender) SendMessage(_ context.Context, _ string, msg platforms.WhatsAppMessage) platforms.PublishResult {
	c.onSend(msg)
	return platforms.PublishResult{Success: true, ExternalID: "wamid.x"}
}
