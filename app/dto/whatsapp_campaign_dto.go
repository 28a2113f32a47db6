package dto

import "time"

// CreateWhatsAppCampaignRequest represents the request to create a WhatsApp campaign
type CreateWhatsAppCampaignRequest struct {
	CustomerID   uint       `json:"-"`
	Name         string     `json:"name" validate:"required,min=1,max=255"`
	MessageType  string     `json:"message_type" validate:"required,oneof=template text"`
	TemplateName *string    `json:"template_name,omitempty"`
	MessageBody  *string    `json:"message_body,omitempty"`
	MediaURL     *string    `json:"media_url,omitempty" validate:"omitempty,url"`
	Recipients   []string   `json:"recipients" validate:"required,min=1"`
	ScheduleType string     `json:"schedule_type" validate:"required,oneof=immediate scheduled"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
}

// RecipientOutcomeDTO represents the outcome for one recipient of a dispatch
type RecipientOutcomeDTO struct {
	Recipient string `json:"recipient"`
	Success   bool   `json:"success"`
	Reason    string `json:"reason,omitempty"`
}

// DispatchSummaryDTO represents the aggregate outcome of one campaign dispatch
type DispatchSummaryDTO struct {
	Total      int                   `json:"total"`
	Delivered  int                   `json:"delivered"`
	Failed     int                   `json:"failed"`
	Skipped    []string              `json:"skipped,omitempty"`
	Recipients []RecipientOutcomeDTO `json:"recipients,omitempty"`
}

// CreateWhatsAppCampaignResponse represents the response to campaign creation.
// Dispatch is present only for immediate campaigns.
type CreateWhatsAppCampaignResponse struct {
	Campaign WhatsAppCampaignDTO `json:"campaign"`
	Dispatch *DispatchSummaryDTO `json:"dispatch,omitempty"`
}

// GetWhatsAppCampaignRequest represents the request to fetch one campaign
type GetWhatsAppCampaignRequest struct {
	UUID       string `json:"-"`
	CustomerID uint   `json:"-"`
}

// ListWhatsAppCampaignsRequest represents the request to list campaigns
type ListWhatsAppCampaignsRequest struct {
	CustomerID uint   `json:"-"`
	Status     string `json:"-"`
	Page       int    `json:"-"`
	PageSize   int    `json:"-"`
}

// WhatsAppCampaignDTO represents a WhatsApp campaign in responses
type WhatsAppCampaignDTO struct {
	UUID            string     `json:"uuid"`
	Name            string     `json:"name"`
	MessageType     string     `json:"message_type"`
	TemplateName    *string    `json:"template_name,omitempty"`
	MessageBody     *string    `json:"message_body,omitempty"`
	MediaURL        *string    `json:"media_url,omitempty"`
	Recipients      []string   `json:"recipients"`
	ScheduleType    string     `json:"schedule_type"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	Status          string     `json:"status"`
	TotalRecipients int        `json:"total_recipients"`
	DeliveredCount  int        `json:"delivered_count"`
	FailedCount     int        `json:"failed_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// ListWhatsAppCampaignsResponse represents the campaign listing
type ListWhatsAppCampaignsResponse struct {
	Campaigns []WhatsAppCampaignDTO `json:"campaigns"`
	Total     int64                 `json:"total"`
	Page      int                   `json:"page"`
	PageSize  int                   `json:"page_size"`
}
