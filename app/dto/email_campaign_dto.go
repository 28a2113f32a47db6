package dto

import "time"

// CreateEmailCampaignRequest represents the request to create an email campaign
type CreateEmailCampaignRequest struct {
	CustomerID   uint       `json:"-"`
	Name         string     `json:"name" validate:"required,min=1,max=255"`
	Subject      string     `json:"subject" validate:"required,min=1,max=255"`
	HTMLBody     string     `json:"html_body" validate:"required"`
	Recipients   []string   `json:"recipients" validate:"required,min=1"`
	ScheduleType string     `json:"schedule_type" validate:"required,oneof=immediate scheduled"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
}

// CreateEmailCampaignResponse represents the response to campaign creation.
// Dispatch is present only for immediate campaigns.
type CreateEmailCampaignResponse struct {
	Campaign EmailCampaignDTO    `json:"campaign"`
	Dispatch *DispatchSummaryDTO `json:"dispatch,omitempty"`
}

// GetEmailCampaignRequest represents the request to fetch one campaign
type GetEmailCampaignRequest struct {
	UUID       string `json:"-"`
	CustomerID uint   `json:"-"`
}

// ListEmailCampaignsRequest represents the request to list campaigns
type ListEmailCampaignsRequest struct {
	CustomerID uint   `json:"-"`
	Status     string `json:"-"`
	Page       int    `json:"-"`
	PageSize   int    `json:"-"`
}

// EmailCampaignDTO represents an email campaign in responses
type EmailCampaignDTO struct {
	UUID            string     `json:"uuid"`
	Name            string     `json:"name"`
	Subject         string     `json:"subject"`
	HTMLBody        string     `json:"html_body"`
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

// ListEmailCampaignsResponse represents the campaign listing
type ListEmailCampaignsResponse struct {
	Campaigns []EmailCampaignDTO `json:"campaigns"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	PageSize  int                `json:"page_size"`
}
