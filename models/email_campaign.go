package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// EmailCampaignStatus represents the status of an email campaign.
// Like WhatsApp campaigns, the schema carries no failed value; a fully
// failed dispatch drops the campaign back to draft.
type EmailCampaignStatus string

const (
	EmailCampaignStatusDraft     EmailCampaignStatus = "draft"
	EmailCampaignStatusScheduled EmailCampaignStatus = "scheduled"
	EmailCampaignStatusSent      EmailCampaignStatus = "sent"
)

// String returns the string representation of the status
func (s EmailCampaignStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s EmailCampaignStatus) Valid() bool {
	switch s {
	case EmailCampaignStatusDraft, EmailCampaignStatusScheduled,
		EmailCampaignStatusSent:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for EmailCampaignStatus
func (s *EmailCampaignStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = EmailCampaignStatus(v)
	case []byte:
		*s = EmailCampaignStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into EmailCampaignStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for EmailCampaignStatus
func (s EmailCampaignStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid EmailCampaignStatus: %s", s)
	}
	return string(s), nil
}

// EmailCampaign represents an email bulk campaign in the database
type EmailCampaign struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:uk_email_campaigns_uuid" json:"uuid"`
	CustomerID   uint                `gorm:"not null;index:idx_email_campaigns_customer_id" json:"customer_id"`
	Name         string              `gorm:"size:255;not null" json:"name"`
	Subject      string              `gorm:"size:500;not null" json:"subject"`
	HTMLBody     string              `gorm:"type:text;not null" json:"html_body"`
	Recipients   pq.StringArray      `gorm:"type:text[];not null" json:"recipients"`
	ScheduleType ScheduleType        `gorm:"size:20;not null;default:'immediate'" json:"schedule_type"`
	ScheduledAt  *time.Time          `gorm:"index:idx_email_campaigns_scheduled_at" json:"scheduled_at,omitempty"`
	Status       EmailCampaignStatus `gorm:"size:20;not null;default:'draft';index:idx_email_campaigns_status" json:"status"`

	// Dispatch tallies, written by the reconciler after fan-out
	TotalRecipients int `gorm:"not null;default:0" json:"total_recipients"`
	DeliveredCount  int `gorm:"not null;default:0" json:"delivered_count"`
	FailedCount     int `gorm:"not null;default:0" json:"failed_count"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_email_campaigns_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	Customer *Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
}

// TableName returns the table name for the model
func (EmailCampaign) TableName() string {
	return "email_campaigns"
}

// BeforeCreate is called before creating a new record
func (c *EmailCampaign) BeforeCreate() error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = EmailCampaignStatusDraft
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *EmailCampaign) BeforeUpdate() error {
	now := time.Now().UTC()
	c.UpdatedAt = &now
	return nil
}

// IsDue reports whether a scheduled campaign should be dispatched now
func (c *EmailCampaign) IsDue(now time.Time) bool {
	return c.Status == EmailCampaignStatusScheduled &&
		c.ScheduledAt != nil && !c.ScheduledAt.After(now)
}

// CanTransitionTo checks if the campaign can transition to the given status
func (c *EmailCampaign) CanTransitionTo(newStatus EmailCampaignStatus) bool {
	switch c.Status {
	case EmailCampaignStatusDraft:
		return newStatus == EmailCampaignStatusScheduled ||
			newStatus == EmailCampaignStatusSent
	case EmailCampaignStatusScheduled:
		return newStatus == EmailCampaignStatusSent ||
			newStatus == EmailCampaignStatusDraft
	default:
		return false
	}
}

// EmailCampaignFilter represents filter criteria for email campaigns
type EmailCampaignFilter struct {
	ID              *uint                `json:"id,omitempty"`
	UUID            *uuid.UUID           `json:"uuid,omitempty"`
	CustomerID      *uint                `json:"customer_id,omitempty"`
	Status          *EmailCampaignStatus `json:"status,omitempty"`
	ScheduleType    *ScheduleType        `json:"schedule_type,omitempty"`
	ScheduledBefore *time.Time           `json:"scheduled_before,omitempty"`
	CreatedAfter    *time.Time           `json:"created_after,omitempty"`
	CreatedBefore   *time.Time           `json:"created_before,omitempty"`
}
