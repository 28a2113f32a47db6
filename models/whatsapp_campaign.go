package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// WhatsAppCampaignStatus represents the status of a WhatsApp campaign.
// There is deliberately no failed value: a campaign whose every send failed
// returns to draft so the customer can fix it and retry.
type WhatsAppCampaignStatus string

const (
	WhatsAppCampaignStatusDraft     WhatsAppCampaignStatus = "draft"
	WhatsAppCampaignStatusScheduled WhatsAppCampaignStatus = "scheduled"
	WhatsAppCampaignStatusSent      WhatsAppCampaignStatus = "sent"
)

// String returns the string representation of the status
func (s WhatsAppCampaignStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s WhatsAppCampaignStatus) Valid() bool {
	switch s {
	case WhatsAppCampaignStatusDraft, WhatsAppCampaignStatusScheduled,
		WhatsAppCampaignStatusSent:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for WhatsAppCampaignStatus
func (s *WhatsAppCampaignStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = WhatsAppCampaignStatus(v)
	case []byte:
		*s = WhatsAppCampaignStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into WhatsAppCampaignStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for WhatsAppCampaignStatus
func (s WhatsAppCampaignStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid WhatsAppCampaignStatus: %s", s)
	}
	return string(s), nil
}

// WhatsAppMessageType distinguishes template sends from free-form text
type WhatsAppMessageType string

const (
	WhatsAppMessageTypeTemplate WhatsAppMessageType = "template"
	WhatsAppMessageTypeText     WhatsAppMessageType = "text"
)

// Valid checks if the message type is valid
func (t WhatsAppMessageType) Valid() bool {
	return t == WhatsAppMessageTypeTemplate || t == WhatsAppMessageTypeText
}

// WhatsAppCampaign represents a WhatsApp bulk messaging campaign in the database
type WhatsAppCampaign struct {
	ID           uint                   `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:uk_whatsapp_campaigns_uuid" json:"uuid"`
	CustomerID   uint                   `gorm:"not null;index:idx_whatsapp_campaigns_customer_id" json:"customer_id"`
	Name         string                 `gorm:"size:255;not null" json:"name"`
	MessageType  WhatsAppMessageType    `gorm:"size:20;not null;default:'text'" json:"message_type"`
	TemplateName *string                `gorm:"size:255" json:"template_name,omitempty"`
	MessageBody  *string                `gorm:"type:text" json:"message_body,omitempty"`
	MediaURL     *string                `gorm:"type:text" json:"media_url,omitempty"`
	Recipients   pq.StringArray         `gorm:"type:text[];not null" json:"recipients"`
	ScheduleType ScheduleType           `gorm:"size:20;not null;default:'immediate'" json:"schedule_type"`
	ScheduledAt  *time.Time             `gorm:"index:idx_whatsapp_campaigns_scheduled_at" json:"scheduled_at,omitempty"`
	Status       WhatsAppCampaignStatus `gorm:"size:20;not null;default:'draft';index:idx_whatsapp_campaigns_status" json:"status"`

	// Dispatch tallies, written by the reconciler after fan-out
	TotalRecipients int `gorm:"not null;default:0" json:"total_recipients"`
	DeliveredCount  int `gorm:"not null;default:0" json:"delivered_count"`
	FailedCount     int `gorm:"not null;default:0" json:"failed_count"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_whatsapp_campaigns_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	Customer *Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
}

// TableName returns the table name for the model
func (WhatsAppCampaign) TableName() string {
	return "whatsapp_campaigns"
}

// BeforeCreate is called before creating a new record
func (c *WhatsAppCampaign) BeforeCreate() error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = WhatsAppCampaignStatusDraft
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *WhatsAppCampaign) BeforeUpdate() error {
	now := time.Now().UTC()
	c.UpdatedAt = &now
	return nil
}

// IsTemplate reports whether the campaign sends an approved template
func (c *WhatsAppCampaign) IsTemplate() bool {
	return c.MessageType == WhatsAppMessageTypeTemplate
}

// IsDue reports whether a scheduled campaign should be dispatched now
func (c *WhatsAppCampaign) IsDue(now time.Time) bool {
	return c.Status == WhatsAppCampaignStatusScheduled &&
		c.ScheduledAt != nil && !c.ScheduledAt.After(now)
}

// CanTransitionTo checks if the campaign can transition to the given status
func (c *WhatsAppCampaign) CanTransitionTo(newStatus WhatsAppCampaignStatus) bool {
	switch c.Status {
	case WhatsAppCampaignStatusDraft:
		return newStatus == WhatsAppCampaignStatusScheduled ||
			newStatus == WhatsAppCampaignStatusSent
	case WhatsAppCampaignStatusScheduled:
		return newStatus == WhatsAppCampaignStatusSent ||
			newStatus == WhatsAppCampaignStatusDraft
	default:
		return false
	}
}

// WhatsAppCampaignFilter represents filter criteria for WhatsApp campaigns
type WhatsAppCampaignFilter struct {
	ID              *uint                   `json:"id,omitempty"`
	UUID            *uuid.UUID              `json:"uuid,omitempty"`
	CustomerID      *uint                   `json:"customer_id,omitempty"`
	Status          *WhatsAppCampaignStatus `json:"status,omitempty"`
	ScheduleType    *ScheduleType           `json:"schedule_type,omitempty"`
	ScheduledBefore *time.Time              `json:"scheduled_before,omitempty"`
	CreatedAfter    *time.Time              `json:"created_after,omitempty"`
	CreatedBefore   *time.Time              `json:"created_before,omitempty"`
}
