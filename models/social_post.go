package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SocialPostStatus represents the status of a social media post.
// Unlike the messaging campaigns this schema has a terminal failed value,
// because a post targets exactly one account and its failure is final.
type SocialPostStatus string

const (
	SocialPostStatusDraft     SocialPostStatus = "draft"
	SocialPostStatusScheduled SocialPostStatus = "scheduled"
	SocialPostStatusPublished SocialPostStatus = "published"
	SocialPostStatusFailed    SocialPostStatus = "failed"
)

// String returns the string representation of the status
func (s SocialPostStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s SocialPostStatus) Valid() bool {
	switch s {
	case SocialPostStatusDraft, SocialPostStatusScheduled,
		SocialPostStatusPublished, SocialPostStatusFailed:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for SocialPostStatus
func (s *SocialPostStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = SocialPostStatus(v)
	case []byte:
		*s = SocialPostStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into SocialPostStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for SocialPostStatus
func (s SocialPostStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid SocialPostStatus: %s", s)
	}
	return string(s), nil
}

// SocialPost represents a post published to a connected social account
type SocialPost struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	UUID            uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uk_social_posts_uuid" json:"uuid"`
	CustomerID      uint             `gorm:"not null;index:idx_social_posts_customer_id" json:"customer_id"`
	SocialAccountID uint             `gorm:"not null;index:idx_social_posts_social_account_id" json:"social_account_id"`
	Platform        Platform         `gorm:"size:20;not null;index:idx_social_posts_platform" json:"platform"`
	Caption         string           `gorm:"type:text" json:"caption"`
	MediaURLs       pq.StringArray   `gorm:"type:text[]" json:"media_urls"`
	LinkURL         *string          `gorm:"type:text" json:"link_url,omitempty"`
	ScheduleType    ScheduleType     `gorm:"size:20;not null;default:'immediate'" json:"schedule_type"`
	ScheduledAt     *time.Time       `gorm:"index:idx_social_posts_scheduled_at" json:"scheduled_at,omitempty"`
	Status          SocialPostStatus `gorm:"size:20;not null;default:'draft';index:idx_social_posts_status" json:"status"`
	ExternalPostID  *string          `gorm:"size:255" json:"external_post_id,omitempty"`
	ErrorMessage    *string          `gorm:"type:text" json:"error_message,omitempty"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_social_posts_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	Customer      *Customer      `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	SocialAccount *SocialAccount `gorm:"foreignKey:SocialAccountID;references:ID" json:"social_account,omitempty"`
}

// TableName returns the table name for the model
func (SocialPost) TableName() string {
	return "social_posts"
}

// BeforeCreate is called before creating a new record
func (p *SocialPost) BeforeCreate() error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	if p.Status == "" {
		p.Status = SocialPostStatusDraft
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (p *SocialPost) BeforeUpdate() error {
	now := time.Now().UTC()
	p.UpdatedAt = &now
	return nil
}

// IsDue reports whether a scheduled post should be published now
func (p *SocialPost) IsDue(now time.Time) bool {
	return p.Status == SocialPostStatusScheduled &&
		p.ScheduledAt != nil && !p.ScheduledAt.After(now)
}

// CanTransitionTo checks if the post can transition to the given status
func (p *SocialPost) CanTransitionTo(newStatus SocialPostStatus) bool {
	switch p.Status {
	case SocialPostStatusDraft:
		return newStatus == SocialPostStatusScheduled ||
			newStatus == SocialPostStatusPublished ||
			newStatus == SocialPostStatusFailed
	case SocialPostStatusScheduled:
		return newStatus == SocialPostStatusPublished ||
			newStatus == SocialPostStatusFailed ||
			newStatus == SocialPostStatusDraft
	default:
		return false
	}
}

// SocialPostFilter represents filter criteria for social posts
type SocialPostFilter struct {
	ID              *uint             `json:"id,omitempty"`
	UUID            *uuid.UUID        `json:"uuid,omitempty"`
	CustomerID      *uint             `json:"customer_id,omitempty"`
	SocialAccountID *uint             `json:"social_account_id,omitempty"`
	Platform        *Platform         `json:"platform,omitempty"`
	Status          *SocialPostStatus `json:"status,omitempty"`
	ScheduledBefore *time.Time        `json:"scheduled_before,omitempty"`
	CreatedAfter    *time.Time        `json:"created_after,omitempty"`
	CreatedBefore   *time.Time        `json:"created_before,omitempty"`
}
