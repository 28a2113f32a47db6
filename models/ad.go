package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AdStatus represents the status of a paid ad
type AdStatus string

const (
	AdStatusDraft     AdStatus = "draft"
	AdStatusPublished AdStatus = "published"
	AdStatusFailed    AdStatus = "failed"
)

// String returns the string representation of the status
func (s AdStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s AdStatus) Valid() bool {
	switch s {
	case AdStatusDraft, AdStatusPublished, AdStatusFailed:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for AdStatus
func (s *AdStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = AdStatus(v)
	case []byte:
		*s = AdStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into AdStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for AdStatus
func (s AdStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid AdStatus: %s", s)
	}
	return string(s), nil
}

// Ad represents a paid advertisement created through a connected account.
// Only the Meta ads surface is supported today.
type Ad struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UUID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_ads_uuid" json:"uuid"`
	CustomerID      uint      `gorm:"not null;index:idx_ads_customer_id" json:"customer_id"`
	SocialAccountID uint      `gorm:"not null;index:idx_ads_social_account_id" json:"social_account_id"`
	Platform        Platform  `gorm:"size:20;not null" json:"platform"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	CreativeText    string    `gorm:"type:text;not null" json:"creative_text"`
	ImageURL        *string   `gorm:"type:text" json:"image_url,omitempty"`
	LinkURL         *string   `gorm:"type:text" json:"link_url,omitempty"`
	DailyBudget     uint64    `gorm:"not null;default:0" json:"daily_budget"` // minor currency units
	Status          AdStatus  `gorm:"size:20;not null;default:'draft';index:idx_ads_status" json:"status"`
	ExternalAdID    *string   `gorm:"size:255" json:"external_ad_id,omitempty"`
	ErrorMessage    *string   `gorm:"type:text" json:"error_message,omitempty"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_ads_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	Customer      *Customer      `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	SocialAccount *SocialAccount `gorm:"foreignKey:SocialAccountID;references:ID" json:"social_account,omitempty"`
}

// TableName returns the table name for the model
func (Ad) TableName() string {
	return "ads"
}

// BeforeCreate is called before creating a new record
func (a *Ad) BeforeCreate() error {
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AdStatusDraft
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (a *Ad) BeforeUpdate() error {
	now := time.Now().UTC()
	a.UpdatedAt = &now
	return nil
}

// CanTransitionTo checks if the ad can transition to the given status
func (a *Ad) CanTransitionTo(newStatus AdStatus) bool {
	switch a.Status {
	case AdStatusDraft:
		return newStatus == AdStatusPublished || newStatus == AdStatusFailed
	default:
		return false
	}
}

// AdFilter represents filter criteria for ads
type AdFilter struct {
	ID              *uint      `json:"id,omitempty"`
	UUID            *uuid.UUID `json:"uuid,omitempty"`
	CustomerID      *uint      `json:"customer_id,omitempty"`
	SocialAccountID *uint      `json:"social_account_id,omitempty"`
	Platform        *Platform  `json:"platform,omitempty"`
	Status          *AdStatus  `json:"status,omitempty"`
	CreatedAfter    *time.Time `json:"created_after,omitempty"`
	CreatedBefore   *time.Time `json:"created_before,omitempty"`
}
