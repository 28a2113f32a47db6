package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SocialAccount stores the credential for one customer on one platform.
// At most one active row exists per (customer_id, platform); reconnecting
// the same platform replaces the stored tokens in place.
type SocialAccount struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_social_accounts_uuid" json:"uuid"`
	CustomerID uint      `gorm:"not null;uniqueIndex:uk_social_accounts_customer_platform;index:idx_social_accounts_customer_id" json:"customer_id"`
	Platform   Platform  `gorm:"size:20;not null;uniqueIndex:uk_social_accounts_customer_platform" json:"platform"`

	// Identity on the remote platform
	AccountID   string `gorm:"size:255;not null" json:"account_id"`
	AccountName string `gorm:"size:255" json:"account_name"`

	// Tokens are never serialized to API responses
	AccessToken    string     `gorm:"type:text;not null" json:"-"`
	RefreshToken   *string    `gorm:"type:text" json:"-"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`

	// Platform-specific extras (page ids, ad account ids, board ids)
	Metadata json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`

	IsActive  *bool      `gorm:"default:true;index:idx_social_accounts_is_active" json:"is_active"`
	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	Customer *Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
}

// TableName returns the table name for the model
func (SocialAccount) TableName() string {
	return "social_accounts"
}

// BeforeCreate is called before creating a new record
func (a *SocialAccount) BeforeCreate() error {
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (a *SocialAccount) BeforeUpdate() error {
	now := time.Now().UTC()
	a.UpdatedAt = &now
	return nil
}

// IsConnected reports whether the account is active and usable
func (a *SocialAccount) IsConnected() bool {
	return a.IsActive != nil && *a.IsActive
}

// IsTokenExpired reports whether the stored access token has passed its expiry
func (a *SocialAccount) IsTokenExpired(now time.Time) bool {
	return a.TokenExpiresAt != nil && now.After(*a.TokenExpiresAt)
}

// SocialAccountFilter represents filter criteria for social accounts
type SocialAccountFilter struct {
	ID         *uint      `json:"id,omitempty"`
	UUID       *uuid.UUID `json:"uuid,omitempty"`
	CustomerID *uint      `json:"customer_id,omitempty"`
	Platform   *Platform  `json:"platform,omitempty"`
	AccountID  *string    `json:"account_id,omitempty"`
	IsActive   *bool      `json:"is_active,omitempty"`
}
