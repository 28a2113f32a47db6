// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/sepehrdad/Hydra-Marketing/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// CustomerRepository defines operations for customers
type CustomerRepository interface {
	Repository[models.Customer, models.CustomerFilter]
	ByEmail(ctx context.Context, email string) (*models.Customer, error)
	ByUUID(ctx context.Context, uuid string) (*models.Customer, error)
	UpdateLastLogin(ctx context.Context, customerID uint, at time.Time) error
}

// SocialAccountRepository defines operations for stored platform credentials
type SocialAccountRepository interface {
	Repository[models.SocialAccount, models.SocialAccountFilter]
	// Upsert inserts the credential or, when the customer already has an
	// account for the platform, replaces its tokens and identity in place.
	Upsert(ctx context.Context, account *models.SocialAccount) error
	ByCustomerAndPlatform(ctx context.Context, customerID uint, platform models.Platform) (*models.SocialAccount, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]*models.SocialAccount, error)
	Deactivate(ctx context.Context, id uint) error
}

// WhatsAppCampaignRepository defines operations for WhatsApp campaigns
type WhatsAppCampaignRepository interface {
	Repository[models.WhatsAppCampaign, models.WhatsAppCampaignFilter]
	ByUUID(ctx context.Context, uuid string) (*models.WhatsAppCampaign, error)
	ByCustomerID(ctx context.Context, customerID uint, limit, offset int) ([]*models.WhatsAppCampaign, error)
	UpdateDispatchResult(ctx context.Context, id uint, status models.WhatsAppCampaignStatus, total, delivered, failed int) error
	ListDue(ctx context.Context, now time.Time, limit int) ([]*models.WhatsAppCampaign, error)
}

// EmailCampaignRepository defines operations for email campaigns
type EmailCampaignRepository interface {
	Repository[models.EmailCampaign, models.EmailCampaignFilter]
	ByUUID(ctx context.Context, uuid string) (*models.EmailCampaign, error)
	ByCustomerID(ctx context.Context, customerID uint, limit, offset int) ([]*models.EmailCampaign, error)
	UpdateDispatchResult(ctx context.Context, id uint, status models.EmailCampaignStatus, total, delivered, failed int) error
	ListDue(ctx context.Context, now time.Time, limit int) ([]*models.EmailCampaign, error)
}

// SocialPostRepository defines operations for social posts
type SocialPostRepository interface {
	Repository[models.SocialPost, models.SocialPostFilter]
	ByUUID(ctx context.Context, uuid string) (*models.SocialPost, error)
	ByCustomerID(ctx context.Context, customerID uint, limit, offset int) ([]*models.SocialPost, error)
	UpdatePublishResult(ctx context.Context, id uint, status models.SocialPostStatus, externalPostID, errorMessage *string) error
	ListDue(ctx context.Context, now time.Time, limit int) ([]*models.SocialPost, error)
}

// AdRepository defines operations for ads
type AdRepository interface {
	Repository[models.Ad, models.AdFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Ad, error)
	ByCustomerID(ctx context.Context, customerID uint, limit, offset int) ([]*models.Ad, error)
	UpdatePublishResult(ctx context.Context, id uint, status models.AdStatus, externalAdID, errorMessage *string) error
}

// ProposalRepository defines operations for AI-generated proposals
type ProposalRepository interface {
	Repository[models.Proposal, models.ProposalFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Proposal, error)
	ByCustomerID(ctx context.Context, customerID uint, limit, offset int) ([]*models.Proposal, error)
	UpdateDeliveryStatus(ctx context.Context, id uint, status models.ProposalStatus, errorMessage *string, sentAt *time.Time) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}
