package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SocialAccountRepositoryImpl implements the SocialAccountRepository interface
type SocialAccountRepositoryImpl struct {
	*BaseRepository[models.SocialAccount, models.SocialAccountFilter]
}

// NewSocialAccountRepository creates a new social account repository
func NewSocialAccountRepository(db *gorm.DB) SocialAccountRepository {
	return &SocialAccountRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SocialAccount, models.SocialAccountFilter](db),
	}
}

// Upsert inserts the credential or replaces the existing row for the same
// (customer_id, platform) pair. Reconnecting never grows the table.
func (r *SocialAccountRepositoryImpl) Upsert(ctx context.Context, account *models.SocialAccount) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	if err := account.BeforeCreate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}, {Name: "platform"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"account_id":       account.AccountID,
			"account_name":     account.AccountName,
			"access_token":     account.AccessToken,
			"refresh_token":    account.RefreshToken,
			"token_expires_at": account.TokenExpiresAt,
			"metadata":         account.Metadata,
			"is_active":        true,
			"updated_at":       now,
		}),
	}).Create(account).Error

	if err != nil {
		return fmt.Errorf("failed to upsert social account: %w", err)
	}

	return nil
}

// ByCustomerAndPlatform retrieves the active credential for a customer on a platform
func (r *SocialAccountRepositoryImpl) ByCustomerAndPlatform(ctx context.Context, customerID uint, platform models.Platform) (*models.SocialAccount, error) {
	active := true
	filter := models.SocialAccountFilter{
		CustomerID: &customerID,
		Platform:   &platform,
		IsActive:   &active,
	}
	accounts, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find social account: %w", err)
	}

	if len(accounts) == 0 {
		return nil, nil
	}

	return accounts[0], nil
}

// ListByCustomer retrieves all active credentials for a customer
func (r *SocialAccountRepositoryImpl) ListByCustomer(ctx context.Context, customerID uint) ([]*models.SocialAccount, error) {
	active := true
	filter := models.SocialAccountFilter{
		CustomerID: &customerID,
		IsActive:   &active,
	}
	return r.ByFilter(ctx, filter, "platform ASC", 0, 0)
}

// Deactivate marks a credential as disconnected without deleting the row
func (r *SocialAccountRepositoryImpl) Deactivate(ctx context.Context, id uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.SocialAccount{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		}).Error

	if err != nil {
		return fmt.Errorf("failed to deactivate social account: %w", err)
	}

	return nil
}

// ByUUID retrieves a social account by UUID
func (r *SocialAccountRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.SocialAccount, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID format: %w", err)
	}

	filter := models.SocialAccountFilter{UUID: &parsedUUID}
	accounts, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find social account by UUID: %w", err)
	}

	if len(accounts) == 0 {
		return nil, nil
	}

	return accounts[0], nil
}

// ByFilter retrieves social accounts based on filter criteria
func (r *SocialAccountRepositoryImpl) ByFilter(ctx context.Context, filter models.SocialAccountFilter, orderBy string, limit, offset int) ([]*models.SocialAccount, error) {
	db := r.getDB(ctx)

	var accounts []*models.SocialAccount
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find social accounts by filter: %w", err)
	}

	return accounts, nil
}

// Count returns the number of social accounts matching the filter
func (r *SocialAccountRepositoryImpl) Count(ctx context.Context, filter models.SocialAccountFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.SocialAccount{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count social accounts: %w", err)
	}

	return count, nil
}

// Exists checks if any social account matching the filter exists
func (r *SocialAccountRepositoryImpl) Exists(ctx context.Context, filter models.SocialAccountFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *SocialAccountRepositoryImpl) applyFilter(db *gorm.DB, filter models.SocialAccountFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.CustomerID != nil {
		db = db.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Platform != nil {
		db = db.Where("platform = ?", *filter.Platform)
	}
	if filter.AccountID != nil {
		db = db.Where("account_id = ?", *filter.AccountID)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}

	return db
}
