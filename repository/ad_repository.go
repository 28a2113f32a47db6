package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/utils"
	"gorm.io/gorm"
)

// AdRepositoryImpl implements the AdRepository interface
type AdRepositoryImpl struct {
	*BaseRepository[models.Ad, models.AdFilter]
}

// NewAdRepository creates a new ad repository
func NewAdRepository(db *gorm.DB) AdRepository {
	return &AdRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Ad, models.AdFilter](db),
	}
}

// ByUUID retrieves an ad by UUID
func (r *AdRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Ad, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID format: %w", err)
	}

	filter := models.AdFilter{UUID: &parsedUUID}
	ads, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find ad by UUID: %w", err)
	}

	if len(ads) == 0 {
		return nil, nil
	}

	return ads[0], nil
}

// ByCustomerID retrieves ads by customer ID with pagination
func (r *AdRepositoryImpl) ByCustomerID(ctx context.Context, customerID uint, limit, offset int) ([]*models.Ad, error) {
	filter := models.AdFilter{CustomerID: &customerID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// UpdatePublishResult writes the reconciled publish outcome in one update
func (r *AdRepositoryImpl) UpdatePublishResult(ctx context.Context, id uint, status models.AdStatus, externalAdID, errorMessage *string) error {
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

	err = db.Model(&models.Ad{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"external_ad_id": externalAdID,
			"error_message":  errorMessage,
			"updated_at":     time.Now().UTC(),
		}).Error

	if err != nil {
		return fmt.Errorf("failed to update ad publish result: %w", err)
	}

	return nil
}

// ByFilter retrieves ads based on filter criteria
func (r *AdRepositoryImpl) ByFilter(ctx context.Context, filter models.AdFilter, orderBy string, limit, offset int) ([]*models.Ad, error) {
	db := r.getDB(ctx)

	var ads []*models.Ad
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

	// Preload relationships
	query = query.Preload("SocialAccount")

	err := query.Find(&ads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find ads by filter: %w", err)
	}

	return ads, nil
}

// Count returns the number of ads matching the filter
func (r *AdRepositoryImpl) Count(ctx context.Context, filter models.AdFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Ad{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count ads: %w", err)
	}

	return count, nil
}

// Exists checks if any ad matching the filter exists
func (r *AdRepositoryImpl) Exists(ctx context.Context, filter models.AdFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *AdRepositoryImpl) applyFilter(db *gorm.DB, filter models.AdFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.CustomerID != nil {
		db = db.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.SocialAccountID != nil {
		db = db.Where("social_account_id = ?", *filter.SocialAccountID)
	}
	if filter.Platform != nil {
		db = db.Where("platform = ?", *filter.Platform)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}

	return db
}
