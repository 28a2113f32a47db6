package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/utils"
	"gorm.io/gorm"
)

// SocialPostRepositoryImpl implements the SocialPostRepository interface
type SocialPostRepositoryImpl struct {
	*BaseRepository[models.SocialPost, models.SocialPostFilter]
}

// NewSocialPostRepository creates a new social post repository
func NewSocialPostRepository(db *gorm.DB) SocialPostRepository {
	return &SocialPostRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SocialPost, models.SocialPostFilter](db),
	}
}

// ByUUID retrieves a social post by UUID
func (r *SocialPostRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.SocialPost, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID format: %w", err)
	}

	filter := models.SocialPostFilter{UUID: &parsedUUID}
	posts, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find social post by UUID: %w", err)
	}

	if len(posts) == 0 {
		return nil, nil
	}

	return posts[0], nil
}

// ByCustomerID retrieves social posts by customer ID with pagination
func (r *SocialPostRepositoryImpl) ByCustomerID(ctx context.Context, customerID uint, limit, offset int) ([]*models.SocialPost, error) {
	filter := models.SocialPostFilter{CustomerID: &customerID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// UpdatePublishResult writes the reconciled publish outcome in one update
func (r *SocialPostRepositoryImpl) UpdatePublishResult(ctx context.Context, id uint, status models.SocialPostStatus, externalPostID, errorMessage *string) error {
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

	err = db.Model(&models.SocialPost{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           status,
			"external_post_id": externalPostID,
			"error_message":    errorMessage,
			"updated_at":       time.Now().UTC(),
		}).Error

	if err != nil {
		return fmt.Errorf("failed to update social post publish result: %w", err)
	}

	return nil
}

// ListDue retrieves scheduled posts whose schedule time has passed
func (r *SocialPostRepositoryImpl) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.SocialPost, error) {
	status := models.SocialPostStatusScheduled
	filter := models.SocialPostFilter{
		Status:          &status,
		ScheduledBefore: &now,
	}
	return r.ByFilter(ctx, filter, "scheduled_at ASC", limit, 0)
}

// ByFilter retrieves social posts based on filter criteria
func (r *SocialPostRepositoryImpl) ByFilter(ctx context.Context, filter models.SocialPostFilter, orderBy string, limit, offset int) ([]*models.SocialPost, error) {
	db := r.getDB(ctx)

	var posts []*models.SocialPost
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

	err := query.Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find social posts by filter: %w", err)
	}

	return posts, nil
}

// Count returns the number of social posts matching the filter
func (r *SocialPostRepositoryImpl) Count(ctx context.Context, filter models.SocialPostFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.SocialPost{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count social posts: %w", err)
	}

	return count, nil
}

// Exists checks if any social post matching the filter exists
func (r *SocialPostRepositoryImpl) Exists(ctx context.Context, filter models.SocialPostFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *SocialPostRepositoryImpl) applyFilter(db *gorm.DB, filter models.SocialPostFilter) *gorm.DB {
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
	if filter.ScheduledBefore != nil {
		db = db.Where("scheduled_at <= ?", *filter.ScheduledBefore)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}

	return db
}
