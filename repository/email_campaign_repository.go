package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/utils"
	"gorm.io/gorm"
)

// EmailCampaignRepositoryImpl implements the EmailCampaignRepository interface
type EmailCampaignRepositoryImpl struct {
	*BaseRepository[models.EmailCampaign, models.EmailCampaignFilter]
}

// NewEmailCampaignRepository creates a new email campaign repository
func NewEmailCampaignRepository(db *gorm.DB) EmailCampaignRepository {
	return &EmailCampaignRepositoryImpl{
		BaseRepository: NewBaseRepository[models.EmailCampaign, models.EmailCampaignFilter](db),
	}
}

// ByUUID retrieves an email campaign by UUID
func (r *EmailCampaignRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.EmailCampaign, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID format: %w", err)
	}

	filter := models.EmailCampaignFilter{UUID: &parsedUUID}
	campaigns, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find email campaign by UUID: %w", err)
	}

	if len(campaigns) == 0 {
		return nil, nil
	}

	return campaigns[0], nil
}

// ByCustomerID retrieves email campaigns by customer ID with pagination
func (r *EmailCampaignRepositoryImpl) ByCustomerID(ctx context.Context, customerID uint, limit, offset int) ([]*models.EmailCampaign, error) {
	filter := models.EmailCampaignFilter{CustomerID: &customerID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// UpdateDispatchResult writes the reconciled status and tallies in one update.
// All values are absolute, so replaying the same result is a no-op.
func (r *EmailCampaignRepositoryImpl) UpdateDispatchResult(ctx context.Context, id uint, status models.EmailCampaignStatus, total, delivered, failed int) error {
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

	err = db.Model(&models.EmailCampaign{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           status,
			"total_recipients": total,
			"delivered_count":  delivered,
			"failed_count":     failed,
			"updated_at":       time.Now().UTC(),
		}).Error

	if err != nil {
		return fmt.Errorf("failed to update email campaign dispatch result: %w", err)
	}

	return nil
}

// ListDue retrieves scheduled campaigns whose schedule time has passed
func (r *EmailCampaignRepositoryImpl) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.EmailCampaign, error) {
	status := models.EmailCampaignStatusScheduled
	filter := models.EmailCampaignFilter{
		Status:          &status,
		ScheduledBefore: &now,
	}
	return r.ByFilter(ctx, filter, "scheduled_at ASC", limit, 0)
}

// ByFilter retrieves email campaigns based on filter criteria
func (r *EmailCampaignRepositoryImpl) ByFilter(ctx context.Context, filter models.EmailCampaignFilter, orderBy string, limit, offset int) ([]*models.EmailCampaign, error) {
	db := r.getDB(ctx)

	var campaigns []*models.EmailCampaign
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

	err := query.Find(&campaigns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find email campaigns by filter: %w", err)
	}

	return campaigns, nil
}

// Count returns the number of email campaigns matching the filter
func (r *EmailCampaignRepositoryImpl) Count(ctx context.Context, filter models.EmailCampaignFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.EmailCampaign{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count email campaigns: %w", err)
	}

	return count, nil
}

// Exists checks if any email campaign matching the filter exists
func (r *EmailCampaignRepositoryImpl) Exists(ctx context.Context, filter models.EmailCampaignFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *EmailCampaignRepositoryImpl) applyFilter(db *gorm.DB, filter models.EmailCampaignFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.CustomerID != nil {
		db = db.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.ScheduleType != nil {
		db = db.Where("schedule_type = ?", *filter.ScheduleType)
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
