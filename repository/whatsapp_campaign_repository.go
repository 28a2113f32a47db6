package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/utils"
	"gorm.io/gorm"
)

// WhatsAppCampaignRepositoryImpl implements the WhatsAppCampaignRepository interface
type WhatsAppCampaignRepositoryImpl struct {
	*BaseRepository[models.WhatsAppCampaign, models.WhatsAppCampaignFilter]
}

// NewWhatsAppCampaignRepository creates a new WhatsApp campaign repository
func NewWhatsAppCampaignRepository(db *gorm.DB) WhatsAppCampaignRepository {
	return &WhatsAppCampaignRepositoryImpl{
		BaseRepository: NewBaseRepository[models.WhatsAppCampaign, models.WhatsAppCampaignFilter](db),
	}
}

// ByUUID retrieves a WhatsApp campaign by UUID
func (r *WhatsAppCampaignRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.WhatsAppCampaign, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID format: %w", err)
	}

	filter := models.WhatsAppCampaignFilter{UUID: &parsedUUID}
	campaigns, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find WhatsApp campaign by UUID: %w", err)
	}

	if len(campaigns) == 0 {
		return nil, nil
	}

	return campaigns[0], nil
}

// ByCustomerID retrieves WhatsApp campaigns by customer ID with pagination
func (r *WhatsAppCampaignRepositoryImpl) ByCustomerID(ctx context.Context, customerID uint, limit, offset int) ([]*models.WhatsAppCampaign, error) {
	filter := models.WhatsAppCampaignFilter{CustomerID: &customerID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// UpdateDispatchResult writes the reconciled status and tallies in one update.
// All values are absolute, so replaying the same result is a no-op.
func (r *WhatsAppCampaignRepositoryImpl) UpdateDispatchResult(ctx context.Context, id uint, status models.WhatsAppCampaignStatus, total, delivered, failed int) error {
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

	err = db.Model(&models.WhatsAppCampaign{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           status,
			"total_recipients": total,
			"delivered_count":  delivered,
			"failed_count":     failed,
			"updated_at":       time.Now().UTC(),
		}).Error

	if err != nil {
		return fmt.Errorf("failed to update WhatsApp campaign dispatch result: %w", err)
	}

	return nil
}

// ListDue retrieves scheduled campaigns whose schedule time has passed
func (r *WhatsAppCampaignRepositoryImpl) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.WhatsAppCampaign, error) {
	status := models.WhatsAppCampaignStatusScheduled
	filter := models.WhatsAppCampaignFilter{
		Status:          &status,
		ScheduledBefore: &now,
	}
	return r.ByFilter(ctx, filter, "scheduled_at ASC", limit, 0)
}

// ByFilter retrieves WhatsApp campaigns based on filter criteria
func (r *WhatsAppCampaignRepositoryImpl) ByFilter(ctx context.Context, filter models.WhatsAppCampaignFilter, orderBy string, limit, offset int) ([]*models.WhatsAppCampaign, error) {
	db := r.getDB(ctx)

	var campaigns []*models.WhatsAppCampaign
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
		return nil, fmt.Errorf("failed to find WhatsApp campaigns by filter: %w", err)
	}

	return campaigns, nil
}

// Count returns the number of WhatsApp campaigns matching the filter
func (r *WhatsAppCampaignRepositoryImpl) Count(ctx context.Context, filter models.WhatsAppCampaignFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.WhatsAppCampaign{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count WhatsApp campaigns: %w", err)
	}

	return count, nil
}

// Exists checks if any WhatsApp campaign matching the filter exists
func (r *WhatsAppCampaignRepositoryImpl) Exists(ctx context.Context, filter models.WhatsAppCampaignFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *WhatsAppCampaignRepositoryImpl) applyFilter(db *gorm.DB, filter models.WhatsAppCampaignFilter) *gorm.DB {
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
