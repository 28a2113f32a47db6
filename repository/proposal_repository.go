package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/utils"
	"gorm.io/gorm"
)

// ProposalRepositoryImpl implements the ProposalRepository interface
type ProposalRepositoryImpl struct {
	*BaseRepository[models.Proposal, models.ProposalFilter]
}

// NewProposalRepository creates a new proposal repository
func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &ProposalRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Proposal, models.ProposalFilter](db),
	}
}

// ByUUID retrieves a proposal by UUID
func (r *ProposalRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Proposal, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID format: %w", err)
	}

	filter := models.ProposalFilter{UUID: &parsedUUID}
	proposals, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find proposal by UUID: %w", err)
	}

	if len(proposals) == 0 {
		return nil, nil
	}

	return proposals[0], nil
}

// ByCustomerID retrieves proposals by customer ID with pagination
func (r *ProposalRepositoryImpl) ByCustomerID(ctx context.Context, customerID uint, limit, offset int) ([]*models.Proposal, error) {
	filter := models.ProposalFilter{CustomerID: &customerID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// UpdateDeliveryStatus writes the proposal's delivery state. The background
// sender calls this to record its own terminal sent or failed outcome.
func (r *ProposalRepositoryImpl) UpdateDeliveryStatus(ctx context.Context, id uint, status models.ProposalStatus, errorMessage *string, sentAt *time.Time) error {
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

	err = db.Model(&models.Proposal{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        status,
			"error_message": errorMessage,
			"sent_at":       sentAt,
			"updated_at":    time.Now().UTC(),
		}).Error

	if err != nil {
		return fmt.Errorf("failed to update proposal delivery status: %w", err)
	}

	return nil
}

// ByFilter retrieves proposals based on filter criteria
func (r *ProposalRepositoryImpl) ByFilter(ctx context.Context, filter models.ProposalFilter, orderBy string, limit, offset int) ([]*models.Proposal, error) {
	db := r.getDB(ctx)

	var proposals []*models.Proposal
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

	err := query.Find(&proposals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find proposals by filter: %w", err)
	}

	return proposals, nil
}

// Count returns the number of proposals matching the filter
func (r *ProposalRepositoryImpl) Count(ctx context.Context, filter models.ProposalFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Proposal{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count proposals: %w", err)
	}

	return count, nil
}

// Exists checks if any proposal matching the filter exists
func (r *ProposalRepositoryImpl) Exists(ctx context.Context, filter models.ProposalFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *ProposalRepositoryImpl) applyFilter(db *gorm.DB, filter models.ProposalFilter) *gorm.DB {
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
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}

	return db
}
