// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/repository"
	"github.com/sepehrdad/Hydra-Marketing/utils"
)

// ClientMetadata holds all client-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// validateSchedule checks the schedule fields shared by campaigns and posts:
// a scheduled item must carry a future schedule time.
func validateSchedule(scheduleType models.ScheduleType, scheduledAt *time.Time) error {
	if !scheduleType.Valid() {
		return fmt.Errorf("invalid schedule type: %s", scheduleType)
	}

	if scheduleType == models.ScheduleTypeScheduled {
		if scheduledAt == nil {
			return ErrScheduleTimeNotPresent
		}
		if !scheduledAt.After(utils.UTCNow()) {
			return ErrScheduleTimeInPast
		}
	}

	return nil
}

// logAudit writes one audit record. Flows call it after the outcome is
// decided; a failed audit write never fails the flow itself.
func logAudit(ctx context.Context, auditRepo repository.AuditLogRepository, customerID *uint, action, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		CustomerID:   customerID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errMsg,
	}

	if metadata != nil && metadata.RequestID != "" {
		audit.RequestID = &metadata.RequestID
	}

	return auditRepo.Save(ctx, audit)
}

// NormalizePagination validates page/pageSize and converts them to limit/offset
func NormalizePagination(page, pageSize int) (limit, offset int, err error) {
	if page < 1 {
		return 0, 0, ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return 0, 0, ErrInvalidPageSize
	}
	return pageSize, (page - 1) * pageSize, nil
}
