package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProposalStatus represents the delivery status of an AI-generated proposal.
// The sending goroutine owns the terminal transition: queued moves to sent
// or failed without any caller waiting on the result.
type ProposalStatus string

const (
	ProposalStatusPending ProposalStatus = "pending"
	ProposalStatusQueued  ProposalStatus = "queued"
	ProposalStatusSent    ProposalStatus = "sent"
	ProposalStatusFailed  ProposalStatus = "failed"
)

// String returns the string representation of the status
func (s ProposalStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalStatusPending, ProposalStatusQueued,
		ProposalStatusSent, ProposalStatusFailed:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for ProposalStatus
func (s *ProposalStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = ProposalStatus(v)
	case []byte:
		*s = ProposalStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ProposalStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for ProposalStatus
func (s ProposalStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid ProposalStatus: %s", s)
	}
	return string(s), nil
}

// Proposal represents an AI-generated marketing proposal document
type Proposal struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UUID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_proposals_uuid" json:"uuid"`
	CustomerID     uint           `gorm:"not null;index:idx_proposals_customer_id" json:"customer_id"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Prompt         string         `gorm:"type:text;not null" json:"prompt"`
	Content        string         `gorm:"type:text" json:"content"`
	RecipientEmail *string        `gorm:"size:255" json:"recipient_email,omitempty"`
	Status         ProposalStatus `gorm:"size:20;not null;default:'pending';index:idx_proposals_status" json:"status"`
	ErrorMessage   *string        `gorm:"type:text" json:"error_message,omitempty"`
	SentAt         *time.Time     `json:"sent_at,omitempty"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_proposals_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	Customer *Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
}

// TableName returns the table name for the model
func (Proposal) TableName() string {
	return "proposals"
}

// BeforeCreate is called before creating a new record
func (p *Proposal) BeforeCreate() error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	if p.Status == "" {
		p.Status = ProposalStatusPending
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (p *Proposal) BeforeUpdate() error {
	now := time.Now().UTC()
	p.UpdatedAt = &now
	return nil
}

// CanTransitionTo checks if the proposal can transition to the given status
func (p *Proposal) CanTransitionTo(newStatus ProposalStatus) bool {
	switch p.Status {
	case ProposalStatusPending:
		return newStatus == ProposalStatusQueued
	case ProposalStatusQueued:
		return newStatus == ProposalStatusSent || newStatus == ProposalStatusFailed
	case ProposalStatusFailed:
		return newStatus == ProposalStatusQueued
	default:
		return false
	}
}

// ProposalFilter represents filter criteria for proposals
type ProposalFilter struct {
	ID            *uint           `json:"id,omitempty"`
	UUID          *uuid.UUID      `json:"uuid,omitempty"`
	CustomerID    *uint           `json:"customer_id,omitempty"`
	Status        *ProposalStatus `json:"status,omitempty"`
	CreatedAfter  *time.Time      `json:"created_after,omitempty"`
	CreatedBefore *time.Time      `json:"created_before,omitempty"`
}
