package dto

import "time"

// GenerateProposalRequest represents the request to generate a marketing proposal
type GenerateProposalRequest struct {
	CustomerID uint   `json:"-"`
	Title      string `json:"title" validate:"required,min=1,max=255"`
	Prompt     string `json:"prompt" validate:"required"`
}

// GenerateProposalResponse represents the generated proposal
type GenerateProposalResponse struct {
	Proposal ProposalDTO `json:"proposal"`
}

// SendProposalRequest represents the request to email a proposal
type SendProposalRequest struct {
	UUID           string `json:"-"`
	CustomerID     uint   `json:"-"`
	RecipientEmail string `json:"recipient_email" validate:"required,email"`
}

// SendProposalResponse acknowledges that delivery was queued
type SendProposalResponse struct {
	Proposal ProposalDTO `json:"proposal"`
}

// GetProposalRequest represents the request to fetch one proposal
type GetProposalRequest struct {
	UUID       string `json:"-"`
	CustomerID uint   `json:"-"`
}

// ListProposalsRequest represents the request to list proposals
type ListProposalsRequest struct {
	CustomerID uint `json:"-"`
	Page       int  `json:"-"`
	PageSize   int  `json:"-"`
}

// ProposalDTO represents a proposal in responses
type ProposalDTO struct {
	UUID           string     `json:"uuid"`
	Title          string     `json:"title"`
	Prompt         string     `json:"prompt"`
	Content        string     `json:"content"`
	Status         string     `json:"status"`
	RecipientEmail *string    `json:"recipient_email,omitempty"`
	ErrorMessage   *string    `json:"error_message,omitempty"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// ListProposalsResponse represents the proposal listing
type ListProposalsResponse struct {
	Proposals []ProposalDTO `json:"proposals"`
	Total     int64         `json:"total"`
	Page      int           `json:"page"`
	PageSize  int           `json:"page_size"`
}
