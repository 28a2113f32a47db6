package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sepehrdad/Hydra-Marketing/app/dto"
	"github.com/sepehrdad/Hydra-Marketing/app/platforms"
	"github.com/sepehrdad/Hydra-Marketing/app/services"
	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/repository"
	"github.com/sepehrdad/Hydra-Marketing/utils"
	"gorm.io/gorm"
)

const proposalSystemPrompt = "You are a marketing strategist. Produce a marketing proposal for the customer's brief as a JSON object of the form {\"summary\": string, \"sections\": [{\"heading\": string, \"body\": string}]}. Respond with the JSON object only."

// ProposalFlow handles AI proposal generation and delivery
type ProposalFlow interface {
	Generate(ctx context.Context, request *dto.GenerateProposalRequest, metadata *ClientMetadata) (*dto.GenerateProposalResponse, error)
	Send(ctx context.Context, request *dto.SendProposalRequest, metadata *ClientMetadata) (*dto.SendProposalResponse, error)
	Get(ctx context.Context, request *dto.GetProposalRequest) (*dto.ProposalDTO, error)
	List(ctx context.Context, request *dto.ListProposalsRequest) (*dto.ListProposalsResponse, error)
}

// ProposalFlowImpl implements the proposal business flow
type ProposalFlowImpl struct {
	proposalRepo repository.ProposalRepository
	auditRepo    repository.AuditLogRepository
	aiService    services.AIService
	emailSender  platforms.EmailSender
	db           *gorm.DB
}

// NewProposalFlow creates a new proposal flow instance
func NewProposalFlow(
	proposalRepo repository.ProposalRepository,
	auditRepo repository.AuditLogRepository,
	aiService services.AIService,
	emailSender platforms.EmailSender,
	db *gorm.DB,
) ProposalFlow {
	return &ProposalFlowImpl{
		proposalRepo: proposalRepo,
		auditRepo:    auditRepo,
		aiService:    aiService,
		emailSender:  emailSender,
		db:           db,
	}
}

// Generate produces proposal content from the customer's brief and stores it
func (pf *ProposalFlowImpl) Generate(ctx context.Context, request *dto.GenerateProposalRequest, metadata *ClientMetadata) (*dto.GenerateProposalResponse, error) {
	if err := pf.validateGenerateRequest(request); err != nil {
		return nil, NewBusinessError("PROPOSAL_VALIDATION_FAILED", "Proposal validation failed", err)
	}

	content, err := pf.generateContent(ctx, request.Prompt)
	if err != nil {
		return nil, NewBusinessError("PROPOSAL_GENERATION_FAILED", "Proposal generation failed", err)
	}

	proposal := &models.Proposal{
		CustomerID: request.CustomerID,
		Title:      request.Title,
		Prompt:     request.Prompt,
		Content:    content,
		Status:     models.ProposalStatusPending,
	}

	err = repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
		return pf.proposalRepo.Save(ctx, proposal)
	})
	if err != nil {
		return nil, NewBusinessError("PROPOSAL_CREATE_FAILED", "Proposal creation failed", err)
	}

	msg := fmt.Sprintf("Proposal generated: %s", proposal.UUID)
	_ = logAudit(ctx, pf.auditRepo, &proposal.CustomerID, models.AuditActionProposalGenerated, msg, true, nil, metadata)

	return &dto.GenerateProposalResponse{
		Proposal: ToProposalDTO(proposal),
	}, nil
}

// Send queues the proposal for email delivery and returns immediately.
// Delivery runs in the background; its outcome is written to the row and
// visible through Get and List.
func (pf *ProposalFlowImpl) Send(ctx context.Context, request *dto.SendProposalRequest, metadata *ClientMetadata) (*dto.SendProposalResponse, error) {
	if request.RecipientEmail == "" {
		return nil, NewBusinessError("PROPOSAL_VALIDATION_FAILED", "Proposal validation failed", ErrRecipientEmailRequired)
	}
	if !pf.emailSender.ValidRecipient(request.RecipientEmail) {
		return nil, NewBusinessError("PROPOSAL_VALIDATION_FAILED", "Proposal validation failed", ErrRecipientEmailRequired)
	}

	proposal, err := pf.proposalRepo.ByUUID(ctx, request.UUID)
	if err != nil {
		return nil, NewBusinessError("PROPOSAL_GET_FAILED", "Proposal lookup failed", err)
	}
	if proposal == nil {
		return nil, NewBusinessError("PROPOSAL_NOT_FOUND", "Proposal not found", ErrProposalNotFound)
	}
	if proposal.CustomerID != request.CustomerID {
		return nil, NewBusinessError("PROPOSAL_ACCESS_DENIED", "Proposal access denied", ErrProposalAccessDenied)
	}
	if !proposal.CanTransitionTo(models.ProposalStatusQueued) {
		return nil, NewBusinessError("PROPOSAL_NOT_SENDABLE", "Proposal cannot be sent", ErrProposalNotSendable)
	}

	proposal.Status = models.ProposalStatusQueued
	proposal.RecipientEmail = utils.ToPtr(request.RecipientEmail)
	if err := pf.proposalRepo.Save(ctx, proposal); err != nil {
		return nil, NewBusinessError("PROPOSAL_SEND_FAILED", "Proposal send failed", err)
	}

	go pf.deliver(proposal.ID, proposal.Title, proposal.Content, request.RecipientEmail, proposal.CustomerID, metadata)

	return &dto.SendProposalResponse{
		Proposal: ToProposalDTO(proposal),
	}, nil
}

type proposalCompletion struct {
	Summary  string `json:"summary"`
	Sections []struct {
		Heading string `json:"heading"`
		Body    string `json:"body"`
	} `json:"sections"`
}

// generateContent asks the model for a structured proposal and renders it
// to plain text. When the model ignores the format and answers in prose,
// the prose becomes the proposal content as-is.
func (pf *ProposalFlowImpl) generateContent(ctx context.Context, prompt string) (string, error) {
	var completion proposalCompletion
	raw, decoded, err := pf.aiService.GenerateJSON(ctx, proposalSystemPrompt, prompt, &completion)
	if err != nil {
		return "", err
	}
	if !decoded {
		return raw, nil
	}
	return renderProposal(completion), nil
}

func renderProposal(completion proposalCompletion) string {
	var b strings.Builder
	if completion.Summary != "" {
		b.WriteString(completion.Summary)
		b.WriteString("\n\n")
	}
	for _, section := range completion.Sections {
		if section.Heading != "" {
			b.WriteString(section.Heading)
			b.WriteString("\n")
		}
		b.WriteString(section.Body)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

// deliver runs the actual email send outside the request lifecycle and
// records the terminal status itself. It must not use the request context,
// which is gone by the time it runs.
func (pf *ProposalFlowImpl) deliver(proposalID uint, title, content, recipientEmail string, customerID uint, metadata *ClientMetadata) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	htmlBody := fmt.Sprintf("<html><body><pre style=\"font-family:inherit;white-space:pre-wrap\">%s</pre></body></html>", content)
	result := pf.emailSender.SendEmail(ctx, recipientEmail, title, htmlBody)

	if result.Success {
		now := utils.UTCNow()
		if err := pf.proposalRepo.UpdateDeliveryStatus(ctx, proposalID, models.ProposalStatusSent, nil, &now); err != nil {
			return
		}

		msg := fmt.Sprintf("Proposal sent to %s", recipientEmail)
		_ = logAudit(ctx, pf.auditRepo, &customerID, models.AuditActionProposalSent, msg, true, nil, metadata)
		return
	}

	errMsg := result.Reason
	if err := pf.proposalRepo.UpdateDeliveryStatus(ctx, proposalID, models.ProposalStatusFailed, &errMsg, nil); err != nil {
		return
	}

	desc := fmt.Sprintf("Proposal delivery failed: %s", errMsg)
	_ = logAudit(ctx, pf.auditRepo, &customerID, models.AuditActionProposalSent, desc, false, &errMsg, metadata)
}

// Get fetches one proposal owned by the customer
func (pf *ProposalFlowImpl) Get(ctx context.Context, request *dto.GetProposalRequest) (*dto.ProposalDTO, error) {
	proposal, err := pf.proposalRepo.ByUUID(ctx, request.UUID)
	if err != nil {
		return nil, NewBusinessError("PROPOSAL_GET_FAILED", "Proposal lookup failed", err)
	}
	if proposal == nil {
		return nil, NewBusinessError("PROPOSAL_NOT_FOUND", "Proposal not found", ErrProposalNotFound)
	}
	if proposal.CustomerID != request.CustomerID {
		return nil, NewBusinessError("PROPOSAL_ACCESS_DENIED", "Proposal access denied", ErrProposalAccessDenied)
	}

	result := ToProposalDTO(proposal)
	return &result, nil
}

// List returns the customer's proposals, newest first
func (pf *ProposalFlowImpl) List(ctx context.Context, request *dto.ListProposalsRequest) (*dto.ListProposalsResponse, error) {
	limit, offset, err := NormalizePagination(request.Page, request.PageSize)
	if err != nil {
		return nil, NewBusinessError("PROPOSAL_LIST_VALIDATION_FAILED", "Proposal listing validation failed", err)
	}

	filter := models.ProposalFilter{
		CustomerID: &request.CustomerID,
	}

	proposals, err := pf.proposalRepo.ByFilter(ctx, filter, "created_at DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("PROPOSAL_LIST_FAILED", "Proposal listing failed", err)
	}

	total, err := pf.proposalRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("PROPOSAL_LIST_FAILED", "Proposal listing failed", err)
	}

	items := make([]dto.ProposalDTO, 0, len(proposals))
	for _, proposal := range proposals {
		items = append(items, ToProposalDTO(proposal))
	}

	return &dto.ListProposalsResponse{
		Proposals: items,
		Total:     total,
		Page:      request.Page,
		PageSize:  request.PageSize,
	}, nil
}

// ToProposalDTO converts a proposal model to its response representation
func ToProposalDTO(proposal *models.Proposal) dto.ProposalDTO {
	return dto.ProposalDTO{
		UUID:           proposal.UUID.String(),
		Title:          proposal.Title,
		Prompt:         proposal.Prompt,
		Content:        proposal.Content,
		Status:         proposal.Status.String(),
		RecipientEmail: proposal.RecipientEmail,
		ErrorMessage:   proposal.ErrorMessage,
		SentAt:         proposal.SentAt,
		CreatedAt:      proposal.CreatedAt,
		UpdatedAt:      proposal.UpdatedAt,
	}
}

func (pf *ProposalFlowImpl) validateGenerateRequest(request *dto.GenerateProposalRequest) error {
	if request.Title == "" {
		return ErrTitleRequired
	}
	if request.Prompt == "" {
		return ErrPromptRequired
	}

	return nil
}
