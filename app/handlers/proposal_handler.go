package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/sepehrdad/Hydra-Marketing/app/dto"
	businessflow "github.com/sepehrdad/Hydra-Marketing/business_flow"
)

// ProposalHandlerInterface defines the contract for proposal handlers
type ProposalHandlerInterface interface {
	GenerateProposal(c fiber.Ctx) error
	SendProposal(c fiber.Ctx) error
	GetProposal(c fiber.Ctx) error
	ListProposals(c fiber.Ctx) error
}

// ProposalHandler handles AI proposal HTTP requests
type ProposalHandler struct {
	proposalFlow businessflow.ProposalFlow
	validator    *validator.Validate
}

// NewProposalHandler creates a new proposal handler
func NewProposalHandler(proposalFlow businessflow.ProposalFlow) *ProposalHandler {
	return &ProposalHandler{
		proposalFlow: proposalFlow,
		validator:    validator.New(),
	}
}

func (h *ProposalHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ProposalHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// GenerateProposal generates a marketing proposal from a customer prompt
func (h *ProposalHandler) GenerateProposal(c fiber.Ctx) error {
	var req dto.GenerateProposalRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	customerID, ok := authenticatedCustomerID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}
	req.CustomerID = customerID

	result, err := h.proposalFlow.Generate(createRequestContext(c, "/api/v1/proposals"), &req, clientMetadata(c))
	if err != nil {
		if berr, ok := err.(*businessflow.BusinessError); ok && berr.Code == "PROPOSAL_VALIDATION_FAILED" {
			return h.ErrorResponse(c, fiber.StatusBadRequest, berr.Error(), berr.Code, nil)
		}

		log.Println("Proposal generation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Proposal generation failed", "PROPOSAL_GENERATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Proposal generated successfully", result)
}

// SendProposal queues a proposal for email delivery. Delivery happens in
// the background; the response acknowledges the queued state only.
func (h *ProposalHandler) SendProposal(c fiber.Ctx) error {
	proposalUUID := c.Params("uuid")
	if proposalUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Proposal UUID is required", "MISSING_PROPOSAL_UUID", nil)
	}

	var req dto.SendProposalRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	customerID, ok := authenticatedCustomerID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}
	req.UUID = proposalUUID
	req.CustomerID = customerID

	result, err := h.proposalFlow.Send(createRequestContext(c, "/api/v1/proposals/"+proposalUUID+"/send"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsProposalNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Proposal not found", "PROPOSAL_NOT_FOUND", nil)
		}
		if businessflow.IsProposalAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Access denied: proposal belongs to another customer", "PROPOSAL_ACCESS_DENIED", nil)
		}
		if businessflow.IsProposalNotSendable(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Proposal cannot be sent in its current status", "PROPOSAL_NOT_SENDABLE", nil)
		}

		log.Println("Proposal send failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Proposal send failed", "PROPOSAL_SEND_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusAccepted, "Proposal delivery queued", result)
}

// GetProposal fetches one proposal by UUID
func (h *ProposalHandler) GetProposal(c fiber.Ctx) error {
	proposalUUID := c.Params("uuid")
	if proposalUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Proposal UUID is required", "MISSING_PROPOSAL_UUID", nil)
	}

	customerID, ok := authenticatedCustomerID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	req := dto.GetProposalRequest{UUID: proposalUUID, CustomerID: customerID}

	result, err := h.proposalFlow.Get(createRequestContext(c, "/api/v1/proposals/"+proposalUUID), &req)
	if err != nil {
		if businessflow.IsProposalNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Proposal not found", "PROPOSAL_NOT_FOUND", nil)
		}
		if businessflow.IsProposalAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Access denied: proposal belongs to another customer", "PROPOSAL_ACCESS_DENIED", nil)
		}

		log.Println("Proposal lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Proposal lookup failed", "PROPOSAL_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Proposal retrieved successfully", result)
}

// ListProposals lists the customer's proposals
func (h *ProposalHandler) ListProposals(c fiber.Ctx) error {
	customerID, ok := authenticatedCustomerID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	page, pageSize := parsePagination(c)
	req := dto.ListProposalsRequest{
		CustomerID: customerID,
		Page:       page,
		PageSize:   pageSize,
	}

	result, err := h.proposalFlow.List(createRequestContext(c, "/api/v1/proposals"), &req)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}

		log.Println("Proposal listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Proposal listing failed", "PROPOSAL_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Proposals retrieved successfully", result)
}
