package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/sepehrdad/Hydra-Marketing/app/dto"
	businessflow "github.com/sepehrdad/Hydra-Marketing/business_flow"
)

// EmailCampaignHandlerInterface defines the contract for email campaign handlers
type EmailCampaignHandlerInterface interface {
	CreateCampaign(c fiber.Ctx) error
	GetCampaign(c fiber.Ctx) error
	ListCampaigns(c fiber.Ctx) error
}

// EmailCampaignHandler handles email campaign HTTP requests
type EmailCampaignHandler struct {
	campaignFlow businessflow.EmailCampaignFlow
	validator    *validator.Validate
}

// NewEmailCampaignHandler creates a new email campaign handler
func NewEmailCampaignHandler(campaignFlow businessflow.EmailCampaignFlow) *EmailCampaignHandler {
	return &EmailCampaignHandler{
		campaignFlow: campaignFlow,
		validator:    validator.New(),
	}
}

func (h *EmailCampaignHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *EmailCampaignHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateCampaign creates an email campaign and, for immediate campaigns,
// dispatches it
func (h *EmailCampaignHandler) CreateCampaign(c fiber.Ctx) error {
	var req dto.CreateEmailCampaignRequest
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

	result, err := h.campaignFlow.Create(createRequestContext(c, "/api/v1/email-campaigns"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsNoValidRecipients(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "No valid recipients", "NO_VALID_RECIPIENTS", nil)
		}
		if businessflow.IsScheduleTimeInPast(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Schedule time is in the past", "SCHEDULE_TIME_IN_PAST", nil)
		}
		if berr, ok := err.(*businessflow.BusinessError); ok && berr.Code == "CAMPAIGN_VALIDATION_FAILED" {
			return h.ErrorResponse(c, fiber.StatusBadRequest, berr.Error(), berr.Code, nil)
		}

		log.Println("Email campaign creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Campaign creation failed", "CAMPAIGN_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Email campaign created successfully", result)
}

// GetCampaign fetches one campaign by UUID
func (h *EmailCampaignHandler) GetCampaign(c fiber.Ctx) error {
	campaignUUID := c.Params("uuid")
	if campaignUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Campaign UUID is required", "MISSING_CAMPAIGN_UUID", nil)
	}

	customerID, ok := authenticatedCustomerID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	req := dto.GetEmailCampaignRequest{UUID: campaignUUID, CustomerID: customerID}

	result, err := h.campaignFlow.Get(createRequestContext(c, "/api/v1/email-campaigns/"+campaignUUID), &req)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Access denied: campaign belongs to another customer", "CAMPAIGN_ACCESS_DENIED", nil)
		}

		log.Println("Email campaign lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Campaign lookup failed", "CAMPAIGN_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign retrieved successfully", result)
}

// ListCampaigns lists the customer's campaigns
func (h *EmailCampaignHandler) ListCampaigns(c fiber.Ctx) error {
	customerID, ok := authenticatedCustomerID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	page, pageSize := parsePagination(c)
	req := dto.ListEmailCampaignsRequest{
		CustomerID: customerID,
		Status:     c.Query("status"),
		Page:       page,
		PageSize:   pageSize,
	}

	result, err := h.campaignFlow.List(createRequestContext(c, "/api/v1/email-campaigns"), &req)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}

		log.Println("Email campaign listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Campaign listing failed", "CAMPAIGN_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaigns retrieved successfully", result)
}
