package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/sepehrdad/Hydra-Marketing/app/dto"
	businessflow "github.com/sepehrdad/Hydra-Marketing/business_flow"
)

// AdHandlerInterface defines the contract for ad handlers
type AdHandlerInterface interface {
	CreateAd(c fiber.Ctx) error
	GetAd(c fiber.Ctx) error
	ListAds(c fiber.Ctx) error
}

// AdHandler handles paid ad HTTP requests
type AdHandler struct {
	adFlow    businessflow.AdFlow
	validator *validator.Validate
}

// NewAdHandler creates a new ad handler
func NewAdHandler(adFlow businessflow.AdFlow) *AdHandler {
	return &AdHandler{
		adFlow:    adFlow,
		validator: validator.New(),
	}
}

func (h *AdHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AdHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateAd creates an ad and submits it to the platform. A provider
// rejection still creates the ad record in failed status.
func (h *AdHandler) CreateAd(c fiber.Ctx) error {
	var req dto.CreateAdRequest
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

	result, err := h.adFlow.Create(createRequestContext(c, "/api/v1/ads"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsUnsupportedPlatform(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unsupported ad platform", "UNSUPPORTED_PLATFORM", nil)
		}
		if businessflow.IsAccountNotConnected(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "No connected account for platform", "ACCOUNT_NOT_CONNECTED", nil)
		}
		if berr, ok := err.(*businessflow.BusinessError); ok && berr.Code == "AD_VALIDATION_FAILED" {
			return h.ErrorResponse(c, fiber.StatusBadRequest, berr.Error(), berr.Code, nil)
		}

		log.Println("Ad creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Ad creation failed", "AD_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Ad created successfully", result)
}

// GetAd fetches one ad by UUID
func (h *AdHandler) GetAd(c fiber.Ctx) error {
	adUUID := c.Params("uuid")
	if adUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Ad UUID is required", "MISSING_AD_UUID", nil)
	}

	customerID, ok := authenticatedCustomerID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	req := dto.GetAdRequest{UUID: adUUID, CustomerID: customerID}

	result, err := h.adFlow.Get(createRequestContext(c, "/api/v1/ads/"+adUUID), &req)
	if err != nil {
		if businessflow.IsAdNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Ad not found", "AD_NOT_FOUND", nil)
		}
		if businessflow.IsAdAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Access denied: ad belongs to another customer", "AD_ACCESS_DENIED", nil)
		}

		log.Println("Ad lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Ad lookup failed", "AD_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Ad retrieved successfully", result)
}

// ListAds lists the customer's ads
func (h *AdHandler) ListAds(c fiber.Ctx) error {
	customerID, ok := authenticatedCustomerID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	page, pageSize := parsePagination(c)
	req := dto.ListAdsRequest{
		CustomerID: customerID,
		Platform:   c.Query("platform"),
		Status:     c.Query("status"),
		Page:       page,
		PageSize:   pageSize,
	}

	result, err := h.adFlow.List(createRequestContext(c, "/api/v1/ads"), &req)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}

		log.Println("Ad listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Ad listing failed", "AD_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Ads retrieved successfully", result)
}
