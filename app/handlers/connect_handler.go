package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/sepehrdad/Hydra-Marketing/app/dto"
	businessflow "github.com/sepehrdad/Hydra-Marketing/business_flow"
)

// ConnectHandlerInterface defines the contract for account connection handlers
type ConnectHandlerInterface interface {
	StartConnect(c fiber.Ctx) error
	Callback(c fiber.Ctx) error
	ListAccounts(c fiber.Ctx) error
	DisconnectAccount(c fiber.Ctx) error
}

// ConnectHandler handles social account connection HTTP requests
type ConnectHandler struct {
	connectFlow businessflow.ConnectFlow
}

// NewConnectHandler creates a new connect handler
func NewConnectHandler(connectFlow businessflow.ConnectFlow) *ConnectHandler {
	return &ConnectHandler{connectFlow: connectFlow}
}

func (h *ConnectHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ConnectHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// StartConnect begins the OAuth flow for a platform and returns the
// provider URL the customer should be redirected to
func (h *ConnectHandler) StartConnect(c fiber.Ctx) error {
	platform := c.Params("platform")
	if platform == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Platform is required", "MISSING_PLATFORM", nil)
	}

	customerID, ok := authenticatedCustomerID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	req := dto.StartConnectRequest{CustomerID: customerID, Platform: platform}

	result, err := h.connectFlow.Start(createRequestContext(c, "/api/v1/connect/"+platform+"/start"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsUnsupportedPlatform(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unsupported platform", "UNSUPPORTED_PLATFORM", nil)
		}

		log.Println("Connect start failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Could not start account connection", "CONNECT_START_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Authorization URL generated", result)
}

// Callback handles the provider redirect. This route is public: the
// customer identity comes from the state token, never from a session.
func (h *ConnectHandler) Callback(c fiber.Ctx) error {
	platform := c.Params("platform")

	req := dto.CompleteConnectRequest{
		State: c.Query("state"),
		Code:  c.Query("code"),
		Error: c.Query("error"),
	}
	if req.State == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "State parameter is required", "MISSING_STATE", nil)
	}

	result, err := h.connectFlow.Complete(createRequestContext(c, "/api/v1/connect/"+platform+"/callback"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsOAuthStateInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid or expired state token", "OAUTH_STATE_INVALID", nil)
		}
		if businessflow.IsOAuthAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Authorization was denied by the user", "OAUTH_ACCESS_DENIED", nil)
		}
		if businessflow.IsOAuthCodeMissing(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Authorization code is missing", "OAUTH_CODE_MISSING", nil)
		}
		if businessflow.IsOAuthExchangeFailed(err) {
			return h.ErrorResponse(c, fiber.StatusBadGateway, "Token exchange with the provider failed", "OAUTH_EXCHANGE_FAILED", nil)
		}

		log.Println("Connect callback failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Account connection failed", "CONNECT_CALLBACK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Account connected successfully", result)
}

// ListAccounts lists the customer's connected accounts
func (h *ConnectHandler) ListAccounts(c fiber.Ctx) error {
	customerID, ok := authenticatedCustomerID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	result, err := h.connectFlow.ListAccounts(createRequestContext(c, "/api/v1/accounts"), customerID)
	if err != nil {
		log.Println("Account listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Account listing failed", "ACCOUNT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Accounts retrieved successfully", result)
}

// DisconnectAccount deactivates the customer's account for a platform
func (h *ConnectHandler) DisconnectAccount(c fiber.Ctx) error {
	platform := c.Params("platform")
	if platform == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Platform is required", "MISSING_PLATFORM", nil)
	}

	customerID, ok := authenticatedCustomerID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	req := dto.DisconnectAccountRequest{CustomerID: customerID, Platform: platform}

	if err := h.connectFlow.Disconnect(createRequestContext(c, "/api/v1/accounts/"+platform), &req, clientMetadata(c)); err != nil {
		if businessflow.IsAccountNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "No connected account for platform", "ACCOUNT_NOT_FOUND", nil)
		}
		if businessflow.IsUnsupportedPlatform(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unsupported platform", "UNSUPPORTED_PLATFORM", nil)
		}

		log.Println("Account disconnect failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Account disconnect failed", "ACCOUNT_DISCONNECT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Account disconnected successfully", nil)
}
