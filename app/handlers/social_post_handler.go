package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/sepehrdad/Hydra-Marketing/app/dto"
	businessflow "github.com/sepehrdad/Hydra-Marketing/business_flow"
)

// SocialPostHandlerInterface defines the contract for social post handlers
type SocialPostHandlerInterface interface {
	CreatePost(c fiber.Ctx) error
	GetPost(c fiber.Ctx) error
	ListPosts(c fiber.Ctx) error
}

// SocialPostHandler handles social post HTTP requests
type SocialPostHandler struct {
	postFlow  businessflow.SocialPostFlow
	validator *validator.Validate
}

// NewSocialPostHandler creates a new social post handler
func NewSocialPostHandler(postFlow businessflow.SocialPostFlow) *SocialPostHandler {
	return &SocialPostHandler{
		postFlow:  postFlow,
		validator: validator.New(),
	}
}

func (h *SocialPostHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *SocialPostHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreatePost creates a post and, for immediate posts, publishes it. A
// provider rejection still creates the post: it lands in failed status
// with the reason in the response body.
func (h *SocialPostHandler) CreatePost(c fiber.Ctx) error {
	var req dto.CreateSocialPostRequest
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

	result, err := h.postFlow.Create(createRequestContext(c, "/api/v1/posts"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsUnsupportedPlatform(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unsupported platform", "UNSUPPORTED_PLATFORM", nil)
		}
		if businessflow.IsAccountNotConnected(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "No connected account for platform", "ACCOUNT_NOT_CONNECTED", nil)
		}
		if businessflow.IsScheduleTimeInPast(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Schedule time is in the past", "SCHEDULE_TIME_IN_PAST", nil)
		}
		if berr, ok := err.(*businessflow.BusinessError); ok && berr.Code == "POST_VALIDATION_FAILED" {
			return h.ErrorResponse(c, fiber.StatusBadRequest, berr.Error(), berr.Code, nil)
		}

		log.Println("Post creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Post creation failed", "POST_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Post created successfully", result)
}

// GetPost fetches one post by UUID
func (h *SocialPostHandler) GetPost(c fiber.Ctx) error {
	postUUID := c.Params("uuid")
	if postUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Post UUID is required", "MISSING_POST_UUID", nil)
	}

	customerID, ok := authenticatedCustomerID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	req := dto.GetSocialPostRequest{UUID: postUUID, CustomerID: customerID}

	result, err := h.postFlow.Get(createRequestContext(c, "/api/v1/posts/"+postUUID), &req)
	if err != nil {
		if businessflow.IsPostNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Post not found", "POST_NOT_FOUND", nil)
		}
		if businessflow.IsPostAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Access denied: post belongs to another customer", "POST_ACCESS_DENIED", nil)
		}

		log.Println("Post lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Post lookup failed", "POST_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Post retrieved successfully", result)
}

// ListPosts lists the customer's posts
func (h *SocialPostHandler) ListPosts(c fiber.Ctx) error {
	customerID, ok := authenticatedCustomerID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	page, pageSize := parsePagination(c)
	req := dto.ListSocialPostsRequest{
		CustomerID: customerID,
		Platform:   c.Query("platform"),
		Status:     c.Query("status"),
		Page:       page,
		PageSize:   pageSize,
	}

	result, err := h.postFlow.List(createRequestContext(c, "/api/v1/posts"), &req)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}

		log.Println("Post listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Post listing failed", "POST_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Posts retrieved successfully", result)
}
