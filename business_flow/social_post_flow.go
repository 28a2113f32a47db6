package businessflow

import (
	"context"
	"fmt"

	"github.com/sepehrdad/Hydra-Marketing/app/dispatch"
	"github.com/sepehrdad/Hydra-Marketing/app/dto"
	"github.com/sepehrdad/Hydra-Marketing/app/platforms"
	"github.com/sepehrdad/Hydra-Marketing/app/services"
	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/repository"
	"github.com/sepehrdad/Hydra-Marketing/utils"
	"gorm.io/gorm"
)

// SocialPostFlow handles post creation, publishing, and queries
type SocialPostFlow interface {
	Create(ctx context.Context, request *dto.CreateSocialPostRequest, metadata *ClientMetadata) (*dto.CreateSocialPostResponse, error)
	Get(ctx context.Context, request *dto.GetSocialPostRequest) (*dto.SocialPostDTO, error)
	List(ctx context.Context, request *dto.ListSocialPostsRequest) (*dto.ListSocialPostsResponse, error)
	Publish(ctx context.Context, post *models.SocialPost, metadata *ClientMetadata) error
}

// SocialPostFlowImpl implements the social post business flow
type SocialPostFlowImpl struct {
	postRepo    repository.SocialPostRepository
	accountRepo repository.SocialAccountRepository
	auditRepo   repository.AuditLogRepository
	registry    *platforms.Registry
	reconciler  services.Reconciler
	db          *gorm.DB
}

// NewSocialPostFlow creates a new social post flow instance
func NewSocialPostFlow(
	postRepo repository.SocialPostRepository,
	accountRepo repository.SocialAccountRepository,
	auditRepo repository.AuditLogRepository,
	registry *platforms.Registry,
	reconciler services.Reconciler,
	db *gorm.DB,
) SocialPostFlow {
	return &SocialPostFlowImpl{
		postRepo:    postRepo,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		registry:    registry,
		reconciler:  reconciler,
		db:          db,
	}
}

// Create stores a new post bound to the customer's connected account on the
// requested platform and, for immediate posts, publishes it right away. A
// failed immediate publish is not an error at this level: the post lands in
// failed status with the reason recorded.
func (sf *SocialPostFlowImpl) Create(ctx context.Context, request *dto.CreateSocialPostRequest, metadata *ClientMetadata) (*dto.CreateSocialPostResponse, error) {
	if err := sf.validateCreateRequest(request); err != nil {
		return nil, NewBusinessError("POST_VALIDATION_FAILED", "Post validation failed", err)
	}

	platform := models.Platform(request.Platform)

	if _, ok := sf.registry.Publisher(platform); !ok {
		return nil, NewBusinessError("POST_VALIDATION_FAILED", "Post validation failed", ErrUnsupportedPlatform)
	}

	account, err := sf.connectedAccount(ctx, request.CustomerID, platform)
	if err != nil {
		return nil, NewBusinessError("POST_VALIDATION_FAILED", "Post validation failed", err)
	}

	post := &models.SocialPost{
		CustomerID:      request.CustomerID,
		SocialAccountID: account.ID,
		Platform:        platform,
		Caption:         request.Caption,
		MediaURLs:       request.MediaURLs,
		LinkURL:         request.LinkURL,
		ScheduleType:    models.ScheduleType(request.ScheduleType),
		ScheduledAt:     utils.TimeToUTCPtr(request.ScheduledAt),
		Status:          models.SocialPostStatusDraft,
	}
	if post.ScheduleType == models.ScheduleTypeScheduled {
		post.Status = models.SocialPostStatusScheduled
	}

	err = repository.WithTransaction(ctx, sf.db, func(ctx context.Context) error {
		return sf.postRepo.Save(ctx, post)
	})
	if err != nil {
		return nil, NewBusinessError("POST_CREATE_FAILED", "Post creation failed", err)
	}

	msg := fmt.Sprintf("Post created: %s on %s", post.UUID, post.Platform)
	_ = logAudit(ctx, sf.auditRepo, &post.CustomerID, models.AuditActionPostCreated, msg, true, nil, metadata)

	if post.ScheduleType == models.ScheduleTypeImmediate {
		if err := sf.Publish(ctx, post, metadata); err != nil {
			return nil, NewBusinessError("POST_PUBLISH_FAILED", "Post publishing failed", err)
		}
	}

	return &dto.CreateSocialPostResponse{
		Post: ToSocialPostDTO(post),
	}, nil
}

// Publish pushes the post through its platform adapter and reconciles the
// outcome onto the stored row. The scheduler uses this entry point for due
// posts.
func (sf *SocialPostFlowImpl) Publish(ctx context.Context, post *models.SocialPost, metadata *ClientMetadata) error {
	publisher, ok := sf.registry.Publisher(post.Platform)
	if !ok {
		return ErrUnsupportedPlatform
	}

	account, err := sf.connectedAccount(ctx, post.CustomerID, post.Platform)
	if err != nil {
		return err
	}

	content := platforms.PostContent{
		Caption:   post.Caption,
		MediaURLs: post.MediaURLs,
	}
	if post.LinkURL != nil {
		content.LinkURL = *post.LinkURL
	}

	cred := platforms.CredentialFromAccount(account)

	outcome := dispatch.Single(ctx, string(post.Platform), account.AccountID, func(ctx context.Context, _ string) dispatch.Outcome {
		result := publisher.Publish(ctx, cred, content)
		return dispatch.Outcome{
			Success:    result.Success,
			Reason:     result.Reason,
			ExternalID: result.ExternalID,
		}
	})

	result := platforms.PublishResult{
		Success:    outcome.Success,
		ExternalID: outcome.ExternalID,
		Reason:     outcome.Reason,
	}
	if err := sf.reconciler.ReconcilePost(ctx, post, result); err != nil {
		return err
	}

	if outcome.Success {
		msg := fmt.Sprintf("Post published: %s on %s", post.UUID, post.Platform)
		_ = logAudit(ctx, sf.auditRepo, &post.CustomerID, models.AuditActionPostPublished, msg, true, nil, metadata)
	} else {
		errMsg := fmt.Sprintf("Post publish failed: %s on %s: %s", post.UUID, post.Platform, outcome.Reason)
		_ = logAudit(ctx, sf.auditRepo, &post.CustomerID, models.AuditActionPostPublished, errMsg, false, &errMsg, metadata)
	}

	return nil
}

// Get fetches one post owned by the customer
func (sf *SocialPostFlowImpl) Get(ctx context.Context, request *dto.GetSocialPostRequest) (*dto.SocialPostDTO, error) {
	post, err := sf.postRepo.ByUUID(ctx, request.UUID)
	if err != nil {
		return nil, NewBusinessError("POST_GET_FAILED", "Post lookup failed", err)
	}
	if post == nil {
		return nil, NewBusinessError("POST_NOT_FOUND", "Post not found", ErrPostNotFound)
	}
	if post.CustomerID != request.CustomerID {
		return nil, NewBusinessError("POST_ACCESS_DENIED", "Post access denied", ErrPostAccessDenied)
	}

	result := ToSocialPostDTO(post)
	return &result, nil
}

// List returns the customer's posts, newest first
func (sf *SocialPostFlowImpl) List(ctx context.Context, request *dto.ListSocialPostsRequest) (*dto.ListSocialPostsResponse, error) {
	limit, offset, err := NormalizePagination(request.Page, request.PageSize)
	if err != nil {
		return nil, NewBusinessError("POST_LIST_VALIDATION_FAILED", "Post listing validation failed", err)
	}

	filter := models.SocialPostFilter{
		CustomerID: &request.CustomerID,
	}
	if request.Platform != "" {
		platform := models.Platform(request.Platform)
		filter.Platform = &platform
	}
	if request.Status != "" {
		status := models.SocialPostStatus(request.Status)
		filter.Status = &status
	}

	posts, err := sf.postRepo.ByFilter(ctx, filter, "created_at DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("POST_LIST_FAILED", "Post listing failed", err)
	}

	total, err := sf.postRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("POST_LIST_FAILED", "Post listing failed", err)
	}

	items := make([]dto.SocialPostDTO, 0, len(posts))
	for _, post := range posts {
		items = append(items, ToSocialPostDTO(post))
	}

	return &dto.ListSocialPostsResponse{
		Posts:    items,
		Total:    total,
		Page:     request.Page,
		PageSize: request.PageSize,
	}, nil
}

// ToSocialPostDTO converts a post model to its response representation
func ToSocialPostDTO(post *models.SocialPost) dto.SocialPostDTO {
	return dto.SocialPostDTO{
		UUID:           post.UUID.String(),
		Platform:       string(post.Platform),
		Caption:        post.Caption,
		MediaURLs:      post.MediaURLs,
		LinkURL:        post.LinkURL,
		ScheduleType:   string(post.ScheduleType),
		ScheduledAt:    post.ScheduledAt,
		Status:         post.Status.String(),
		ExternalPostID: post.ExternalPostID,
		ErrorMessage:   post.ErrorMessage,
		CreatedAt:      post.CreatedAt,
		UpdatedAt:      post.UpdatedAt,
	}
}

// connectedAccount fetches the customer's active account on a platform
func (sf *SocialPostFlowImpl) connectedAccount(ctx context.Context, customerID uint, platform models.Platform) (*models.SocialAccount, error) {
	account, err := sf.accountRepo.ByCustomerAndPlatform(ctx, customerID, platform)
	if err != nil {
		return nil, err
	}
	if account == nil || !account.IsConnected() {
		return nil, ErrAccountNotConnected
	}
	return account, nil
}

func (sf *SocialPostFlowImpl) validateCreateRequest(request *dto.CreateSocialPostRequest) error {
	if !models.Platform(request.Platform).Valid() {
		return ErrUnsupportedPlatform
	}
	if request.Caption == "" && len(request.MediaURLs) == 0 {
		return ErrCaptionOrMediaRequired
	}

	return validateSchedule(models.ScheduleType(request.ScheduleType), request.ScheduledAt)
}
