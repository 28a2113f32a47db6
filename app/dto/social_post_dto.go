package dto

import "time"

// CreateSocialPostRequest represents the request to create a social post
type CreateSocialPostRequest struct {
	CustomerID   uint       `json:"-"`
	Platform     string     `json:"platform" validate:"required,oneof=facebook instagram linkedin twitter pinterest"`
	Caption      string     `json:"caption,omitempty"`
	MediaURLs    []string   `json:"media_urls,omitempty" validate:"omitempty,dive,url"`
	LinkURL      *string    `json:"link_url,omitempty" validate:"omitempty,url"`
	ScheduleType string     `json:"schedule_type" validate:"required,oneof=immediate scheduled"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
}

// CreateSocialPostResponse represents the response to post creation
type CreateSocialPostResponse struct {
	Post SocialPostDTO `json:"post"`
}

// GetSocialPostRequest represents the request to fetch one post
type GetSocialPostRequest struct {
	UUID       string `json:"-"`
	CustomerID uint   `json:"-"`
}

// ListSocialPostsRequest represents the request to list posts
type ListSocialPostsRequest struct {
	CustomerID uint   `json:"-"`
	Platform   string `json:"-"`
	Status     string `json:"-"`
	Page       int    `json:"-"`
	PageSize   int    `json:"-"`
}

// SocialPostDTO represents a social post in responses
type SocialPostDTO struct {
	UUID           string     `json:"uuid"`
	Platform       string     `json:"platform"`
	Caption        string     `json:"caption"`
	MediaURLs      []string   `json:"media_urls,omitempty"`
	LinkURL        *string    `json:"link_url,omitempty"`
	ScheduleType   string     `json:"schedule_type"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`
	Status         string     `json:"status"`
	ExternalPostID *string    `json:"external_post_id,omitempty"`
	ErrorMessage   *string    `json:"error_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// ListSocialPostsResponse represents the post listing
type ListSocialPostsResponse struct {
	Posts    []SocialPostDTO `json:"posts"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}
